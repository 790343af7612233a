package gamedata

import (
	"math/rand"
	"testing"
)

func TestLoadRoster(t *testing.T) {
	units, err := LoadRoster()
	if err != nil {
		t.Fatalf("Failed to load roster: %v", err)
	}

	expectedIDs := map[string]bool{"fighter": false, "archer": false, "cleric": false, "goblin": false, "orc": false, "spider": false}
	for _, u := range units {
		if _, ok := expectedIDs[u.ID]; ok {
			expectedIDs[u.ID] = true
		}
		if u.Team != "player" && u.Team != "enemy" {
			t.Errorf("unit %q has unknown team %q", u.ID, u.Team)
		}
	}

	for id, found := range expectedIDs {
		if !found {
			t.Errorf("Expected unit %q not found", id)
		}
	}
}

func TestRosterRegistrySpawnRandom(t *testing.T) {
	registry, err := LoadRosterRegistry()
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	fighter := registry.GetByID("fighter")
	if fighter == nil {
		t.Fatal("fighter not found by ID")
	}
	if fighter.Name != "Fighter" {
		t.Errorf("Expected name 'Fighter', got %q", fighter.Name)
	}

	rng1 := rand.New(rand.NewSource(12345))
	rng2 := rand.New(rand.NewSource(12345))
	for i := 0; i < 20; i++ {
		a := registry.SpawnRandom(rng1)
		b := registry.SpawnRandom(rng2)
		if a.ID != b.ID {
			t.Fatalf("Spawn %d mismatch: %s != %s", i, a.ID, b.ID)
		}
		if a.SpawnWeight == 0 {
			t.Errorf("SpawnRandom returned zero-weight unit %q", a.ID)
		}
	}
}

func TestSpawnRandomWithoutWeights(t *testing.T) {
	registry := NewRosterRegistry([]UnitDef{{ID: "only", SpawnWeight: 0}})
	if got := registry.SpawnRandom(rand.New(rand.NewSource(1))); got != nil {
		t.Errorf("SpawnRandom() = %v, want nil", got.ID)
	}
}

func TestLoadSkillCatalog(t *testing.T) {
	catalog, err := LoadSkillCatalog()
	if err != nil {
		t.Fatalf("Failed to load skill catalog: %v", err)
	}
	if len(catalog.Categories) == 0 || len(catalog.Skills) == 0 {
		t.Fatalf("catalog has %d categories and %d skills", len(catalog.Categories), len(catalog.Skills))
	}

	for _, s := range catalog.Skills {
		if len(s.Stages) == 0 {
			t.Errorf("skill %d (%s) has no stages", s.ID, s.Name)
		}
	}
}

func TestLoadClipsAndBattles(t *testing.T) {
	clips, err := LoadClips()
	if err != nil {
		t.Fatalf("Failed to load clips: %v", err)
	}
	if len(clips) == 0 {
		t.Fatal("no clips loaded")
	}

	battles, err := LoadBattles()
	if err != nil {
		t.Fatalf("Failed to load battles: %v", err)
	}
	if FindBattle(battles, "ravine") == nil {
		t.Error("ravine battle not found")
	}
	if FindBattle(battles, "nowhere") != nil {
		t.Error("unknown battle should not be found")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var file RosterFile
	err := Decode([]byte("units:\n  - id: x\n    hp: 3\n"), &file)
	if err == nil {
		t.Error("Decode should reject unknown field hp")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF0000", true},
		{"00ff00", true},
		{"invalid", false},
		{"#FFF", false},
		{"#GG0000", false},
	}

	for _, tt := range tests {
		_, err := ParseHexColor(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ParseHexColor(%q) should be valid, got error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseHexColor(%q) should be invalid, got no error", tt.input)
		}
	}
}

func TestUnitDefGlyphAndColor(t *testing.T) {
	def := UnitDef{ID: "test", Glyph: "T", Color: "#FF0000"}
	if def.GlyphRune() != 'T' {
		t.Errorf("Expected glyph 'T', got %c", def.GlyphRune())
	}
	if def.TCellColor() == 0 {
		t.Error("TCellColor returned zero color")
	}

	empty := UnitDef{}
	if empty.GlyphRune() != '?' {
		t.Errorf("empty glyph = %c, want ?", empty.GlyphRune())
	}
}
