package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// UnitDef defines a unit archetype loaded from roster.yaml.
type UnitDef struct {
	ID          string               `yaml:"id"`           // Unique identifier (e.g., "goblin")
	Name        string               `yaml:"name"`         // Display name
	Glyph       string               `yaml:"glyph"`        // Single character for rendering
	Color       string               `yaml:"color"`        // Hex color code (e.g., "#00FF00")
	Team        string               `yaml:"team"`         // "player" or "enemy"
	Level       int                  `yaml:"level"`        // Spawn level; growth is rolled for each level above 1
	SpawnWeight int                  `yaml:"spawn_weight"` // Relative frequency for random enemy placement
	Stats       map[string]float32   `yaml:"stats"`        // Base stats keyed by stat name
	Growth      map[string]GrowthDef `yaml:"growth"`       // Per-level growth keyed by stat name
	Skills      []uint32             `yaml:"skills"`       // Skill ids this unit can use
	PassableBy  []string             `yaml:"passable_by"`  // Teams that may move through this unit
}

// GrowthDef is a clamped normal growth roll.
type GrowthDef struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (u *UnitDef) GlyphRune() rune {
	if len(u.Glyph) == 0 {
		return '?'
	}
	return rune(u.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (u *UnitDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(u.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// RosterFile represents the structure of roster.yaml.
type RosterFile struct {
	Units []UnitDef `yaml:"units"`
}

// LoadRoster loads unit definitions from the embedded roster.yaml file.
func LoadRoster() ([]UnitDef, error) {
	file, err := Load[RosterFile]("roster.yaml")
	if err != nil {
		return nil, err
	}
	return file.Units, nil
}

// ParseHexColor converts "#RRGGBB" or "RRGGBB" to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}
