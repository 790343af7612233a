package combat

import (
	"testing"

	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	stats   stats.Container
	effects effects.ActiveEffects
}

func newMockCombatant(hp, strength, magic, defense, resistance stats.Value) *mockCombatant {
	return &mockCombatant{stats: stats.NewContainer(map[stats.StatType]stats.Value{
		stats.Health:     hp,
		stats.MaxHealth:  hp,
		stats.Strength:   strength,
		stats.Magic:      magic,
		stats.Defense:    defense,
		stats.Resistance: resistance,
	})}
}

func (m *mockCombatant) Stats() *stats.Container { return &m.stats }

func (m *mockCombatant) ApplyHealthChange(delta stats.Value) stats.Value {
	before := m.stats.Get(stats.Health)
	after := min(max(before+delta, 0), m.stats.Get(stats.MaxHealth))
	m.stats.Set(stats.Health, after)
	return after - before
}

func (m *mockCombatant) ApplyEffect(e effects.Effect, log *zap.Logger) {
	m.effects.Apply(e, log)
}

func (m *mockCombatant) health() stats.Value { return m.stats.Get(stats.Health) }

func physical(power stats.Value) skills.Action {
	return skills.Action{
		Kind:   skills.ActionDamaging,
		Amount: skills.Amount{Power: power, Offense: skills.ModPhysicalAttack, Defense: skills.ModPhysicalResistance},
	}
}

func TestCalculateImpact(t *testing.T) {
	tests := []struct {
		name     string
		attacker *mockCombatant
		defender *mockCombatant
		actions  []skills.Action
		wantNet  stats.Value
	}{
		{
			name:     "physical attack",
			attacker: newMockCombatant(20, 5, 0, 0, 0),
			defender: newMockCombatant(20, 0, 0, 2, 0),
			actions:  []skills.Action{physical(3)},
			wantNet:  -6,
		},
		{
			name:     "environment damage ignores missing selectors",
			attacker: nil,
			defender: newMockCombatant(20, 0, 0, 0, 0),
			actions:  []skills.Action{{Kind: skills.ActionDamaging, Amount: skills.Amount{Power: 2}}},
			wantNet:  -2,
		},
		{
			name:     "no attacker means no offense",
			attacker: nil,
			defender: newMockCombatant(20, 0, 0, 1, 0),
			actions:  []skills.Action{physical(3)},
			wantNet:  -2,
		},
		{
			name:     "magic uses magic and resistance",
			attacker: newMockCombatant(20, 9, 4, 0, 0),
			defender: newMockCombatant(20, 0, 0, 9, 1),
			actions: []skills.Action{{Kind: skills.ActionDamaging, Amount: skills.Amount{
				Power: 4, Offense: skills.ModMagicAttack, Defense: skills.ModMagicResistance,
			}}},
			wantNet: -7,
		},
		{
			name:     "heal",
			attacker: newMockCombatant(20, 0, 4, 0, 0),
			defender: newMockCombatant(20, 0, 0, 0, 0),
			actions: []skills.Action{{Kind: skills.ActionHealing, Amount: skills.Amount{
				Power: 3, Offense: skills.ModMagicAttack,
			}}},
			wantNet: 7,
		},
		{
			name:     "heavy armor never heals",
			attacker: newMockCombatant(20, 1, 0, 0, 0),
			defender: newMockCombatant(20, 0, 0, 10, 0),
			actions:  []skills.Action{physical(1)},
			wantNet:  0,
		},
		{
			name:     "blocked action does not offset another",
			attacker: newMockCombatant(20, 1, 0, 0, 0),
			defender: newMockCombatant(20, 0, 0, 10, 0),
			actions: []skills.Action{physical(1), {Kind: skills.ActionDamaging, Amount: skills.Amount{
				Power: 3, Offense: skills.ModMagicAttack, Defense: skills.ModMagicResistance,
			}}},
			wantNet: -3,
		},
		{
			name:     "damage and heal sum independently",
			attacker: newMockCombatant(20, 2, 0, 0, 0),
			defender: newMockCombatant(20, 0, 0, 0, 0),
			actions: []skills.Action{
				physical(3),
				{Kind: skills.ActionHealing, Amount: skills.Amount{Power: 1}},
			},
			wantNet: -4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attacker Combatant
			if tt.attacker != nil {
				attacker = tt.attacker
			}
			got := CalculateImpact(attacker, tt.defender, tt.actions)
			if got.Net != tt.wantNet {
				t.Errorf("Net = %v, want %v", got.Net, tt.wantNet)
			}
		})
	}
}

func TestApplyImpactClampsHealth(t *testing.T) {
	attacker := newMockCombatant(20, 50, 0, 0, 0)
	defender := newMockCombatant(10, 0, 0, 0, 0)

	r := ApplyImpact(attacker, defender, 1, 2, []skills.Action{physical(3)}, zap.NewNop())
	if defender.health() != 0 {
		t.Errorf("health = %v, want 0", defender.health())
	}
	if r.Applied != -10 {
		t.Errorf("Applied = %v, want -10", r.Applied)
	}

	defender.stats.Set(stats.Health, 8)
	heal := []skills.Action{{Kind: skills.ActionHealing, Amount: skills.Amount{Power: 10}}}
	r = ApplyImpact(nil, defender, entity.None, 2, heal, zap.NewNop())
	if defender.health() != 10 {
		t.Errorf("health = %v, want 10 (capped)", defender.health())
	}
	if r.Applied != 2 {
		t.Errorf("Applied = %v, want 2", r.Applied)
	}
}

func TestApplyImpactAppliesEffectsAlongsideDamage(t *testing.T) {
	attacker := newMockCombatant(20, 1, 0, 0, 0)
	defender := newMockCombatant(20, 0, 0, 0, 0)

	actions := []skills.Action{
		physical(1),
		{Kind: skills.ActionApplyEffects, Effects: []effects.Data{
			{Type: effects.Status(effects.StatusPoisoned), Duration: effects.TurnCount(3)},
		}},
	}
	r := ApplyImpact(attacker, defender, 1, 2, actions, zap.NewNop())

	if r.Effects != 1 {
		t.Errorf("Effects = %d, want 1", r.Effects)
	}
	if defender.health() != 18 {
		t.Errorf("health = %v, want 18", defender.health())
	}
	if !defender.effects.HasStatus(effects.StatusPoisoned) {
		t.Fatal("defender should be poisoned")
	}
	got := defender.effects.All()[0].Metadata
	if got.Source != 1 || got.Target != 2 {
		t.Errorf("metadata = %+v", got)
	}
}
