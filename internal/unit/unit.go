// Package unit defines battlefield units: their stats, effects, turn
// budget and the commands they can be given.
package unit

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/phase"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// CriticalRatio is the health fraction at or below which a unit is critical.
const CriticalRatio = 0.3

// Unit is one combatant on the battlefield.
type Unit struct {
	ID       entity.ID
	DefID    string // roster id (e.g., "goblin")
	Name     string
	Glyph    rune
	Color    tcell.Color
	Team     Team
	Obstacle Obstacle
	Level    int
	Skills   []skills.SkillID

	Base      stats.Container
	Effects   effects.ActiveEffects
	Resources phase.Resources

	derived stats.Container
	dirty   bool
}

// New creates a unit with the given base stats. Its derived stats are
// computed on first use.
func New(id entity.ID, name string, team Team, base stats.Container) *Unit {
	return &Unit{
		ID:       id,
		Name:     name,
		Glyph:    '?',
		Color:    tcell.ColorWhite,
		Team:     team,
		Obstacle: FilterObstacle(team),
		Level:    1,
		Skills:   []skills.SkillID{skills.AttackSkillID},
		Base:     base,
		dirty:    true,
	}
}

// NewFromDef creates a unit from a roster definition, rolling stat growth
// once for every level above 1.
func NewFromDef(id entity.ID, def *gamedata.UnitDef, rng *rand.Rand) (*Unit, error) {
	team, err := ParseTeam(def.Team)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", def.ID, err)
	}

	values := make(map[stats.StatType]stats.Value, len(def.Stats))
	for name, v := range def.Stats {
		st, err := stats.ParseStatType(name)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", def.ID, err)
		}
		values[st] = stats.Value(v)
	}

	growth := make(stats.GrowthTable, len(def.Growth))
	for name, g := range def.Growth {
		st, err := stats.ParseStatType(name)
		if err != nil {
			return nil, fmt.Errorf("unit %s growth: %w", def.ID, err)
		}
		growth[st] = stats.Growth{
			Kind:   stats.GrowthClampedNormalRounded,
			Mean:   g.Mean,
			StdDev: g.StdDev,
			Min:    g.Min,
			Max:    g.Max,
		}
	}

	u := New(id, def.Name, team, stats.NewContainer(values))
	u.DefID = def.ID
	u.Glyph = def.GlyphRune()
	u.Color = def.TCellColor()

	var passers []Team
	for _, name := range def.PassableBy {
		t, err := ParseTeam(name)
		if err != nil {
			return nil, fmt.Errorf("unit %s passable_by: %w", def.ID, err)
		}
		passers = append(passers, t)
	}
	if len(passers) == 0 {
		u.Obstacle = Obstacle{Kind: ObstacleNeutral}
	} else {
		u.Obstacle = FilterObstacle(passers...)
	}

	if len(def.Skills) > 0 {
		u.Skills = u.Skills[:0]
		for _, s := range def.Skills {
			u.Skills = append(u.Skills, skills.SkillID(s))
		}
	}

	for lvl := 1; lvl < def.Level; lvl++ {
		growth.LevelUp(&u.Base, rng)
		u.Level++
	}
	return u, nil
}

// MarkDirty forces derived stats to be recomputed on next use.
func (u *Unit) MarkDirty() {
	u.dirty = true
}

// Stats returns the derived stats: base stats with every active stat buff
// applied, additions before multiplications. Health is clamped to
// [0, derived MaxHealth].
func (u *Unit) Stats() *stats.Container {
	if u.dirty {
		u.derive()
	}
	return &u.derived
}

func (u *Unit) derive() {
	d := u.Base
	buffs := u.Effects.StatBuffs()
	for _, m := range buffs {
		if m.Operator == effects.OpAdd {
			d.Set(m.Stat, d.Get(m.Stat)+m.Value)
		}
	}
	for _, m := range buffs {
		if m.Operator == effects.OpMul {
			d.Set(m.Stat, d.Get(m.Stat)*m.Value)
		}
	}
	d.Set(stats.Health, clamp(d.Get(stats.Health), 0, d.Get(stats.MaxHealth)))
	u.derived = d
	u.dirty = false
}

func clamp(v, lo, hi stats.Value) stats.Value {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Health
// =============================================================================

// Health returns current derived health.
func (u *Unit) Health() stats.Value { return u.Stats().Get(stats.Health) }

// MaxHealth returns derived maximum health.
func (u *Unit) MaxHealth() stats.Value { return u.Stats().Get(stats.MaxHealth) }

// Downed returns true once health reaches zero.
func (u *Unit) Downed() bool { return u.Health() <= 0 }

// Critical returns true if the unit is standing with at most
// CriticalRatio of its health.
func (u *Unit) Critical() bool {
	maxHP := u.MaxHealth()
	if u.Downed() || maxHP <= 0 {
		return false
	}
	return float64(u.Health())/float64(maxHP) <= CriticalRatio
}

// ApplyHealthChange adds delta to health, clamped to [0, MaxHealth], and
// returns the change actually applied. Base health is rewritten so that
// the derived value lands on the result with every buff still applied.
func (u *Unit) ApplyHealthChange(delta stats.Value) stats.Value {
	before := u.Health()
	after := clamp(before+delta, 0, u.MaxHealth())
	u.Base.Set(stats.Health, u.baseFor(stats.Health, after))
	u.MarkDirty()
	return after - before
}

// baseFor returns the base value of st whose derived value is v.
func (u *Unit) baseFor(st stats.StatType, v stats.Value) stats.Value {
	buffs := u.Effects.StatBuffs()
	for _, m := range buffs {
		if m.Stat != st || m.Operator != effects.OpMul {
			continue
		}
		if m.Value == 0 {
			return u.Base.Get(st)
		}
		v /= m.Value
	}
	for _, m := range buffs {
		if m.Stat == st && m.Operator == effects.OpAdd {
			v -= m.Value
		}
	}
	return v
}

// =============================================================================
// Effects
// =============================================================================

// ApplyEffect hands an effect to the unit's active effects and marks its
// stats dirty.
func (u *Unit) ApplyEffect(e effects.Effect, log *zap.Logger) {
	u.Effects.Apply(e, log)
	u.MarkDirty()
}

// TickEffects counts down the unit's timed effects and returns the ones
// that expired.
func (u *Unit) TickEffects() []effects.Effect {
	expired := u.Effects.TickTurn()
	if len(expired) > 0 {
		u.MarkDirty()
	}
	return expired
}

// =============================================================================
// phase.Member implementation
// =============================================================================

// TurnResources returns the unit's budget for the current phase.
func (u *Unit) TurnResources() *phase.Resources { return &u.Resources }

// Movement returns the derived movement stat.
func (u *Unit) Movement() int { return u.Stats().Get(stats.Movement).Int() }

// CanUse reports whether the unit knows a skill.
func (u *Unit) CanUse(id skills.SkillID) bool {
	return slices.Contains(u.Skills, id)
}
