package stats

import (
	"math"
	"math/rand"
)

// GrowthKind selects how a stat grows on level up.
type GrowthKind int

const (
	// GrowthNone never changes the stat.
	GrowthNone GrowthKind = iota
	// GrowthClampedNormalRounded samples a normal distribution, rounds it
	// and clamps it to [Min, Max].
	GrowthClampedNormalRounded
)

// Growth describes the per-level growth of one stat.
type Growth struct {
	Kind   GrowthKind `yaml:"-"`
	Mean   float64    `yaml:"mean"`
	StdDev float64    `yaml:"stddev"`
	Min    float64    `yaml:"min"`
	Max    float64    `yaml:"max"`
}

// Roll returns the increase for one level.
func (g Growth) Roll(rng *rand.Rand) Value {
	switch g.Kind {
	case GrowthClampedNormalRounded:
		v := math.Round(rng.NormFloat64()*g.StdDev + g.Mean)
		v = math.Max(g.Min, math.Min(g.Max, v))
		return Value(v)
	default:
		return 0
	}
}

// GrowthTable maps stats to their growth rules.
type GrowthTable map[StatType]Growth

// LevelUp applies one level of growth to c. Growing MaxHealth also grows
// Health by the same amount so a freshly grown unit stays at full health.
func (t GrowthTable) LevelUp(c *Container, rng *rand.Rand) {
	for _, st := range All {
		g, ok := t[st]
		if !ok {
			continue
		}
		gain := g.Roll(rng)
		c.Set(st, c.Get(st)+gain)
		if st == MaxHealth {
			c.Set(Health, c.Get(Health)+gain)
		}
	}
}
