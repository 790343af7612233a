// Package stats holds the numeric unit stat model: stat types, values and
// the container every unit carries for its base and derived stats.
package stats

import (
	"fmt"
	"math"
)

// StatType identifies one unit stat.
type StatType int

const (
	Health StatType = iota
	MaxHealth
	Movement
	Strength
	Magic
	Defense
	Resistance
	Speed
	Skill

	numStatTypes
)

// All lists every stat type in declaration order.
var All = []StatType{Health, MaxHealth, Movement, Strength, Magic, Defense, Resistance, Speed, Skill}

var statNames = map[StatType]string{
	Health:     "health",
	MaxHealth:  "max_health",
	Movement:   "movement",
	Strength:   "strength",
	Magic:      "magic",
	Defense:    "defense",
	Resistance: "resistance",
	Speed:      "speed",
	Skill:      "skill",
}

// String returns the snake_case stat name used in data files.
func (s StatType) String() string {
	if name, ok := statNames[s]; ok {
		return name
	}
	return "unknown"
}

// Abbreviation returns the short label shown in the status panel.
func (s StatType) Abbreviation() string {
	switch s {
	case Strength:
		return "STR"
	case Magic:
		return "MAG"
	case Defense:
		return "DEF"
	case Resistance:
		return "RES"
	case Speed:
		return "SPD"
	case Skill:
		return "SKL"
	case MaxHealth:
		return "MAX HP"
	case Movement:
		return "MOVE"
	case Health:
		return "HP"
	default:
		return "?"
	}
}

// ParseStatType converts a data-file stat name to a StatType.
func ParseStatType(name string) (StatType, error) {
	for st, n := range statNames {
		if n == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// UnmarshalText lets stat names be used directly as YAML keys and values.
func (s *StatType) UnmarshalText(text []byte) error {
	st, err := ParseStatType(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Value is a stat value. Stats are fractional so multiplicative buffs
// compose; whole numbers are recovered with Int.
type Value float32

// Int rounds the value to the nearest integer.
func (v Value) Int() int {
	return int(math.Round(float64(v)))
}

// Container holds a value for every stat type. The zero Container has every
// stat at 0.
type Container struct {
	values [numStatTypes]Value
}

// NewContainer builds a container from a partial map; missing stats are 0.
func NewContainer(values map[StatType]Value) Container {
	var c Container
	for st, v := range values {
		c.Set(st, v)
	}
	return c
}

// Get returns the value of a stat.
func (c *Container) Get(st StatType) Value {
	if st < 0 || st >= numStatTypes {
		return 0
	}
	return c.values[st]
}

// Set updates a stat and returns the container for chaining.
func (c *Container) Set(st StatType, v Value) *Container {
	if st >= 0 && st < numStatTypes {
		c.values[st] = v
	}
	return c
}
