package gamedata

import (
	"errors"
	"math/rand"
)

// RosterRegistry holds loaded unit definitions and provides spawning utilities.
type RosterRegistry struct {
	units       []UnitDef
	totalWeight int
}

// NewRosterRegistry creates a registry from loaded unit definitions.
func NewRosterRegistry(units []UnitDef) *RosterRegistry {
	totalWeight := 0
	for _, u := range units {
		totalWeight += u.SpawnWeight
	}
	return &RosterRegistry{
		units:       units,
		totalWeight: totalWeight,
	}
}

// LoadRosterRegistry loads and creates a registry from the embedded roster.yaml.
func LoadRosterRegistry() (*RosterRegistry, error) {
	units, err := LoadRoster()
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, errors.New("no units loaded from roster.yaml")
	}
	return NewRosterRegistry(units), nil
}

// MustLoadRosterRegistry loads a registry, panicking on error.
func MustLoadRosterRegistry() *RosterRegistry {
	registry, err := LoadRosterRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random unit definition using weighted probability.
// Units with a zero spawn weight are never selected.
func (r *RosterRegistry) SpawnRandom(rng *rand.Rand) *UnitDef {
	if r.totalWeight <= 0 || len(r.units) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.units {
		cumulative += r.units[i].SpawnWeight
		if roll < cumulative {
			return &r.units[i]
		}
	}

	// Unreachable while totalWeight matches the unit weights.
	return nil
}

// GetByID returns the unit definition with the given ID, or nil if not found.
func (r *RosterRegistry) GetByID(id string) *UnitDef {
	for i := range r.units {
		if r.units[i].ID == id {
			return &r.units[i]
		}
	}
	return nil
}

// All returns all unit definitions.
func (r *RosterRegistry) All() []UnitDef {
	return r.units
}

// Count returns the number of unit definitions in the registry.
func (r *RosterRegistry) Count() int {
	return len(r.units)
}

// FindBattle returns the battle layout with the given ID, or nil if not found.
func FindBattle(battles []BattleDef, id string) *BattleDef {
	for i := range battles {
		if battles[i].ID == id {
			return &battles[i]
		}
	}
	return nil
}
