// Package projectile flies sprites along quadratic Bézier arcs and reports
// when they land.
package projectile

import (
	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
)

// Projectile is one sprite in flight. T runs from 0 at launch to 1 on
// arrival.
type Projectile struct {
	Sprite   string
	Start    grid.Point
	Control  grid.Point
	End      grid.Point
	T        float64
	Duration float64
	Position grid.Point
	Tag      animation.CombatAnimationID
}

// Arrived reports that a projectile reached its target.
type Arrived struct {
	Projectile entity.ID
	Tag        animation.CombatAnimationID
}

// System owns every projectile in flight.
type System struct {
	alloc     *entity.Allocator
	store     *entity.Store[Projectile]
	arcHeight float64
	duration  float64
}

// NewSystem creates a projectile system. Every projectile rises arcHeight
// world units above the midpoint of its path and lands after seconds.
func NewSystem(alloc *entity.Allocator, arcHeight, seconds float64) *System {
	if seconds <= 0 {
		seconds = 1
	}
	return &System{
		alloc:     alloc,
		store:     entity.NewStore[Projectile](),
		arcHeight: arcHeight,
		duration:  seconds,
	}
}

// Spawn launches a projectile from start to end.
func (s *System) Spawn(sprite string, start, end grid.Point, tag animation.CombatAnimationID) entity.ID {
	control := start.Midpoint(end).Add(grid.Point{Y: s.arcHeight})
	id := s.alloc.Next()
	s.store.Insert(id, &Projectile{
		Sprite:   sprite,
		Start:    start,
		Control:  control,
		End:      end,
		Duration: s.duration,
		Position: start,
		Tag:      tag,
	})
	return id
}

// Update moves every projectile forward by dt seconds. Projectiles that
// land are removed and reported.
func (s *System) Update(dt float64) []Arrived {
	var arrived []Arrived
	s.store.Each(func(id entity.ID, p *Projectile) {
		p.T += dt / p.Duration
		t := min(max(p.T, 0), 1)
		p.Position = QuadraticBezier(p.Start, p.Control, p.End, t)
		if p.T >= 1 {
			arrived = append(arrived, Arrived{Projectile: id, Tag: p.Tag})
			s.store.Remove(id)
		}
	})
	return arrived
}

// InFlight returns the projectiles currently flying, in handle order.
func (s *System) InFlight() []*Projectile {
	var out []*Projectile
	s.store.Each(func(_ entity.ID, p *Projectile) {
		out = append(out, p)
	})
	return out
}

// Len returns the number of projectiles in flight.
func (s *System) Len() int {
	return s.store.Len()
}

// QuadraticBezier evaluates B(t) = (1-t)²·p0 + 2(1-t)t·p1 + t²·p2.
func QuadraticBezier(p0, p1, p2 grid.Point, t float64) grid.Point {
	u := 1 - t
	return p0.Scale(u * u).Add(p1.Scale(2 * u * t)).Add(p2.Scale(t * t))
}
