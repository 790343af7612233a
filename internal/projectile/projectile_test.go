package projectile

import (
	"math"
	"testing"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
)

func TestQuadraticBezierEndpoints(t *testing.T) {
	p0 := grid.Point{X: 0, Y: 0}
	p1 := grid.Point{X: 5, Y: 10}
	p2 := grid.Point{X: 10, Y: 0}

	if got := QuadraticBezier(p0, p1, p2, 0); got != p0 {
		t.Errorf("B(0) = %v, want %v", got, p0)
	}
	if got := QuadraticBezier(p0, p1, p2, 1); got != p2 {
		t.Errorf("B(1) = %v, want %v", got, p2)
	}
	mid := QuadraticBezier(p0, p1, p2, 0.5)
	if math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y-5) > 1e-9 {
		t.Errorf("B(0.5) = %v, want (5,5)", mid)
	}
}

func TestProjectileArrivesAfterDuration(t *testing.T) {
	s := NewSystem(entity.NewAllocator(), 150, 1.0)
	tag := animation.CombatAnimationID{Execution: 7, Local: 1}
	id := s.Spawn("arrow", grid.Point{}, grid.Point{X: 100}, tag)

	if got := s.Update(0.5); len(got) != 0 {
		t.Fatalf("arrived early: %v", got)
	}
	p := s.InFlight()[0]
	if p.Position.Y <= 0 {
		t.Errorf("mid-flight Y = %v, want above the path", p.Position.Y)
	}

	got := s.Update(0.6)
	if len(got) != 1 {
		t.Fatalf("arrivals = %v, want 1", got)
	}
	if got[0].Projectile != id || got[0].Tag != tag {
		t.Errorf("arrival = %+v", got[0])
	}
	if s.Len() != 0 {
		t.Error("projectile should be removed on arrival")
	}
}
