package grid

import "math"

// Tile footprint in world units.
const (
	TileWidth  = 32.0
	TileHeight = 16.0
)

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p * s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// ToWorld converts a tile to diamond-isometric world space.
func ToWorld(p Position) Point {
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: (x + y) * (TileWidth / 2),
		Y: (x - y) * (TileHeight / 2),
	}
}

// FromWorld converts a world-space point back to the nearest tile.
func FromWorld(p Point) Position {
	sum := p.X / (TileWidth / 2)
	diff := p.Y / (TileHeight / 2)
	return Position{
		X: int(math.Round((sum + diff) / 2)),
		Y: int(math.Round((sum - diff) / 2)),
	}
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}
