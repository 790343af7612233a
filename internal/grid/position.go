// Package grid provides the battlefield: tile terrain, unit occupancy,
// movement options, path search and attack ranges.
package grid

import "fmt"

// Position is a tile coordinate. (0,0) is the top-left tile.
type Position struct {
	X, Y int
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p moved by v.
func (p Position) Add(v Vec) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// Vec is a tile offset.
type Vec struct {
	X, Y int
}

// Scale multiplies the offset by n.
func (v Vec) Scale(n int) Vec {
	return Vec{X: v.X * n, Y: v.Y * n}
}

// Directions are the four orthogonal unit steps.
var Directions = []Vec{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Manhattan returns the taxicab distance between two tiles.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MovementOptions returns every offset reachable within n orthogonal steps
// on an empty grid, excluding the origin.
func MovementOptions(n int) []Vec {
	var options []Vec
	for dx := -n; dx <= n; dx++ {
		dyRange := n - abs(dx)
		for dy := -dyRange; dy <= dyRange; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			options = append(options, Vec{X: dx, Y: dy})
		}
	}
	return options
}
