package world

import "github.com/samdwyer/gridtactics/internal/grid"

// Region is a rectangular open area of the field left by the partition.
type Region struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the region
}

// Contains returns true if the given tile is inside the region.
func (r Region) Contains(p grid.Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}
