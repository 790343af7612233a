package grid

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall is impassable terrain.
	TileWall Tile = '#'
	// TileFloor can be walked on and stood on.
	TileFloor Tile = '.'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
