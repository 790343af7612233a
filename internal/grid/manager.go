package grid

import (
	"fmt"

	"github.com/samdwyer/gridtactics/internal/entity"
)

// Manager tracks terrain and which entities stand on which tile. Both the
// tile and the entity index are kept current on every change.
type Manager struct {
	width, height int
	tiles         [][]Tile
	entities      map[Position][]entity.ID
	positions     map[entity.ID]Position
}

// NewManager creates an all-floor grid.
func NewManager(width, height int) *Manager {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileFloor
		}
	}
	return &Manager{
		width:     width,
		height:    height,
		tiles:     tiles,
		entities:  make(map[Position][]entity.ID),
		positions: make(map[entity.ID]Position),
	}
}

// Size returns the grid dimensions.
func (m *Manager) Size() (width, height int) {
	return m.width, m.height
}

// InBounds reports whether p lies on the grid.
func (m *Manager) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// SetTile changes the terrain at p. Out-of-bounds positions are ignored.
func (m *Manager) SetTile(p Position, t Tile) {
	if m.InBounds(p) {
		m.tiles[p.Y][p.X] = t
	}
}

// Tile returns the terrain at p; outside the grid is wall.
func (m *Manager) Tile(p Position) Tile {
	if !m.InBounds(p) {
		return TileWall
	}
	return m.tiles[p.Y][p.X]
}

// IsPassable reports whether terrain at p can be walked on.
func (m *Manager) IsPassable(p Position) bool {
	return m.Tile(p).IsPassable()
}

// Add places an entity at p.
func (m *Manager) Add(id entity.ID, p Position) {
	m.positions[id] = p
	m.entities[p] = append(m.entities[p], id)
}

// MoveTo relocates a tracked entity. Moving an untracked entity adds it.
func (m *Manager) MoveTo(id entity.ID, p Position) error {
	if old, ok := m.positions[id]; ok {
		if !m.removeFrom(old, id) {
			return fmt.Errorf("entity %v tracked at %v but missing from that tile", id, old)
		}
	}
	m.Add(id, p)
	return nil
}

// Remove stops tracking an entity.
func (m *Manager) Remove(id entity.ID) {
	if p, ok := m.positions[id]; ok {
		m.removeFrom(p, id)
		delete(m.positions, id)
	}
}

func (m *Manager) removeFrom(p Position, id entity.ID) bool {
	list := m.entities[p]
	for i, e := range list {
		if e == id {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(m.entities, p)
			} else {
				m.entities[p] = list
			}
			return true
		}
	}
	return false
}

// At returns the entities standing on p.
func (m *Manager) At(p Position) []entity.ID {
	return m.entities[p]
}

// PositionOf returns where an entity stands.
func (m *Manager) PositionOf(id entity.ID) (Position, bool) {
	p, ok := m.positions[id]
	return p, ok
}

// Step moves origin by delta, clamping to the grid. The bool is false when
// the move hit the boundary.
func (m *Manager) Step(origin Position, delta Vec) (Position, bool) {
	next := origin.Add(delta)
	inBounds := true
	if next.X < 0 {
		next.X, inBounds = 0, false
	}
	if next.Y < 0 {
		next.Y, inBounds = 0, false
	}
	if next.X > m.width-1 {
		next.X, inBounds = m.width-1, false
	}
	if next.Y > m.height-1 {
		next.Y, inBounds = m.height-1, false
	}
	return next, inBounds
}
