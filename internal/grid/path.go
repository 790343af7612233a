package grid

// Access says what a mover may do on a tile.
type Access int

const (
	// AccessOpen tiles can be passed through and stopped on.
	AccessOpen Access = iota
	// AccessPassOnly tiles can be passed through but not stopped on.
	AccessPassOnly
	// AccessBlocked tiles cannot be entered.
	AccessBlocked
)

// AccessFunc reports the access a specific mover has to a tile. Terrain is
// checked by the grid before the function is consulted.
type AccessFunc func(Position) Access

// Path is the sequence of tiles walked, origin first.
type Path []Position

// Destination returns the last tile of the path.
func (p Path) Destination() Position {
	return p[len(p)-1]
}

// Steps returns how many tiles the path moves.
func (p Path) Steps() int {
	return len(p) - 1
}

// ValidMoves returns a shortest path to every tile the mover can stop on
// within points steps. Each step costs one point.
func (m *Manager) ValidMoves(origin Position, points int, access AccessFunc) map[Position]Path {
	moves := make(map[Position]Path)
	if points <= 0 {
		return moves
	}

	type node struct {
		pos  Position
		path Path
	}
	visited := map[Position]bool{origin: true}
	frontier := []node{{pos: origin, path: Path{origin}}}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		if current.path.Steps() == points {
			continue
		}
		for _, d := range Directions {
			next := current.pos.Add(d)
			if visited[next] || !m.InBounds(next) || !m.IsPassable(next) {
				continue
			}
			a := access(next)
			if a == AccessBlocked {
				continue
			}
			visited[next] = true

			path := make(Path, len(current.path), len(current.path)+1)
			copy(path, current.path)
			path = append(path, next)

			if a == AccessOpen {
				moves[next] = path
			}
			frontier = append(frontier, node{pos: next, path: path})
		}
	}
	return moves
}

// AttackOptions returns every in-bounds tile within 1..rangeN of origin.
func (m *Manager) AttackOptions(origin Position, rangeN int) []Position {
	var out []Position
	for _, v := range MovementOptions(rangeN) {
		p := origin.Add(v)
		if m.InBounds(p) {
			out = append(out, p)
		}
	}
	return out
}
