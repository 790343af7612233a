// Package game provides the interactive game loop and input handling.
package game

// Mode is what the next confirm does.
type Mode int

const (
	// ModeBrowse moves the cursor freely; confirm selects a unit.
	ModeBrowse Mode = iota
	// ModeMove picks a destination for the selected unit.
	ModeMove
	// ModeTarget picks a target tile for the chosen skill.
	ModeTarget
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeMove:
		return "move"
	case ModeTarget:
		return "target"
	default:
		return "unknown"
	}
}
