// Package animation plays frame-based clips on units and on transient
// visuals, and reports the markers they reach. Markers that belong to an
// attack carry a CombatAnimationID so the combat timeline can route them.
package animation

import (
	"fmt"

	"github.com/samdwyer/gridtactics/internal/entity"
)

// Kind names an animation clip.
type Kind string

const (
	KindIdle     Kind = "idle"
	KindWalking  Kind = "walking"
	KindAttack   Kind = "attack"
	KindRelease  Kind = "release"
	KindCharging Kind = "charging"
	KindDamage   Kind = "damage"
	KindWeak     Kind = "weak"
	KindDead     Kind = "dead"
)

// Marker is a point of interest in a clip.
type Marker int

const (
	// MarkerHitFrame fires when the clip enters its hit frame.
	MarkerHitFrame Marker = iota
	// MarkerComplete fires when a non-looping clip finishes.
	MarkerComplete
)

func (m Marker) String() string {
	switch m {
	case MarkerHitFrame:
		return "hit_frame"
	case MarkerComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ParseMarker converts a data-file marker name.
func ParseMarker(name string) (Marker, error) {
	switch name {
	case "hit_frame":
		return MarkerHitFrame, nil
	case "complete":
		return MarkerComplete, nil
	default:
		return 0, fmt.Errorf("unknown animation marker %q", name)
	}
}

// CombatAnimationID identifies one animation of one in-flight attack: the
// attack execution plus the skill-local animation number.
type CombatAnimationID struct {
	Execution entity.ID
	Local     int
}

func (id CombatAnimationID) String() string {
	return fmt.Sprintf("%v/%d", id.Execution, id.Local)
}

// MarkerMessage reports that an animation reached a marker. Combat is nil
// for animations that were not started by an attack.
type MarkerMessage struct {
	Entity entity.ID
	Combat *CombatAnimationID
	Marker Marker
}
