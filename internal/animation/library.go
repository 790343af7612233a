package animation

import (
	"github.com/samdwyer/gridtactics/internal/gamedata"
)

// NoHitFrame marks a clip without a hit frame.
const NoHitFrame = -1

// Clip is one playable animation.
type Clip struct {
	Kind         Kind
	Frames       int
	HitFrame     int
	FrameSeconds float64
	Loop         bool
}

// Library holds every known clip by kind.
type Library struct {
	clips map[Kind]Clip
}

// NewLibrary builds a library from clip definitions.
func NewLibrary(defs []gamedata.ClipDef) *Library {
	lib := &Library{clips: make(map[Kind]Clip, len(defs))}
	for _, d := range defs {
		lib.clips[Kind(d.Name)] = Clip{
			Kind:         Kind(d.Name),
			Frames:       d.Frames,
			HitFrame:     d.HitFrame,
			FrameSeconds: d.FrameSeconds,
			Loop:         d.Loop,
		}
	}
	return lib
}

// LoadLibrary builds a library from the embedded animations.yaml.
func LoadLibrary() (*Library, error) {
	defs, err := gamedata.LoadClips()
	if err != nil {
		return nil, err
	}
	return NewLibrary(defs), nil
}

// Clip returns the clip for kind.
func (l *Library) Clip(kind Kind) (Clip, bool) {
	c, ok := l.clips[kind]
	return c, ok
}
