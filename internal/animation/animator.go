package animation

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
)

var (
	// ErrNoPlayer is returned when an entity has no animation player.
	ErrNoPlayer = errors.New("entity has no animation player")
	// ErrUnknownClip is returned when a clip kind is not in the library.
	ErrUnknownClip = errors.New("unknown animation clip")
)

// PlayCommand starts a clip. FrameSeconds of 0 uses the clip's own timing.
type PlayCommand struct {
	Kind         Kind
	FrameSeconds float64
	Tag          *CombatAnimationID
}

// Player is the playback state of one clip.
type Player struct {
	clip         Clip
	frameSeconds float64
	frame        int
	elapsed      float64
	started      bool
	done         bool
	tag          *CombatAnimationID
}

// Kind returns the clip being played.
func (p *Player) Kind() Kind { return p.clip.Kind }

// Frame returns the current frame index.
func (p *Player) Frame() int { return p.frame }

// advance moves playback forward by dt and returns the markers reached.
func (p *Player) advance(dt float64) []Marker {
	if p.done {
		return nil
	}
	var markers []Marker
	if !p.started {
		p.started = true
		if p.clip.HitFrame == 0 {
			markers = append(markers, MarkerHitFrame)
		}
	}
	if p.frameSeconds <= 0 {
		p.done = !p.clip.Loop
		if p.done {
			markers = append(markers, MarkerComplete)
		}
		return markers
	}

	p.elapsed += dt
	for p.elapsed >= p.frameSeconds {
		p.elapsed -= p.frameSeconds
		p.frame++
		if p.frame >= p.clip.Frames {
			if p.clip.Loop {
				p.frame = 0
				continue
			}
			p.frame = p.clip.Frames - 1
			p.done = true
			markers = append(markers, MarkerComplete)
			break
		}
		if p.frame == p.clip.HitFrame {
			markers = append(markers, MarkerHitFrame)
		}
	}
	return markers
}

// Visual is a transient sprite played on a tile, such as a spell effect.
// It despawns when its clip completes.
type Visual struct {
	Sprite   string
	Position grid.Position
	Player   Player
}

// Animator owns the animation players of units and cast visuals.
type Animator struct {
	lib     *Library
	alloc   *entity.Allocator
	players map[entity.ID]*Player
	visuals *entity.Store[Visual]
	log     *zap.Logger
}

// NewAnimator creates an animator. Visual handles come from alloc so they
// never collide with other entities.
func NewAnimator(lib *Library, alloc *entity.Allocator, log *zap.Logger) *Animator {
	return &Animator{
		lib:     lib,
		alloc:   alloc,
		players: make(map[entity.ID]*Player),
		visuals: entity.NewStore[Visual](),
		log:     log,
	}
}

// RegisterPlayer gives an entity an animation player, idling.
func (a *Animator) RegisterPlayer(id entity.ID) {
	p := &Player{}
	if clip, ok := a.lib.Clip(KindIdle); ok {
		p.clip = clip
		p.frameSeconds = clip.FrameSeconds
	}
	a.players[id] = p
}

// HasPlayer reports whether an entity can play animations.
func (a *Animator) HasPlayer(id entity.ID) bool {
	_, ok := a.players[id]
	return ok
}

// RemovePlayer drops an entity's animation player.
func (a *Animator) RemovePlayer(id entity.ID) {
	delete(a.players, id)
}

// PlayerOf returns the player of an entity.
func (a *Animator) PlayerOf(id entity.ID) (*Player, bool) {
	p, ok := a.players[id]
	return p, ok
}

func (a *Animator) newPlayer(cmd PlayCommand) (Player, error) {
	clip, ok := a.lib.Clip(cmd.Kind)
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrUnknownClip, cmd.Kind)
	}
	fs := cmd.FrameSeconds
	if fs == 0 {
		fs = clip.FrameSeconds
	}
	return Player{clip: clip, frameSeconds: fs, tag: cmd.Tag}, nil
}

// Play starts a clip on an entity, replacing whatever it was playing.
func (a *Animator) Play(id entity.ID, cmd PlayCommand) error {
	if _, ok := a.players[id]; !ok {
		return fmt.Errorf("%w: %v", ErrNoPlayer, id)
	}
	p, err := a.newPlayer(cmd)
	if err != nil {
		return err
	}
	*a.players[id] = p
	return nil
}

// SpawnVisual plays a one-shot clip on a tile and returns the visual's handle.
func (a *Animator) SpawnVisual(sprite string, kind Kind, pos grid.Position, tag *CombatAnimationID) (entity.ID, error) {
	p, err := a.newPlayer(PlayCommand{Kind: kind, Tag: tag})
	if err != nil {
		return entity.None, err
	}
	id := a.alloc.Next()
	a.visuals.Insert(id, &Visual{Sprite: sprite, Position: pos, Player: p})
	return id, nil
}

// Visuals returns the live visuals in handle order.
func (a *Animator) Visuals() []*Visual {
	var out []*Visual
	a.visuals.Each(func(_ entity.ID, v *Visual) {
		out = append(out, v)
	})
	return out
}

// Busy reports whether any tagged clip is still playing.
func (a *Animator) Busy() bool {
	for _, p := range a.players {
		if p.tag != nil && !p.done {
			return true
		}
	}
	return a.visuals.Len() > 0
}

// Update advances every player by dt seconds and returns the markers
// reached, units first then visuals, each in handle order. A unit whose
// clip completes goes back to idling; a completed visual despawns.
func (a *Animator) Update(dt float64) []MarkerMessage {
	var out []MarkerMessage

	ids := make([]entity.ID, 0, len(a.players))
	for id := range a.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		p := a.players[id]
		for _, m := range p.advance(dt) {
			out = append(out, MarkerMessage{Entity: id, Combat: p.tag, Marker: m})
		}
		if p.done {
			if err := a.Play(id, PlayCommand{Kind: KindIdle}); err != nil {
				a.log.Debug("no idle clip", zap.Stringer("entity", id))
			}
		}
	}

	a.visuals.Each(func(id entity.ID, v *Visual) {
		for _, m := range v.Player.advance(dt) {
			out = append(out, MarkerMessage{Entity: id, Combat: v.Player.tag, Marker: m})
		}
		if v.Player.done {
			a.visuals.Remove(id)
		}
	})
	return out
}
