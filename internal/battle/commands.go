package battle

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/combat"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/phase"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Issue validates a command and queues it for the next action pass.
// Resources are spent when the command is carried out, not here.
func (b *Battle) Issue(cmd unit.Command) error {
	if b.outcome != Ongoing {
		return ErrBattleOver
	}
	u, ok := b.units.Get(cmd.Unit)
	if !ok || u.Downed() {
		return ErrUnknownUnit
	}
	if b.phases.State() != phase.Running || u.Team.Phase() != b.phases.Current() {
		return ErrNotYourPhase
	}
	if b.acting(cmd.Unit) {
		return ErrUnitBusy
	}
	if u.Resources.Waited && cmd.Kind != unit.ActionWait {
		return ErrAlreadyWaited
	}

	switch cmd.Kind {
	case unit.ActionMove:
		if u.Effects.PreventMove() {
			return ErrStunned
		}
		if len(cmd.Path) == 0 {
			return ErrInvalidMove
		}
		path, ok := b.ValidMoves(cmd.Unit)[cmd.Path.Destination()]
		if !ok {
			return ErrInvalidMove
		}
		cmd.Path = path
	case unit.ActionAttack:
		if u.Effects.PreventAction() {
			return ErrStunned
		}
		if _, err := b.checkAttack(u, cmd); err != nil {
			return err
		}
	case unit.ActionWait:
	default:
		return fmt.Errorf("unknown command kind %d", cmd.Kind)
	}

	b.commands.Push(cmd)
	return nil
}

func (b *Battle) checkAttack(u *unit.Unit, cmd unit.Command) (*unit.Unit, error) {
	if !u.CanUse(cmd.Skill) {
		return nil, ErrUnknownSkill
	}
	skill, ok := b.db.Lookup(cmd.Skill)
	if !ok {
		return nil, ErrUnknownSkill
	}
	if !u.Resources.CanAct() || u.Resources.ActionLeft < skill.APCost {
		return nil, ErrInsufficientActionPoints
	}
	pos, ok := b.grid.PositionOf(u.ID)
	if !ok || !skill.Targeting.InRange(pos, cmd.Target) {
		return nil, ErrOutOfRange
	}
	target, ok := b.UnitAt(cmd.Target)
	if !ok {
		return nil, ErrNoTarget
	}
	return target, nil
}

// acting reports whether a unit is walking, attacking or has a command
// waiting to be carried out.
func (b *Battle) acting(id entity.ID) bool {
	if _, ok := b.walks[id]; ok {
		return true
	}
	if b.engine.Attacking(id) {
		return true
	}
	for _, c := range b.commands.Peek() {
		if c.Unit == id {
			return true
		}
	}
	return false
}

// carryOut starts a queued command. The world may have changed since the
// command was issued, so attack targets are checked again.
func (b *Battle) carryOut(cmd unit.Command) {
	u, ok := b.units.Get(cmd.Unit)
	if !ok || u.Downed() {
		return
	}
	log := b.log.With(zap.Stringer("unit", u.ID), zap.String("name", u.Name))

	switch cmd.Kind {
	case unit.ActionWait:
		u.Resources.Wait()
		log.Debug("unit waits")
		b.completed.Push(unit.ActionCompleted{Unit: u.ID, Action: unit.ActionWait})

	case unit.ActionMove:
		if !u.Resources.SpendMovement(cmd.Path.Steps()) {
			log.Warn("move exceeds remaining movement", zap.Int("steps", cmd.Path.Steps()))
			return
		}
		b.walks[u.ID] = &walk{path: cmd.Path, next: 1}
		b.play(u.ID, animation.KindWalking)
		log.Debug("unit moves", zap.Stringer("to", cmd.Path.Destination()))

	case unit.ActionAttack:
		target, err := b.checkAttack(u, cmd)
		if err != nil {
			log.Warn("attack no longer valid", zap.Error(err))
			return
		}
		skill := b.db.Skill(cmd.Skill)
		if !u.Resources.SpendAction(skill.APCost) {
			log.Warn("attack exceeds remaining action points")
			return
		}
		_, err = b.engine.Start(combat.Intent{
			Attacker:    u.ID,
			Defender:    target.ID,
			DefenderPos: cmd.Target,
			Skill:       cmd.Skill,
		})
		if err != nil {
			u.Resources.ActionLeft += skill.APCost
			log.Error("attack could not start", zap.Error(err))
			return
		}
		b.say("%s uses %s on %s", u.Name, skill.Name, target.Name)
	}
}

// stepWalks moves walking units one tile per step interval. A unit that
// reaches the end of its path completes its move.
func (b *Battle) stepWalks(dt float64) {
	for _, id := range sortedIDs(b.walks) {
		w := b.walks[id]
		w.elapsed += dt
		for w.elapsed >= b.stepSecs && w.next < len(w.path) {
			w.elapsed -= b.stepSecs
			if err := b.grid.MoveTo(id, w.path[w.next]); err != nil {
				b.log.Error("walk interrupted", zap.Stringer("unit", id), zap.Error(err))
				w.next = len(w.path)
				break
			}
			w.next++
		}
		if w.next >= len(w.path) {
			delete(b.walks, id)
			b.play(id, animation.KindIdle)
			b.completed.Push(unit.ActionCompleted{Unit: id, Action: unit.ActionMove})
		}
	}
}

func (b *Battle) play(id entity.ID, kind animation.Kind) {
	if err := b.animator.Play(id, animation.PlayCommand{Kind: kind}); err != nil {
		b.log.Debug("animation not played", zap.Stringer("unit", id), zap.Error(err))
	}
}

func sortedIDs[V any](m map[entity.ID]V) []entity.ID {
	ids := make([]entity.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// PathTo returns the path a unit would walk to reach dest.
func (b *Battle) PathTo(id entity.ID, dest grid.Position) (grid.Path, bool) {
	p, ok := b.ValidMoves(id)[dest]
	return p, ok
}
