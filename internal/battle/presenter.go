package battle

import (
	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/combat"
	"github.com/samdwyer/gridtactics/internal/enemy"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
)

// Combatant implements combat.Roster.
func (b *Battle) Combatant(id entity.ID) (combat.Combatant, bool) {
	u, ok := b.units.Get(id)
	if !ok {
		return nil, false
	}
	return u, true
}

// PlayAnimation implements combat.Presenter.
func (b *Battle) PlayAnimation(id entity.ID, cmd animation.PlayCommand) error {
	return b.animator.Play(id, cmd)
}

// SpawnVisual implements combat.Presenter.
func (b *Battle) SpawnVisual(sprite string, clip animation.Kind, pos grid.Position, tag animation.CombatAnimationID) error {
	_, err := b.animator.SpawnVisual(sprite, clip, pos, &tag)
	return err
}

// SpawnProjectile implements combat.Presenter. The projectile flies from
// the shooter's tile to the target tile in world space.
func (b *Battle) SpawnProjectile(sprite string, from entity.ID, to grid.Position, tag animation.CombatAnimationID) error {
	origin, ok := b.grid.PositionOf(from)
	if !ok {
		return errNoSourcePosition
	}
	b.projectiles.Spawn(sprite, grid.ToWorld(origin), grid.ToWorld(to), tag)
	return nil
}

var (
	_ combat.Roster    = (*Battle)(nil)
	_ combat.Presenter = (*Battle)(nil)
	_ enemy.Board      = (*Battle)(nil)
)
