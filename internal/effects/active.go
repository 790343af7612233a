package effects

import (
	"go.uber.org/zap"
)

// ActiveEffects is the list of effects currently applied to one unit.
// Effects are not removed by the container itself; TickTurn is the only
// expiry path.
type ActiveEffects struct {
	effects []Effect
}

// All returns the applied effects in application order.
func (a *ActiveEffects) All() []Effect {
	return a.effects
}

// Len returns the number of applied effects.
func (a *ActiveEffects) Len() int {
	return len(a.effects)
}

// Apply adds an effect. Stat buffs always stack. A status already present is
// not duplicated; its duration is overwritten by the newer application.
func (a *ActiveEffects) Apply(effect Effect, log *zap.Logger) {
	switch effect.Data.Type.Kind {
	case KindStatBuff:
		a.effects = append(a.effects, effect)
	case KindStatusInfliction:
		tag := effect.Data.Type.Status
		for i := range a.effects {
			existing := &a.effects[i]
			if existing.Data.Type.Kind == KindStatusInfliction && existing.Data.Type.Status == tag {
				log.Info("status already present, refreshing duration",
					zap.String("status", string(tag)),
					zap.Int("old_count", existing.Data.Duration.Count),
					zap.Int("new_count", effect.Data.Duration.Count),
				)
				existing.Data.Duration = effect.Data.Duration
				return
			}
		}
		a.effects = append(a.effects, effect)
	}
}

// PreventMove reports whether the unit is barred from moving.
func (a *ActiveEffects) PreventMove() bool {
	return a.HasStatus(StatusStunned)
}

// PreventAction reports whether the unit is barred from acting.
func (a *ActiveEffects) PreventAction() bool {
	return a.HasStatus(StatusStunned)
}

// HasStatus reports whether tag is currently inflicted.
func (a *ActiveEffects) HasStatus(tag StatusTag) bool {
	for _, e := range a.effects {
		if e.Data.Type.Kind == KindStatusInfliction && e.Data.Type.Status == tag {
			return true
		}
	}
	return false
}

// Statuses returns the inflicted status tags.
func (a *ActiveEffects) Statuses() []StatusTag {
	var out []StatusTag
	for _, e := range a.effects {
		if e.Data.Type.Kind == KindStatusInfliction {
			out = append(out, e.Data.Type.Status)
		}
	}
	return out
}

// StatBuffs returns the stat modifications of every applied buff.
func (a *ActiveEffects) StatBuffs() []StatModification {
	var out []StatModification
	for _, e := range a.effects {
		if e.Data.Type.Kind == KindStatBuff {
			out = append(out, e.Data.Type.StatBuff)
		}
	}
	return out
}

// TickTurn counts down every TurnCount effect by one (never below zero) and
// drops the ones that reach zero. It returns the expired effects.
func (a *ActiveEffects) TickTurn() []Effect {
	var expired []Effect
	kept := a.effects[:0]
	for _, e := range a.effects {
		if e.Data.Duration.Kind == DurationTurnCount {
			if e.Data.Duration.Count > 0 {
				e.Data.Duration.Count--
			}
			if e.Data.Duration.Count == 0 {
				expired = append(expired, e)
				continue
			}
		}
		kept = append(kept, e)
	}
	a.effects = kept
	return expired
}
