package combat

import (
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/event"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// Combatant is the interface for any unit an impact can read or change.
type Combatant interface {
	// Stats returns derived stats.
	Stats() *stats.Container
	// ApplyHealthChange adds delta to health, clamped, and returns the
	// change actually applied.
	ApplyHealthChange(delta stats.Value) stats.Value
	ApplyEffect(effect effects.Effect, log *zap.Logger)
}

// ImpactResult is the outcome of applying one impact.
type ImpactResult struct {
	Damage  stats.Value // total damage before clamping
	Healing stats.Value // total healing before clamping
	Net     stats.Value // Healing - Damage
	Applied stats.Value // health change after clamping
	Effects int         // effects handed to the defender
}

// CalculateImpact sums the damaging and healing actions separately and
// returns healing minus damage. Each action contributes
// power + offense(attacker) - defense(defender), floored at zero. A nil
// attacker contributes no offense.
func CalculateImpact(attacker, defender Combatant, actions []skills.Action) ImpactResult {
	var r ImpactResult
	for _, a := range actions {
		switch a.Kind {
		case skills.ActionDamaging:
			r.Damage += amount(attacker, defender, a.Amount)
		case skills.ActionHealing:
			r.Healing += amount(attacker, defender, a.Amount)
		}
	}
	r.Net = r.Healing - r.Damage
	return r
}

func amount(attacker, defender Combatant, amt skills.Amount) stats.Value {
	v := amt.Power + offense(attacker, amt.Offense) - defense(defender, amt.Defense)
	if v < 0 {
		return 0
	}
	return v
}

func offense(c Combatant, m skills.Modifier) stats.Value {
	st, ok := m.OffenseStat()
	if !ok || c == nil {
		return 0
	}
	return c.Stats().Get(st)
}

func defense(c Combatant, m skills.Modifier) stats.Value {
	st, ok := m.DefenseStat()
	if !ok || c == nil {
		return 0
	}
	return c.Stats().Get(st)
}

// ApplyImpact changes the defender's health by the calculated net amount
// and hands every declared effect to its active effects. Effects apply
// whether or not any damage or healing happened.
func ApplyImpact(attacker, defender Combatant, source, target entity.ID, actions []skills.Action, log *zap.Logger) ImpactResult {
	r := CalculateImpact(attacker, defender, actions)
	if r.Net != 0 {
		r.Applied = defender.ApplyHealthChange(r.Net)
	}
	for _, a := range actions {
		if a.Kind != skills.ActionApplyEffects {
			continue
		}
		for _, data := range a.Effects {
			defender.ApplyEffect(effects.Effect{
				Metadata: effects.Metadata{Target: target, Source: source},
				Data:     data,
			}, log)
			r.Effects++
		}
	}
	return r
}

// ImpactResolver consumes impact events: it applies them to the units
// involved, plays the defender's reaction and reports health changes.
type ImpactResolver struct {
	roster    Roster
	presenter Presenter
	log       *zap.Logger

	HealthChanges *event.Queue[HealthChanged]
}

// NewImpactResolver creates an impact resolver.
func NewImpactResolver(roster Roster, presenter Presenter, log *zap.Logger) *ImpactResolver {
	return &ImpactResolver{
		roster:        roster,
		presenter:     presenter,
		log:           log,
		HealthChanges: event.NewQueue[HealthChanged](),
	}
}

// Resolve applies each impact in order.
func (r *ImpactResolver) Resolve(impacts []ImpactEvent) {
	for _, ev := range impacts {
		r.resolveOne(ev)
	}
}

func (r *ImpactResolver) resolveOne(ev ImpactEvent) {
	defender, ok := r.roster.Combatant(ev.Defender)
	if !ok {
		r.log.Warn("impact on missing defender", zap.Stringer("execution", ev.Execution), zap.Stringer("defender", ev.Defender))
		return
	}
	var attacker Combatant
	if ev.Attacker.Valid() {
		if c, ok := r.roster.Combatant(ev.Attacker); ok {
			attacker = c
		}
	}

	result := ApplyImpact(attacker, defender, ev.Attacker, ev.Defender, ev.Actions, r.log)

	switch {
	case result.Net < 0:
		r.react(ev.Defender, animation.KindDamage)
	case result.Net > 0:
		r.react(ev.Defender, animation.KindRelease)
	}
	if result.Net != 0 {
		r.HealthChanges.Push(HealthChanged{Unit: ev.Defender, Delta: result.Applied})
		r.log.Info("health changed",
			zap.Stringer("unit", ev.Defender),
			zap.Float32("delta", float32(result.Applied)),
			zap.Float32("health", float32(defender.Stats().Get(stats.Health))),
		)
	}
}

func (r *ImpactResolver) react(unit entity.ID, kind animation.Kind) {
	if err := r.presenter.PlayAnimation(unit, animation.PlayCommand{Kind: kind}); err != nil {
		r.log.Debug("no reaction animation", zap.Stringer("unit", unit), zap.Error(err))
	}
}
