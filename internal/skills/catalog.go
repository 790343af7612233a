package skills

import (
	"fmt"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// Load builds the database from the embedded skills.yaml.
func Load() (*DB, error) {
	catalog, err := gamedata.LoadSkillCatalog()
	if err != nil {
		return nil, err
	}
	return FromCatalog(catalog)
}

// MustLoad builds the database from skills.yaml, panicking on error.
func MustLoad() *DB {
	db, err := Load()
	if err != nil {
		panic(err)
	}
	return db
}

// FromCatalog registers every category and skill of a catalog. Categories
// are registered first, in file order.
func FromCatalog(catalog gamedata.SkillCatalog) (*DB, error) {
	b := NewBuilder()
	for _, c := range catalog.Categories {
		if err := b.RegisterCategory(Category{ID: CategoryID(c.ID), Name: c.Name}); err != nil {
			return nil, err
		}
	}
	for _, def := range catalog.Skills {
		s, err := skillFromDef(def)
		if err != nil {
			return nil, fmt.Errorf("skill %d (%s): %w", def.ID, def.Name, err)
		}
		if err := b.RegisterSkill(CategoryID(def.Category), s); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func skillFromDef(def gamedata.SkillDef) (Skill, error) {
	s := Skill{
		ID:          SkillID(def.ID),
		Name:        def.Name,
		Description: def.Description,
		Targeting:   TargetInRange(def.Range),
		APCost:      def.APCost,
	}
	for i, a := range def.Actions {
		action, err := actionFromDef(a)
		if err != nil {
			return Skill{}, fmt.Errorf("action %d: %w", i, err)
		}
		s.Actions = append(s.Actions, action)
	}
	for i, st := range def.Stages {
		stage, err := stageFromDef(st)
		if err != nil {
			return Skill{}, fmt.Errorf("stage %d: %w", i, err)
		}
		s.Stages = append(s.Stages, stage)
	}
	return s, nil
}

func actionFromDef(def gamedata.ActionDef) (Action, error) {
	a := Action{BaseAccuracy: def.Accuracy}
	switch {
	case def.Damage != nil:
		amount, err := amountFromDef(*def.Damage)
		if err != nil {
			return Action{}, err
		}
		a.Kind, a.Amount = ActionDamaging, amount
	case def.Heal != nil:
		amount, err := amountFromDef(*def.Heal)
		if err != nil {
			return Action{}, err
		}
		a.Kind, a.Amount = ActionHealing, amount
	case len(def.Effects) > 0:
		a.Kind = ActionApplyEffects
		for _, e := range def.Effects {
			data, err := effectFromDef(e)
			if err != nil {
				return Action{}, err
			}
			a.Effects = append(a.Effects, data)
		}
	default:
		return Action{}, fmt.Errorf("%w: action has no damage, heal or effects", ErrInvalidStage)
	}
	return a, nil
}

func amountFromDef(def gamedata.AmountDef) (Amount, error) {
	off, err := ParseModifier(def.Offense)
	if err != nil {
		return Amount{}, err
	}
	defn, err := ParseModifier(def.Defense)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Power: stats.Value(def.Power), Offense: off, Defense: defn}, nil
}

func effectFromDef(def gamedata.EffectDef) (effects.Data, error) {
	duration := effects.Permanent()
	if def.Turns > 0 {
		duration = effects.TurnCount(def.Turns)
	}
	switch {
	case def.Status != "":
		tag := effects.StatusTag(def.Status)
		if tag != effects.StatusPoisoned && tag != effects.StatusStunned {
			return effects.Data{}, fmt.Errorf("unknown status %q", def.Status)
		}
		return effects.Data{Type: effects.Status(tag), Duration: duration}, nil
	case def.Buff != nil:
		st, err := stats.ParseStatType(def.Buff.Stat)
		if err != nil {
			return effects.Data{}, err
		}
		op := effects.Operator(def.Buff.Operator)
		if op != effects.OpAdd && op != effects.OpMul {
			return effects.Data{}, fmt.Errorf("unknown buff operator %q", def.Buff.Operator)
		}
		mod := effects.StatModification{Stat: st, Operator: op, Value: stats.Value(def.Buff.Value)}
		return effects.Data{Type: effects.StatBuff(mod), Duration: duration}, nil
	}
	return effects.Data{}, fmt.Errorf("effect has neither status nor buff")
}

func stageFromDef(def gamedata.StageDef) (Stage, error) {
	var st Stage
	switch {
	case def.Animation != nil:
		st.Action = StageAction{
			Kind:         StageUnitAnimation,
			AnimationID:  def.Animation.ID,
			Animation:    animation.Kind(def.Animation.Kind),
			FrameSeconds: def.Animation.FrameSeconds,
		}
	case def.Cast != nil:
		st.Action = StageAction{Kind: StageCast, AnimationID: def.Cast.ID}
		switch {
		case def.Cast.TileSprite != nil:
			st.Action.Cast = Cast{
				Kind:   CastTileSprite,
				Sprite: def.Cast.TileSprite.Sprite,
				Clip:   animation.Kind(def.Cast.TileSprite.Clip),
			}
		case def.Cast.Projectile != nil:
			st.Action.Cast = Cast{Kind: CastProjectile, Sprite: def.Cast.Projectile.Sprite}
		default:
			return Stage{}, fmt.Errorf("%w: cast has no payload", ErrInvalidStage)
		}
	case len(def.Impact) > 0:
		st.Action = StageAction{Kind: StageImpact, Impact: append([]int(nil), def.Impact...)}
	default:
		return Stage{}, fmt.Errorf("%w: stage has no action", ErrInvalidStage)
	}

	switch on := def.On; {
	case on.Animation != nil:
		marker, err := animation.ParseMarker(on.Marker)
		if err != nil {
			return Stage{}, err
		}
		st.Event = StageEvent{Kind: EventAnimationMarker, AnimationID: *on.Animation, Marker: marker}
	case on.Projectile != nil:
		st.Event = StageEvent{Kind: EventProjectileImpact, AnimationID: *on.Projectile}
	case on.Immediate:
		st.Event = StageEvent{Kind: EventImmediate}
	default:
		return Stage{}, fmt.Errorf("%w: stage has no completing event", ErrInvalidStage)
	}
	return st, nil
}
