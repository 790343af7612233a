package phase

// Resources is a unit's movement and action budget for one phase. The zero
// value cannot act; budgets are filled when the unit's phase begins.
type Resources struct {
	MovementLeft int
	ActionLeft   int
	Waited       bool
}

// ActionsPerPhase is the action budget every unit gets at phase start.
const ActionsPerPhase = 1

// CanAct reports whether the unit has anything left to do this phase.
func (r *Resources) CanAct() bool {
	return !r.Waited && (r.MovementLeft > 0 || r.ActionLeft > 0)
}

// Reset fills the budget for a new phase.
func (r *Resources) Reset(movement int) {
	r.MovementLeft = movement
	r.ActionLeft = ActionsPerPhase
	r.Waited = false
}

// SpendAction deducts cost action points. It returns false and spends
// nothing if the budget is short.
func (r *Resources) SpendAction(cost int) bool {
	if cost > r.ActionLeft {
		return false
	}
	r.ActionLeft -= cost
	return true
}

// SpendMovement deducts one movement point per tile.
func (r *Resources) SpendMovement(tiles int) bool {
	if tiles > r.MovementLeft {
		return false
	}
	r.MovementLeft -= tiles
	return true
}

// Wait ends the unit's phase early.
func (r *Resources) Wait() {
	r.Waited = true
}
