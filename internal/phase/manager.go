// Package phase runs the Player/Enemy phase loop and the per-unit turn
// budgets that decide when a phase is over.
package phase

import (
	"go.uber.org/zap"
)

// Phase is the side whose units may currently act.
type Phase int

const (
	Player Phase = iota
	Enemy
)

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	if p == Player {
		return Enemy
	}
	return Player
}

func (p Phase) String() string {
	switch p {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// State is the lifecycle of the current phase.
type State int

const (
	// Initializing phases are waiting for their units to be refreshed.
	Initializing State = iota
	// Running phases accept unit actions.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "initializing"
}

// Begin signals that a phase has started. Turn counts full Player+Enemy
// rounds, starting at 1.
type Begin struct {
	Phase Phase
	Turn  int
}

// Member is a unit as seen by the phase manager.
type Member interface {
	TurnResources() *Resources
	Downed() bool
	Movement() int
}

// Manager is the phase state machine:
//
//	Initializing --[Refresh]--> Running --[all exhausted]--> Initializing(next)
type Manager struct {
	current Phase
	state   State
	turn    int
	log     *zap.Logger
}

// NewManager returns a manager that has not begun.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{log: log}
}

// Begin starts the battle in the given phase.
func (m *Manager) Begin(initial Phase) Begin {
	m.current = initial
	m.state = Initializing
	m.turn = 1
	m.log.Info("phase begin", zap.Stringer("phase", m.current), zap.Int("turn", m.turn))
	return Begin{Phase: m.current, Turn: m.turn}
}

// Current returns the active phase.
func (m *Manager) Current() Phase { return m.current }

// State returns the lifecycle state of the active phase.
func (m *Manager) State() State { return m.state }

// Turn returns the current round number.
func (m *Manager) Turn() int { return m.turn }

// CheckShouldAdvance flips to the next phase when every member of phase p
// is downed or out of resources. It only acts while p is the running
// phase, so checking both phases in one tick cannot advance twice.
func (m *Manager) CheckShouldAdvance(p Phase, members []Member) (Begin, bool) {
	if m.state != Running || m.current != p {
		return Begin{}, false
	}
	for _, u := range members {
		if !u.Downed() && u.TurnResources().CanAct() {
			return Begin{}, false
		}
	}

	m.current = p.Next()
	m.state = Initializing
	if m.current == Player {
		m.turn++
	}
	m.log.Info("phase begin", zap.Stringer("phase", m.current), zap.Int("turn", m.turn))
	return Begin{Phase: m.current, Turn: m.turn}, true
}

// Refresh fills the turn budgets of the phase's members and marks the
// phase running. It does nothing unless the phase is still initializing,
// so repeated calls never add resources twice.
func (m *Manager) Refresh(sig Begin, members []Member) bool {
	if m.state != Initializing || sig.Phase != m.current {
		return false
	}
	for _, u := range members {
		u.TurnResources().Reset(u.Movement())
	}
	m.state = Running
	m.log.Debug("phase refreshed", zap.Stringer("phase", sig.Phase), zap.Int("members", len(members)))
	return true
}
