package download

import "fmt"

// State is the lifecycle state of a Task.
type State string

const (
	StateReady    State = "READY"
	StateActive   State = "ACTIVE"
	StateDone     State = "DONE"
	StateSkipped  State = "SKIPPED"
	StateCanceled State = "CANCELED"
	StateFailed   State = "FAILED"
)

// Terminal reports whether s is a finished state.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateSkipped, StateCanceled, StateFailed:
		return true
	default:
		return false
	}
}

// Succeeded reports whether the target file is in place after s.
func (s State) Succeeded() bool {
	return s == StateDone || s == StateSkipped
}

// A finished task may be resolved again unless it was canceled.
func isAllowedTransition(from, to State) bool {
	switch from {
	case StateReady:
		return to == StateActive || to == StateCanceled
	case StateActive:
		return to.Terminal()
	case StateDone, StateSkipped, StateFailed:
		return to == StateActive
	default:
		return false
	}
}

func transition(cur *State, to State) error {
	if !isAllowedTransition(*cur, to) {
		return fmt.Errorf("disallowed task transition: %s -> %s", *cur, to)
	}
	*cur = to
	return nil
}
