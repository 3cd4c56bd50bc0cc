package saga

import (
	"errors"
)

// Status is the lifecycle state of a single saga run
type Status string

const (
	StatusRunning      Status = "RUNNING"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusCompensated  Status = "COMPENSATED"
	StatusFailed       Status = "FAILED"
)

// ErrInvalidStatusTransition is returned when a run moves to a status the
// table below does not allow.
var ErrInvalidStatusTransition = errors.New("invalid saga status transition")

// validTransitions defines allowed status transitions
var validTransitions = map[Status][]Status{
	StatusRunning:      {StatusCompleted, StatusCompensating},
	StatusCompensating: {StatusCompensated, StatusFailed},
	StatusCompleted:    {},
	StatusCompensated:  {},
	StatusFailed:       {},
}

// IsTerminal returns true if the run has finished
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCompensated || s == StatusFailed
}

// CanTransitionTo returns true if transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
