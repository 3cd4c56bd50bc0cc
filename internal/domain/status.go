package domain

import "fmt"

// transitions is an allowed-next-status table. A status with an empty list
// is terminal.
type transitions[S ~string] map[S][]S

func (t transitions[S]) valid(s S) bool {
	_, ok := t[s]
	return ok
}

func (t transitions[S]) allowed(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// check reports whether moving from -> to changes anything. Writing the
// current status again is a no-op, not an error.
func (t transitions[S]) check(resource string, from, to S) (bool, error) {
	if !t.valid(to) {
		return false, NewError(ErrValidation, fmt.Sprintf("Unknown %s status %q", resource, to))
	}
	if from == to {
		return false, nil
	}
	if !t.allowed(from, to) {
		return false, NewError(ErrInvalidTransition,
			fmt.Sprintf("Cannot change %s status from %s to %s", resource, from, to))
	}
	return true, nil
}
