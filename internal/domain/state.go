package domain

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a work item
type State string

const (
	StateNew      State = "New"
	StateActive   State = "Active"
	StateResolved State = "Resolved"
	StateClosed   State = "Closed"
	StateRemoved  State = "Removed"
)

// AllStates returns every state in lifecycle order
func AllStates() []State {
	return []State{StateNew, StateActive, StateResolved, StateClosed, StateRemoved}
}

// ParseState parses a state name, ignoring case
func ParseState(s string) (State, error) {
	for _, state := range AllStates() {
		if strings.EqualFold(string(state), strings.TrimSpace(s)) {
			return state, nil
		}
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// Valid reports whether s is a member of the state set
func (s State) Valid() bool {
	switch s {
	case StateNew, StateActive, StateResolved, StateClosed, StateRemoved:
		return true
	}
	return false
}

// String returns the state name
func (s State) String() string {
	return string(s)
}

// DeleteOutcome describes what a delete request does to a work item
type DeleteOutcome int

const (
	// DeleteRefused leaves the item untouched
	DeleteRefused DeleteOutcome = iota
	// DeleteHard removes the item from the store
	DeleteHard
	// DeleteSoft moves the item to StateRemoved
	DeleteSoft
)

// DeleteOutcome returns the effect of deleting an item in state s.
// Only New items are physically deleted; Active items are retired to
// Removed; items that reached Resolved, Closed or Removed are kept as is.
func (s State) DeleteOutcome() DeleteOutcome {
	var outcome DeleteOutcome
	switch s {
	case StateNew:
		outcome = DeleteHard
	case StateActive:
		outcome = DeleteSoft
	case StateResolved, StateClosed, StateRemoved:
		outcome = DeleteRefused
	}
	return outcome
}
