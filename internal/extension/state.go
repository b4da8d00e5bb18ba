// Package extension implements the Extension runtime object and its state
// machine (§4.7): the lifecycle every discovered plugin or language module
// passes through from Discovered to Terminated, or into one of the
// absorbing failure states.
package extension

import "fmt"

// State is one point in the Extension lifecycle.
type State int

const (
	Discovered State = iota
	Parsing
	Parsed
	Resolving
	Resolved
	Loading
	Loaded
	Exporting
	Exported
	Starting
	Running
	Ending
	Ended
	Terminating
	Terminated

	// Absorbing failure states.
	Failed
	Corrupted
	Unresolved
	Skipped
	Disabled
)

var stateNames = map[State]string{
	Discovered:  "Discovered",
	Parsing:     "Parsing",
	Parsed:      "Parsed",
	Resolving:   "Resolving",
	Resolved:    "Resolved",
	Loading:     "Loading",
	Loaded:      "Loaded",
	Exporting:   "Exporting",
	Exported:    "Exported",
	Starting:    "Starting",
	Running:     "Running",
	Ending:      "Ending",
	Ended:       "Ended",
	Terminating: "Terminating",
	Terminated:  "Terminated",
	Failed:      "Failed",
	Corrupted:   "Corrupted",
	Unresolved:  "Unresolved",
	Skipped:     "Skipped",
	Disabled:    "Disabled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsFailure reports whether s is one of the absorbing failure states.
func (s State) IsFailure() bool {
	switch s {
	case Failed, Corrupted, Unresolved, Skipped, Disabled:
		return true
	default:
		return false
	}
}

// linearSuccessor is the next state in the happy-path lifecycle, or the
// zero value if s has no successor (terminal states).
var linearSuccessor = map[State]State{
	Discovered:  Parsing,
	Parsing:     Parsed,
	Parsed:      Resolving,
	Resolving:   Resolved,
	Resolved:    Loading,
	Loading:     Loaded,
	Loaded:      Exporting,
	Exporting:   Exported,
	Exported:    Starting,
	Starting:    Running,
	Running:     Ending,
	Ending:      Ended,
	Ended:       Terminating,
	Terminating: Terminated,
}

// CanAdvance reports whether calling Advance from s would succeed.
func (s State) CanAdvance() bool {
	_, ok := linearSuccessor[s]
	return ok
}

// Advance returns the next linear state after s. It panics if s has no
// successor; callers should check CanAdvance first, or use the Extension
// methods which only call Advance from states known to have one.
func (s State) Advance() State {
	next, ok := linearSuccessor[s]
	if !ok {
		panic(fmt.Sprintf("extension: state %s has no linear successor", s))
	}
	return next
}
