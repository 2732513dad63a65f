package designer

// State is a node of the design loop.
type State string

const (
	StateCollectInput    State = "collect_input"
	StateValidate        State = "validate"
	StateLayout          State = "layout"
	StateCheckCompliance State = "check_compliance"
	StateBuild           State = "build"

	// Terminal states.
	StateDone      State = "done"
	StateAborted   State = "aborted"
	StateCancelled State = "cancelled"
	StateExhausted State = "exhausted"
)

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateAborted, StateCancelled, StateExhausted:
		return true
	}
	return false
}

// validTransitions defines the legal state changes. Each key is a source
// state, and the value is the set of valid target states.
var validTransitions = map[State]map[State]bool{
	StateCollectInput: {
		StateValidate:  true,
		StateCancelled: true,
		StateExhausted: true, // MaxCycles reached
	},
	StateValidate: {StateLayout: true, StateCollectInput: true}, // invalid input loops back
	StateLayout: {
		StateCheckCompliance: true,
		StateCollectInput:    true, // out-of-range mid-landing position
		StateAborted:         true, // calculation failure
	},
	StateCheckCompliance: {
		StateBuild:        true, // proceed, or ignore violations
		StateCollectInput: true, // try again
		StateCancelled:    true,
	},
	StateBuild: {StateDone: true, StateAborted: true},
}

// IsValidTransition checks if a state change is legal.
func IsValidTransition(from, to State) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Disposition is the user's answer to a violation report.
type Disposition int

const (
	// DispositionNone means no choice was made. Presenters must not return
	// it; the loop treats it as an error rather than a default.
	DispositionNone Disposition = iota
	DispositionTryAgain
	DispositionIgnore
	DispositionCancel
)

func (d Disposition) String() string {
	switch d {
	case DispositionTryAgain:
		return "try_again"
	case DispositionIgnore:
		return "ignore"
	case DispositionCancel:
		return "cancel"
	}
	return "none"
}
