// Package harness runs test files through the compiler under test and checks
// what comes out of it, either against stored reference outputs or against
// the expected results declared in the test sources.
package harness

import (
	"errors"

	"github.com/Manu343726/passcheck/pkg/process"
)

// State of a single pipeline step
type State int

const (
	StatePending State = iota
	StateCompiling
	StateCompileFailed
	StateCompiled
	StateComparing
	StateMatch
	StateMismatch

	// StateDisplayed ends a step shown for human inspection, which is never
	// judged
	StateDisplayed
)

var stateNames = [...]string{
	StatePending:       "PENDING",
	StateCompiling:     "COMPILING",
	StateCompileFailed: "COMPILE_FAILED",
	StateCompiled:      "COMPILED",
	StateComparing:     "COMPARING",
	StateMatch:         "MATCH",
	StateMismatch:      "MISMATCH",
	StateDisplayed:     "DISPLAYED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}

	return stateNames[s]
}

// Trail records the states a step went through
type Trail []State

func (t *Trail) enter(s State) {
	*t = append(*t, s)
}

// Last returns the current state
func (t Trail) Last() State {
	if len(t) == 0 {
		return StatePending
	}

	return t[len(t)-1]
}

// Has reports whether the step went through s
func (t Trail) Has(s State) bool {
	for _, state := range t {
		if state == s {
			return true
		}
	}

	return false
}

// OutcomeKind tags the result of a step
type OutcomeKind int

const (
	// Success means the compiler under test produced the expected result
	Success OutcomeKind = iota

	// Mismatch means the compiler under test produced a wrong result. It is
	// reported, never escalated.
	Mismatch

	// ToolError means the harness or a tool it drives misbehaved
	ToolError

	// Timeout means an external program did not finish in time
	Timeout
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Mismatch:
		return "mismatch"
	case ToolError:
		return "error"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a step
type Outcome struct {
	Kind OutcomeKind

	// Detail describes a mismatch
	Detail string

	// Err is set for ToolError and Timeout
	Err error
}

func Succeeded() Outcome {
	return Outcome{Kind: Success}
}

func Mismatched(detail string) Outcome {
	return Outcome{Kind: Mismatch, Detail: detail}
}

// Failed classifies an error stopping a test file
func Failed(err error) Outcome {
	if errors.Is(err, process.ErrTimeout) {
		return Outcome{Kind: Timeout, Detail: err.Error(), Err: err}
	}

	return Outcome{Kind: ToolError, Detail: err.Error(), Err: err}
}

// Passed is true only for successful outcomes
func (o Outcome) Passed() bool {
	return o.Kind == Success
}
