package process

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrStart            = errors.New("could not start process")
	ErrTimeout          = errors.New("timeout")
	ErrUnexpectedOutput = errors.New("unexpected output")
)

// OutputError reports a program that wrote to a stream expected to stay empty
type OutputError struct {
	// Stage names the harness step, e.g. "compile" or "run executable"
	Stage string

	// Stream is "stdout" or "stderr"
	Stream string

	// Text is what the program wrote
	Text string

	Command Command
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%v: non-empty %v data", e.Stage, e.Stream)
}

func (e *OutputError) Unwrap() error {
	return ErrUnexpectedOutput
}

// TimeoutError reports a program that did not finish in time. It was killed.
type TimeoutError struct {
	Command Command
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v: %v timed out after %v", ErrTimeout, e.Command.Program, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}
