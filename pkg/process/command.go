// Package process runs external programs with a fixed input and a timeout and
// captures what they print.
package process

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every external invocation unless a command sets its own
const DefaultTimeout = 5 * time.Second

// Command describes one external program invocation
type Command struct {
	// Program is the executable name or path
	Program string

	// Args are passed to the program in order, without shell interpretation
	Args []string

	// Stdin is written to the program's standard input
	Stdin string

	// Timeout bounds the invocation. Zero means DefaultTimeout.
	Timeout time.Duration

	// Dir is the working directory. Empty means the current one.
	Dir string
}

// New returns a command running program with the given arguments
func New(program string, args ...string) Command {
	return Command{
		Program: program,
		Args:    slices.Clone(args),
	}
}

// WithArgs returns a copy of the command with more arguments appended
func (c Command) WithArgs(args ...string) Command {
	c.Args = append(slices.Clone(c.Args), args...)
	return c
}

func (c Command) WithStdin(stdin string) Command {
	c.Stdin = stdin
	return c
}

func (c Command) WithTimeout(timeout time.Duration) Command {
	c.Timeout = timeout
	return c
}

func (c Command) WithDir(dir string) Command {
	c.Dir = dir
	return c
}

// Argv returns the program followed by its arguments
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

func (c Command) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}

	return c.Timeout
}

// String renders the command line, quoting arguments when needed
func (c Command) String() string {
	argv := c.Argv()
	quoted := make([]string, len(argv))

	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\;$") {
			quoted[i] = strconv.Quote(arg)
		} else {
			quoted[i] = arg
		}
	}

	return strings.Join(quoted, " ")
}
