// Package compare checks compiler output against reference artifacts.
package compare

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/utils"
)

var ErrInvalidExpectedCode = errors.New("expected output is not a return code")

const (
	DefaultDiffProgram = "diff"

	StudentHeader   = "# Student version."
	ReferenceHeader = "# Reference version."

	// Spaces between the two columns of a side by side comparison
	Gutter = 10

	tabStop = 8
)

// Outcome of an exact comparison
type Outcome struct {
	Match bool

	// Output of the differencing tool, verbatim. Empty on match.
	Diff string
}

// Differ compares files line by line with an external diff program
type Differ struct {
	Program string
	Timeout time.Duration
}

func NewDiffer(program string, timeout time.Duration) Differ {
	if program == "" {
		program = DefaultDiffProgram
	}

	return Differ{Program: program, Timeout: timeout}
}

// Command returns the diff invocation comparing generated to reference,
// ignoring line ending differences
func (d Differ) Command(generated, reference string) process.Command {
	return process.New(d.Program, "--strip-trailing-cr", generated, reference).WithTimeout(d.Timeout)
}

// Diff runs the diff program. Exit status zero is a match, anything else a
// mismatch. Output on stderr means diff itself failed (a missing reference
// file, for example) and is returned as an error.
func (d Differ) Diff(ctx context.Context, runner process.Runner, generated, reference string) (Outcome, error) {
	result, err := process.RunSilent(ctx, runner, "diff", d.Command(generated, reference))
	if err != nil {
		return Outcome{}, err
	}

	if result.ExitCode == 0 {
		return Outcome{Match: true}, nil
	}

	return Outcome{Match: false, Diff: result.Stdout}, nil
}

// OutputLines splits program output into lines. The text after the last
// newline is dropped, as it is either empty or an unterminated line that the
// reference format does not allow.
func OutputLines(output string) []string {
	lines := strings.Split(output, "\n")
	return lines[:len(lines)-1]
}

// ReadLines returns the lines of a file without their newline characters
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

// SideBySide renders candidate output next to the reference lines for visual
// inspection. It does not judge whether they match.
func SideBySide(candidate []string, reference []string) string {
	expand := func(line string) string { return utils.ExpandTabs(line, tabStop) }

	return utils.Columns([]utils.Column{
		{Header: StudentHeader, Rows: utils.Map(candidate, expand)},
		{Header: ReferenceHeader, Rows: utils.Map(reference, expand)},
	}, Gutter)
}

// ReturnCode checks a program exit status against the expected output of a
// test case, which must be an integer
func ReturnCode(expected string, got int) (bool, error) {
	want, err := strconv.Atoi(strings.TrimSpace(expected))
	if err != nil {
		return false, utils.MakeError(ErrInvalidExpectedCode, "%q", expected)
	}

	return want == got, nil
}
