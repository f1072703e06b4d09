// Package metadata extracts the input/output cases a test source file
// declares in its leading comment block.
//
// A test file starts with a block of comment lines. Two keyed lines in that
// block are recognized:
//
//	; INPUT: 1 2; 3
//	; OUTPUT: 3; 3
//
// Inputs and outputs are semicolon separated and matched positionally. Every
// whitespace separated token of an input becomes one line of the program's
// standard input. A file without INPUT declares exactly one output.
package metadata

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/Manu343726/passcheck/pkg/utils"
)

var ErrMalformedMetadata = errors.New("malformed metadata")

const (
	DefaultCommentPrefix = ";"

	inputKey  = "INPUT:"
	outputKey = "OUTPUT:"
)

// TestCase is one run of a test program: the text fed to its standard input
// and the output it must produce
type TestCase struct {
	Input  string
	Output string
}

// Extract reads the metadata block of a test source file
func Extract(path string, commentPrefix string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cases, err := Parse(f, commentPrefix)
	if err != nil {
		return nil, utils.MakeError(err, "%v", path)
	}

	return cases, nil
}

// AnnotationBlock returns the comment lines at the top of the input with the
// comment markers and surrounding whitespace removed
func AnnotationBlock(r io.Reader, commentPrefix string) ([]string, error) {
	if commentPrefix == "" {
		commentPrefix = DefaultCommentPrefix
	}

	var lines []string
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, commentPrefix) {
			break
		}

		for strings.HasPrefix(line, commentPrefix) {
			line = line[len(commentPrefix):]
		}

		lines = append(lines, strings.TrimSpace(line))
	}

	return lines, scanner.Err()
}

// Parse reads the metadata block from r and derives its test cases
func Parse(r io.Reader, commentPrefix string) ([]TestCase, error) {
	lines, err := AnnotationBlock(r, commentPrefix)
	if err != nil {
		return nil, err
	}

	var inputLine, outputLine *string

	for i := range lines {
		switch {
		case strings.HasPrefix(lines[i], inputKey):
			if inputLine != nil {
				return nil, utils.MakeError(ErrMalformedMetadata, "more than one %v line", inputKey)
			}
			value := strings.TrimSpace(strings.TrimPrefix(lines[i], inputKey))
			inputLine = &value
		case strings.HasPrefix(lines[i], outputKey):
			if outputLine != nil {
				return nil, utils.MakeError(ErrMalformedMetadata, "more than one %v line", outputKey)
			}
			value := strings.TrimSpace(strings.TrimPrefix(lines[i], outputKey))
			outputLine = &value
		}
	}

	if outputLine == nil {
		return nil, utils.MakeError(ErrMalformedMetadata, "no %v line", outputKey)
	}

	outputs := utils.Map(strings.Split(*outputLine, ";"), strings.TrimSpace)

	if inputLine == nil {
		if len(outputs) != 1 {
			return nil, utils.MakeError(ErrMalformedMetadata, "can only have one output if no inputs, got %v", len(outputs))
		}

		return []TestCase{{Input: "", Output: outputs[0]}}, nil
	}

	inputs := utils.Map(strings.Split(*inputLine, ";"), stdinText)

	if len(inputs) != len(outputs) {
		return nil, utils.MakeError(ErrMalformedMetadata, "%v inputs but %v outputs", len(inputs), len(outputs))
	}

	cases := make([]TestCase, len(inputs))
	for i := range inputs {
		cases[i] = TestCase{Input: inputs[i], Output: outputs[i]}
	}

	return cases, nil
}

// stdinText puts each whitespace separated token of an input on its own line
func stdinText(input string) string {
	return strings.Join(strings.Fields(input), "\n") + "\n"
}
