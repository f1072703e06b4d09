// Package compiler builds the command lines used to drive the compiler under
// test.
package compiler

import (
	"time"

	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/process"
)

// DefaultPath is where the compiler under test is expected to live
const DefaultPath = "./compile"

// Compiler is the compiler executable under test
type Compiler struct {
	Path    string
	Timeout time.Duration
}

func New(path string, timeout time.Duration) Compiler {
	if path == "" {
		path = DefaultPath
	}

	return Compiler{Path: path, Timeout: timeout}
}

func (c Compiler) command(source string, args ...string) process.Command {
	return process.New(c.Path, source).
		WithArgs(args...).
		WithTimeout(c.Timeout)
}

func withRegisters(cmd process.Command, registers string) process.Command {
	if registers == "" {
		return cmd
	}

	return cmd.WithArgs("-regs", registers)
}

// Textual prints the program as it is after pass p, with label fix-up
// disabled so the output can be compared with stored references:
//
//	compile <source> -pass <p> -only -no-fix-label [-regs <registers>]
func (c Compiler) Textual(source string, p passes.Pass, registers string) process.Command {
	return withRegisters(c.command(source, "-pass", p.String(), "-only", "-no-fix-label"), registers)
}

// Eval runs the program up to pass p and evaluates it, feeding input to it:
//
//	compile <source> -pass <p> -eval
func (c Compiler) Eval(source string, p passes.Pass, input string) process.Command {
	return c.command(source, "-pass", p.String(), "-eval").WithStdin(input)
}

// Assembly runs the whole pipeline and prints the generated assembly:
//
//	compile <source> [-regs <registers>]
func (c Compiler) Assembly(source string, registers string, input string) process.Command {
	return withRegisters(c.command(source), registers).WithStdin(input)
}
