package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Manu343726/passcheck/pkg/compare"
	"github.com/Manu343726/passcheck/pkg/compiler"
	"github.com/Manu343726/passcheck/pkg/config"
	"github.com/Manu343726/passcheck/pkg/metadata"
	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/report"
	"github.com/Manu343726/passcheck/pkg/toolchain"
)

const evalContinuePrompt = "Press <return> to continue..."

// EvaluationOptions select the branches of the evaluation pipeline
type EvaluationOptions struct {
	// NoAsm skips building and running native programs
	NoAsm bool

	// OnlyAsm skips evaluating each pass with the compiler
	OnlyAsm bool

	// Pause waits for the user after each file
	Pause bool
}

// Evaluation runs the cases a test source declares through every evaluable
// pass of the compiler and through native programs built with each register
// restriction
type Evaluation struct {
	config    config.Config
	env       Env
	options   EvaluationOptions
	compiler  compiler.Compiler
	toolchain *toolchain.Toolchain
}

func NewEvaluation(c config.Config, env Env, options EvaluationOptions) *Evaluation {
	return &Evaluation{
		config:    c,
		env:       env,
		options:   options,
		compiler:  compiler.New(c.Compiler, c.Timeout),
		toolchain: toolchain.New(c.Toolchain),
	}
}

// Check is one checked run of a test case
type Check struct {
	// Pass is set for compiler evaluation checks
	Pass passes.Pass

	// Native is set for checks of a built program
	Native bool

	// Registers the native program was built with
	Registers string

	Trail   Trail
	Outcome Outcome
}

// CaseResult holds the checks of one test case, in the order they ran
type CaseResult struct {
	// Index is 1-based
	Index  int
	Case   metadata.TestCase
	Checks []Check
}

// FileResult is the outcome of a test file. Checks that ran before an error
// stopped the file are kept.
type FileResult struct {
	Path  string
	Cases []CaseResult
}

// Passed reports whether every check succeeded
func (r FileResult) Passed() bool {
	for _, c := range r.Cases {
		for _, check := range c.Checks {
			if !check.Outcome.Passed() {
				return false
			}
		}
	}

	return true
}

// Mismatches counts the checks with a wrong result
func (r FileResult) Mismatches() int {
	n := 0

	for _, c := range r.Cases {
		for _, check := range c.Checks {
			if check.Outcome.Kind == Mismatch {
				n++
			}
		}
	}

	return n
}

func (e *Evaluation) progress(format string, args ...any) {
	if e.config.Progress {
		e.env.Printer.Printf(format, args...)
	}
}

// RunFile runs every case of the test source at path. Wrong results are
// recorded and the sweep goes on; errors stop the file.
func (e *Evaluation) RunFile(ctx context.Context, path string) (FileResult, error) {
	result := FileResult{Path: path}

	e.progress("----\n")
	e.progress("input file: %v\n\n", filepath.Base(path))

	cases, err := metadata.Extract(path, e.config.CommentPrefix)
	if err != nil {
		return result, err
	}

	for i, testCase := range cases {
		caseResult := CaseResult{Index: i + 1, Case: testCase}
		e.progress("* input/output data #%v:\n\n", caseResult.Index)

		err := e.runCase(ctx, path, &caseResult)
		result.Cases = append(result.Cases, caseResult)
		if err != nil {
			return result, err
		}

		e.progress("\n")
	}

	return result, nil
}

func (e *Evaluation) runCase(ctx context.Context, path string, result *CaseResult) error {
	if !e.options.OnlyAsm {
		for _, p := range passes.Evaluation.Passes() {
			check, err := e.Eval(ctx, path, p, result.Case)
			if err != nil {
				return err
			}

			result.Checks = append(result.Checks, check)
			e.recordCheck(path, result.Index, check)
		}
	}

	if !e.options.NoAsm {
		for _, registers := range e.config.RegisterOptions {
			check, err := e.Native(ctx, path, registers, result.Case)
			if err != nil {
				return err
			}

			result.Checks = append(result.Checks, check)
			e.recordCheck(path, result.Index, check)
		}
	}

	return nil
}

// Eval runs the program up to pass p with the compiler's evaluator. The
// trimmed output must match the expected output and the evaluator must exit
// cleanly.
func (e *Evaluation) Eval(ctx context.Context, path string, p passes.Pass, testCase metadata.TestCase) (Check, error) {
	check := Check{Pass: p}
	check.Trail.enter(StatePending)

	e.progress("Running test file (%v) up to pass (%v).\n", path, p)

	check.Trail.enter(StateCompiling)
	evaluated, err := process.RunSilent(ctx, e.env.Runner, "compile", e.compiler.Eval(path, p, testCase.Input))
	if err != nil {
		return check, err
	}

	if evaluated.ExitCode != 0 {
		check.Trail.enter(StateCompileFailed)
	} else {
		check.Trail.enter(StateCompiled)
	}

	check.Trail.enter(StateComparing)

	got := strings.TrimSpace(evaluated.Stdout)
	want := strings.TrimSpace(testCase.Output)

	switch {
	case got != want:
		check.Outcome = Mismatched(fmt.Sprintf("invalid output; expected [%v] but got [%v]", want, got))
	case evaluated.ExitCode != 0:
		check.Outcome = Mismatched("nonzero return code")
	default:
		check.Outcome = Succeeded()
	}

	e.conclude(path, &check)
	return check, nil
}

// Native compiles the program to assembly with the given register
// restriction, builds it with the runtime support object and runs it. The
// exit code of the program must be the expected output.
func (e *Evaluation) Native(ctx context.Context, path string, registers string, testCase metadata.TestCase) (Check, error) {
	check := Check{Native: true, Registers: registers}
	check.Trail.enter(StatePending)

	if registers == "" {
		e.progress("Compiling to assembly language and compiling/running the program.\n")
	} else {
		e.progress("Compiling to assembly language and compiling/running the program using only the register(s): %v\n", registers)
	}

	check.Trail.enter(StateCompiling)
	assembly, err := process.RunSilent(ctx, e.env.Runner, "compile", e.compiler.Assembly(path, registers, testCase.Input))
	if err != nil {
		return check, err
	}

	if assembly.ExitCode != 0 {
		check.Trail.enter(StateCompileFailed)
		e.env.Logger.Warn("compilation to assembly failed", "file", path, "registers", registers, "exit", assembly.ExitCode)
	}

	artifacts, err := e.toolchain.Build(ctx, e.env.Runner, toolchain.ArtifactName(path), assembly.Stdout)
	defer artifacts.Cleanup()
	if err != nil {
		return check, err
	}

	if !check.Trail.Has(StateCompileFailed) {
		check.Trail.enter(StateCompiled)
	}

	run, err := e.toolchain.Execute(ctx, e.env.Runner, artifacts.Executable, testCase.Input)
	if err != nil {
		return check, err
	}

	if e.config.RequireSilentExecutable && run.Stdout != "" {
		return check, &process.OutputError{
			Stage:   "run executable",
			Stream:  "stdout",
			Text:    run.Stdout,
			Command: e.toolchain.Run(artifacts.Executable, testCase.Input),
		}
	}

	check.Trail.enter(StateComparing)

	ok, err := compare.ReturnCode(testCase.Output, run.ExitCode)
	if err != nil {
		return check, fmt.Errorf("%w: %w", metadata.ErrMalformedMetadata, err)
	}

	if ok {
		check.Outcome = Succeeded()
	} else {
		check.Outcome = Mismatched(fmt.Sprintf("invalid output; expected [%v] but got [%v]", strings.TrimSpace(testCase.Output), run.ExitCode))
	}

	e.conclude(path, &check)
	return check, nil
}

func (e *Evaluation) conclude(path string, check *Check) {
	if check.Outcome.Passed() {
		check.Trail.enter(StateMatch)
		return
	}

	check.Trail.enter(StateMismatch)
	e.env.Logger.Info("wrong result", "file", path, "check", check.String(), "detail", check.Outcome.Detail)
	e.env.Printer.Mismatch("%v: %v", check, check.Outcome.Detail)
}

func (c Check) String() string {
	if !c.Native {
		return "pass " + c.Pass.String()
	}

	if c.Registers == "" {
		return "assembly"
	}

	return "assembly (registers " + c.Registers + ")"
}

func (e *Evaluation) recordCheck(path string, index int, check Check) {
	entry := report.Entry{
		File:      path,
		Registers: check.Registers,
		Case:      index,
		Status:    check.Outcome.Kind.String(),
		Detail:    check.Outcome.Detail,
	}

	if !check.Native {
		entry.Pass = check.Pass.String()
	}

	e.env.record(entry)
}

// Run evaluates the files in the given order. A file that fails is reported
// and the run goes on with the next one. The returned error means the run
// was aborted.
func (e *Evaluation) Run(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		if exists(path) {
			if err := e.runFile(ctx, path); err != nil {
				return err
			}
		} else {
			e.env.Printer.Printf("The test file: %v is missing!\n", path)
			e.env.record(report.Entry{File: path, Status: "missing"})
		}

		if e.options.Pause {
			if err := e.env.Pauser.Pause(ctx, evalContinuePrompt); err != nil {
				return err
			}
			e.env.Printer.Println()
		}
	}

	return nil
}

func (e *Evaluation) runFile(ctx context.Context, path string) error {
	result, err := e.RunFile(ctx, path)
	if err == nil {
		e.env.Logger.Info("test file done", "file", path, "mismatches", result.Mismatches())
		return nil
	}

	if fatal(ctx, err) {
		return err
	}

	outcome := Failed(err)
	e.env.Logger.Error("test file failed", "file", path, "error", err)
	e.env.Printer.ErrorBlock(path, err, programOutput(err))
	e.env.record(report.Entry{
		File:   path,
		Case:   len(result.Cases),
		Status: outcome.Kind.String(),
		Detail: outcome.Detail,
	})

	return nil
}
