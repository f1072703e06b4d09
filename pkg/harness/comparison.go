package harness

import (
	"context"
	"os"

	"github.com/Manu343726/passcheck/pkg/compare"
	"github.com/Manu343726/passcheck/pkg/compiler"
	"github.com/Manu343726/passcheck/pkg/config"
	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/report"
	"github.com/Manu343726/passcheck/pkg/testfile"
	"github.com/Manu343726/passcheck/pkg/utils"
)

const continuePrompt = ";; press <return> to continue ...\n"

// ComparisonOptions select how compiler output is compared with references
type ComparisonOptions struct {
	// Diff compares with the diff program. Otherwise output and reference
	// are shown side by side.
	Diff bool

	// Pause waits for the user after each file
	Pause bool

	// Viewer, when set, shows side by side comparisons instead of printing
	// them
	Viewer Viewer
}

// Comparison checks the textual output of one pass at a time. A test file
// `root.P[,regs]` holds the program as it is after pass P; compiling it with
// the pass that follows P must produce the reference `root.next(P)[,regs]`.
type Comparison struct {
	config   config.Config
	env      Env
	options  ComparisonOptions
	compiler compiler.Compiler
	differ   compare.Differ
}

func NewComparison(c config.Config, env Env, options ComparisonOptions) *Comparison {
	return &Comparison{
		config:   c,
		env:      env,
		options:  options,
		compiler: compiler.New(c.Compiler, c.Timeout),
		differ:   compare.NewDiffer(c.DiffProgram, c.Timeout),
	}
}

// StepResult is what a single comparison step went through
type StepResult struct {
	Name testfile.Name

	// Requested is the pass the compiler was asked to run
	Requested passes.Pass

	// Reference is the path of the expected output
	Reference string

	Trail   Trail
	Outcome Outcome

	// Diff is the output of the diff program on mismatch
	Diff string

	// Rendering is the side by side comparison, in visual mode
	Rendering string
}

// Target returns the pass to run on name and the name of its expected output.
// The pass of name must be a textual pass other than the last one.
func (c *Comparison) Target(name testfile.Name) (passes.Pass, testfile.Name, error) {
	p, err := name.ResolvePass(passes.Textual)
	if err != nil {
		return 0, testfile.Name{}, utils.MakeError(ErrInvalidPass, "%v: %v", name, err)
	}

	next, err := passes.Textual.Next(p)
	if err != nil {
		return 0, testfile.Name{}, utils.MakeError(ErrInvalidPass, "%v: %v", name, err)
	}

	return next, name.WithPass(next), nil
}

// ReferencePath returns where the expected output of name is stored
func (c *Comparison) ReferencePath(name testfile.Name) (string, error) {
	_, output, err := c.Target(name)
	if err != nil {
		return "", err
	}

	return output.In(c.config.ReferenceDir).Path, nil
}

// Step compiles name with the next pass and compares the result with the
// reference. Errors are returned for things that stop the test file, a wrong
// output is reported in the result.
func (c *Comparison) Step(ctx context.Context, name testfile.Name) (StepResult, error) {
	result := StepResult{Name: name}
	result.Trail.enter(StatePending)

	next, output, err := c.Target(name)
	if err != nil {
		return result, err
	}

	result.Requested = next
	result.Reference = output.In(c.config.ReferenceDir).Path

	logger := c.env.Logger.With("file", name.String(), "pass", next.String())

	result.Trail.enter(StateCompiling)
	compiled, err := process.RunSilent(ctx, c.env.Runner, "compile", c.compiler.Textual(name.String(), next, name.Registers))
	if err != nil {
		return result, err
	}

	if compiled.ExitCode != 0 {
		result.Trail.enter(StateCompileFailed)
		logger.Warn("compilation failed", "exit", compiled.ExitCode)
		c.env.Printer.Printf("compilation of %v failed!\n", name)
	} else {
		result.Trail.enter(StateCompiled)
	}

	result.Trail.enter(StateComparing)

	if c.options.Diff {
		err = c.diff(ctx, &result, output, compiled.Stdout)
	} else {
		err = c.display(ctx, &result, compiled.Stdout)
	}

	if err != nil {
		return result, err
	}

	logger.Info("compared", "state", result.Trail.Last())
	return result, nil
}

func (c *Comparison) diff(ctx context.Context, result *StepResult, output testfile.Name, stdout string) error {
	scratch, err := writeScratch(c.config.WorkDir, output.Base(), stdout)
	if err != nil {
		return err
	}
	defer os.Remove(scratch)

	outcome, err := c.differ.Diff(ctx, c.env.Runner, scratch, result.Reference)
	if err != nil {
		return err
	}

	if outcome.Match {
		result.Trail.enter(StateMatch)
		result.Outcome = Succeeded()
		c.env.Printer.OK()
	} else {
		result.Trail.enter(StateMismatch)
		result.Outcome = Mismatched(outcome.Diff)
		result.Diff = outcome.Diff
		c.env.Printer.Different(outcome.Diff)
	}

	return nil
}

// writeScratch stores candidate output in a new file under dir. The file name
// starts with base and never matches an existing file.
func writeScratch(dir string, base string, content string) (string, error) {
	f, err := os.CreateTemp(dir, base+".*")
	if err != nil {
		return "", err
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

func (c *Comparison) display(ctx context.Context, result *StepResult, stdout string) error {
	reference, err := compare.ReadLines(result.Reference)
	if err != nil {
		return err
	}

	result.Rendering = compare.SideBySide(compare.OutputLines(stdout), reference)
	result.Trail.enter(StateDisplayed)
	result.Outcome = Succeeded()

	if c.options.Viewer != nil {
		return c.options.Viewer.Show(ctx, result.Name.String()+" vs "+result.Reference, result.Rendering)
	}

	c.env.Printer.Text(result.Rendering)
	return nil
}

// Validate checks every name can be compared before anything runs
func (c *Comparison) Validate(names []testfile.Name) error {
	for _, name := range names {
		if _, _, err := c.Target(name); err != nil {
			return err
		}
	}

	return nil
}

// Run compares the files in the given order. Files that cannot be compared
// are reported and skipped. The returned error means the run was aborted.
func (c *Comparison) Run(ctx context.Context, names []testfile.Name) error {
	if err := c.Validate(names); err != nil {
		return err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		checked, err := c.runFile(ctx, name)
		if err != nil {
			return err
		}

		if checked && c.options.Pause {
			if err := c.env.Pauser.Pause(ctx, continuePrompt); err != nil {
				return err
			}
		}
	}

	if c.options.Pause {
		c.env.Printer.Println("DONE!")
	}

	return nil
}

// runFile reports whether the file was there to be checked
func (c *Comparison) runFile(ctx context.Context, name testfile.Name) (bool, error) {
	printer := c.env.Printer

	if c.options.Diff {
		if !exists(name.String()) {
			printer.Missing(name.String())
			c.recordMissing(name)
			return false, nil
		}

		printer.Printf("%v : ", name)
	} else {
		reference, err := c.ReferencePath(name)
		if err != nil {
			return false, err
		}

		printer.Println("--------------")
		printer.Println("input: " + name.String())
		printer.Println("output: " + reference)
		printer.Println()

		if !exists(name.String()) {
			printer.Missing(name.String())
			c.recordMissing(name)
			return false, nil
		}
	}

	result, err := c.Step(ctx, name)
	if err != nil {
		if fatal(ctx, err) {
			return false, err
		}

		c.env.Logger.Error("comparison failed", "file", name.String(), "error", err)
		printer.ErrorBlock(name.String(), err, programOutput(err))
		result.Outcome = Failed(err)
	}

	if !c.options.Diff {
		printer.Println()
	}

	c.env.record(report.Entry{
		File:      name.String(),
		Pass:      result.Requested.String(),
		Registers: name.Registers,
		Status:    status(result.Trail, result.Outcome),
		Detail:    result.Outcome.Detail,
	})

	return true, nil
}

func (c *Comparison) recordMissing(name testfile.Name) {
	c.env.record(report.Entry{
		File:      name.String(),
		Registers: name.Registers,
		Status:    "missing",
	})
}

func status(trail Trail, outcome Outcome) string {
	if outcome.Kind == Success && trail.Last() == StateDisplayed {
		return "displayed"
	}

	return outcome.Kind.String()
}
