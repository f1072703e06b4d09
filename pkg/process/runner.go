package process

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Manu343726/passcheck/pkg/utils"
)

// Time given to a killed process to release its output pipes
const waitDelay = time.Second

// Result is what an external program left behind once it finished
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner executes commands. Implementations block until the program exits or
// its timeout elapses.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, c Command) (Result, error)

func (f RunnerFunc) Run(ctx context.Context, c Command) (Result, error) {
	return f(ctx, c)
}

// ExecRunner runs commands as host processes. A non-zero exit status is not an
// error, it is reported in Result.ExitCode. A timeout kills the process and
// everything it spawned and returns a *TimeoutError.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Program == "" {
		return Result{}, ErrEmptyCommand
	}

	timeout := c.timeout()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 -- programs come from the harness configuration
	cmd := exec.CommandContext(runCtx, c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(c.Stdin)
	cmd.WaitDelay = waitDelay
	killWholeGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1
		return result, &TimeoutError{Command: c, Timeout: timeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, utils.MakeError(ErrStart, "%v: %v", c.Program, err)
}

// RunSilent runs a command that must not write anything to its standard
// error. Any stderr text is returned as an *OutputError naming stage.
func RunSilent(ctx context.Context, runner Runner, stage string, c Command) (Result, error) {
	result, err := runner.Run(ctx, c)
	if err != nil {
		return result, err
	}

	if result.Stderr != "" {
		return result, &OutputError{
			Stage:   stage,
			Stream:  "stderr",
			Text:    result.Stderr,
			Command: c,
		}
	}

	return result, nil
}

type loggedRunner struct {
	runner Runner
	logger *slog.Logger
}

// Logged wraps a runner so every command and its outcome are logged at debug
// level
func Logged(runner Runner, logger *slog.Logger) Runner {
	return &loggedRunner{runner: runner, logger: logger}
}

func (r *loggedRunner) Run(ctx context.Context, c Command) (Result, error) {
	r.logger.DebugContext(ctx, "running command", "command", c.String(), "dir", c.Dir)

	result, err := r.runner.Run(ctx, c)
	if err != nil {
		r.logger.DebugContext(ctx, "command failed", "command", c.Program, "error", err)
		return result, err
	}

	r.logger.DebugContext(ctx, "command finished",
		"command", c.Program,
		"exit", result.ExitCode,
		"stdout_bytes", len(result.Stdout),
		"stderr_bytes", len(result.Stderr),
		"duration", result.Duration,
	)

	return result, nil
}
