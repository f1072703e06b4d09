package harness

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/report"
)

var ErrInvalidPass = errors.New("invalid input pass")

// Pauser waits for the user between test files
type Pauser interface {
	Pause(ctx context.Context, prompt string) error
}

// Viewer shows a rendered comparison to the user
type Viewer interface {
	Show(ctx context.Context, title string, text string) error
}

// Env groups what the pipelines talk to
type Env struct {
	Runner  process.Runner
	Printer *report.Printer
	Logger  *slog.Logger

	// Summary, when set, receives one entry per checked step
	Summary *report.Summary

	// Pauser is required when pausing between files is enabled
	Pauser Pauser
}

func (e Env) record(entry report.Entry) {
	if e.Summary != nil {
		e.Summary.Add(entry)
	}
}

// LinePauser waits for a line on its input
type LinePauser struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (p *LinePauser) Pause(ctx context.Context, prompt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	fmt.Fprint(p.Out, prompt)

	_, err := p.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// NoPause never waits
type NoPause struct{}

func (NoPause) Pause(context.Context, string) error { return nil }

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// programOutput returns what a program wrote to a stream it should have left
// empty, if that is what err is about
func programOutput(err error) string {
	var outputErr *process.OutputError
	if errors.As(err, &outputErr) {
		return outputErr.Text
	}

	return ""
}

// fatal errors stop the whole run instead of the current test file
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, ErrInvalidPass)
}
