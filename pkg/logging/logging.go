// Package logging sets up the diagnostic log of a run. Diagnostics go to
// stderr as text and, optionally, to a file as JSON lines. The test report
// itself is not a log and is written to stdout by the harness.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/passcheck/pkg/config"
	slogmulti "github.com/samber/slog-multi"
)

// Level maps the configured verbosity to a log level. Commands are logged at
// debug level, progress at info level.
func Level(v config.Verbosity) slog.Level {
	switch v {
	case config.VeryVerbose:
		return slog.LevelDebug
	case config.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New returns a logger writing to stderr and, if configured, to the log file.
// The returned closer releases the log file.
func New(c config.Config, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level := Level(c.Verbosity)
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}

	var closer io.Closer = nopCloser{}

	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}

		// The file keeps everything, regardless of the console verbosity
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
