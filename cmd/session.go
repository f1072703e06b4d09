package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Manu343726/passcheck/pkg/config"
	"github.com/Manu343726/passcheck/pkg/harness"
	"github.com/Manu343726/passcheck/pkg/logging"
	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// session is the state shared by the commands that run tests
type session struct {
	config config.Config
	env    harness.Env
	logger *slog.Logger

	logCloser io.Closer
}

func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func newSession(cmd *cobra.Command, v *viper.Viper, arm64 bool) (*session, error) {
	c, err := config.Load(v, arm64)
	if err != nil {
		return nil, err
	}

	if !isTerminal(cmd.OutOrStdout()) {
		c.Color = false
	}

	logger, closer, err := logging.New(c, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &session{
		config: c,
		logger: logger,
		env: harness.Env{
			Runner:  process.Logged(process.ExecRunner{}, logger),
			Printer: report.NewPrinter(cmd.OutOrStdout(), c.Color),
			Logger:  logger,
			Summary: report.NewSummary(cmd.CommandPath(), time.Now()),
			Pauser:  harness.NoPause{},
		},
		logCloser: closer,
	}, nil
}

// enablePause waits for the user between files, when there is a user to
// wait for
func (s *session) enablePause(cmd *cobra.Command) bool {
	in := cmd.InOrStdin()

	if in == os.Stdin && !isTerminal(in) {
		s.logger.Warn("stdin is not a terminal, not pausing")
		return false
	}

	s.env.Pauser = &harness.LinePauser{In: in, Out: cmd.OutOrStdout()}
	return true
}

// close writes the run summary and releases the log file
func (s *session) close() error {
	summary := s.env.Summary
	summary.Finished = time.Now()

	attrs := []any{"duration", summary.Finished.Sub(summary.Started)}
	for _, status := range summary.Statuses() {
		attrs = append(attrs, status, summary.Count(status))
	}
	s.logger.Info("run finished", attrs...)

	var err error
	if s.config.ReportFile != "" {
		err = summary.WriteFile(s.config.ReportFile)
	}

	if closeErr := s.logCloser.Close(); err == nil {
		err = closeErr
	}

	return err
}

// finish closes the session and returns err together with any error from
// writing the summary or closing the log
func (s *session) finish(err error) error {
	return errors.Join(err, s.close())
}
