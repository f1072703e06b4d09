package cmd

import (
	"math/rand"
	"os"
	"time"

	"github.com/Manu343726/passcheck/pkg/harness"
	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/testfile"
	"github.com/Manu343726/passcheck/pkg/viewer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func requireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usagef("no input files")
	}

	return nil
}

func newCompareCmd(v *viper.Viper) *cobra.Command {
	var (
		pause  bool
		diff   bool
		random int
		view   bool
	)

	compareCmd := &cobra.Command{
		Use:   "compare [--pause] [--diff] [--random n] filename...",
		Short: "Compare the output of one pass with the reference outputs",
		Long: `Each input file root.P[,regs] holds a program as it is after pass P. The
compiler is run on it with the pass that follows P and its output is compared
with reference/root.next(P)[,regs].

By default both versions are shown side by side. With --diff they are compared
with the diff program and only differences are shown. Files of the last pass
are skipped, as no pass follows it.`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("random") && random <= 0 {
				return usagef("`--random` argument must be a positive integer")
			}

			names, err := testfile.ParseAll(args)
			if err != nil {
				return err
			}

			names = testfile.SortByOrder(testfile.FilterCompilable(names, passes.Textual), passes.Textual)
			if len(names) == 0 {
				return usagef("no input files left once files of the last pass are skipped")
			}

			s, err := newSession(cmd, v, false)
			if err != nil {
				return err
			}

			if random > 0 {
				seed := s.config.Seed
				if seed == 0 {
					seed = time.Now().UnixNano()
				}

				s.logger.Info("sampling test files", "count", random, "seed", seed)
				names = testfile.SampleRandom(names, random, passes.Textual, rand.New(rand.NewSource(seed)))
			}

			options := harness.ComparisonOptions{Diff: diff}
			if pause {
				options.Pause = s.enablePause(cmd)
			}

			if view && !diff {
				if viewer.Interactive(os.Stdin, os.Stdout) {
					options.Viewer = viewer.New()
				} else {
					s.logger.Warn("not a terminal, printing comparisons instead of viewing them")
				}
			}

			return s.finish(harness.NewComparison(s.config, s.env, options).Run(cmd.Context(), names))
		},
	}

	compareCmd.Flags().BoolVar(&pause, "pause", false, "Wait for <return> after each file")
	compareCmd.Flags().BoolVar(&diff, "diff", false, "Compare with the diff program instead of showing outputs side by side")
	compareCmd.Flags().IntVar(&random, "random", 0, "Check only n files picked at random")
	compareCmd.Flags().BoolVar(&view, "view", false, "Show side by side comparisons in a scrollable pager")

	return compareCmd
}
