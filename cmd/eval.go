package cmd

import (
	"github.com/Manu343726/passcheck/pkg/config"
	"github.com/Manu343726/passcheck/pkg/harness"
	"github.com/Manu343726/passcheck/pkg/testfile"
	"github.com/Manu343726/passcheck/pkg/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newEvalCmd(v *viper.Viper) *cobra.Command {
	var (
		noAsm   bool
		onlyAsm bool
		arm64   bool
		pause   bool
	)

	evalCmd := &cobra.Command{
		Use:   "eval [--no-asm | --only-asm] [--regs 'r1;r2,r3'] [--arm64] file...",
		Short: "Run evaluation tests on every pass and on native programs",
		Long: `Test sources declare their cases in their leading comment lines:

  ; INPUT: 1 2; 3
  ; OUTPUT: 3; 3

Every case is evaluated with the compiler up to each evaluable pass, and its
output must match. The program is also compiled to assembly once per register
restriction, linked with the runtime support object and run; its exit code must
be the expected output and it must print nothing.`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, arm64)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed(config.KeyRegs) {
				s.logger.Info("register options", "regs", s.config.RegisterOptions)
			}

			if !noAsm {
				cc, err := toolchain.New(s.config.Toolchain).Discover()
				if err != nil {
					return s.finish(err)
				}
				s.logger.Debug("using C toolchain", "cc", cc)
			}

			options := harness.EvaluationOptions{NoAsm: noAsm, OnlyAsm: onlyAsm}
			if pause {
				options.Pause = s.enablePause(cmd)
			}

			return s.finish(harness.NewEvaluation(s.config, s.env, options).Run(cmd.Context(), testfile.SortByOrdinal(args)))
		},
	}

	evalCmd.Flags().BoolVar(&noAsm, "no-asm", false, "Only evaluate with the compiler, do not build native programs")
	evalCmd.Flags().BoolVar(&onlyAsm, "only-asm", false, "Only build and run native programs")
	evalCmd.Flags().BoolVar(&arm64, "arm64", false, "Build x86_64 programs on an arm64 host (clang -arch x86_64)")
	evalCmd.Flags().BoolVar(&pause, "pause", false, "Wait for <return> after each file")
	evalCmd.Flags().String(config.KeyRegs, config.FormatRegisterOptions(config.DefaultRegisterOptions), "Semicolon separated register restrictions of native programs")
	evalCmd.Flags().BoolP(config.KeyQuiet, "q", false, "Do not print progress lines")
	evalCmd.MarkFlagsMutuallyExclusive("no-asm", "only-asm")

	cobra.CheckErr(v.BindPFlag(config.KeyRegs, evalCmd.Flags().Lookup(config.KeyRegs)))
	cobra.CheckErr(v.BindPFlag(config.KeyQuiet, evalCmd.Flags().Lookup(config.KeyQuiet)))

	return evalCmd
}
