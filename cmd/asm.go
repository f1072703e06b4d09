package cmd

import (
	"fmt"

	"github.com/Manu343726/passcheck/pkg/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAsmCmd(v *viper.Viper) *cobra.Command {
	var (
		arm64 bool
		input string
	)

	asmCmd := &cobra.Command{
		Use:   "asm [--arm64] file.s",
		Short: "Build an assembly file with the runtime and run it",
		Long: `Assembles the given file, links it with the runtime support object and runs
the program, printing what it writes to stdout and its return code. The
intermediate object files and the executable are removed afterwards.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("expected exactly one assembly file, got %v", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := newSession(cmd, v, arm64)
			if err != nil {
				return err
			}
			defer func() { err = s.finish(err) }()

			tc := toolchain.New(s.config.Toolchain)

			artifacts, err := tc.BuildFile(cmd.Context(), s.env.Runner, args[0])
			defer artifacts.Cleanup()
			if err != nil {
				return err
			}

			result, err := tc.Execute(cmd.Context(), s.env.Runner, artifacts.Executable, input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Stdout != "" {
				fmt.Fprintln(out, "OUTPUT (stdout):")
				fmt.Fprintln(out, "----")
				fmt.Fprintln(out, result.Stdout)
				fmt.Fprintln(out, "----")
			}

			fmt.Fprintf(out, "OUTPUT (return code): %v\n", result.ExitCode)
			return nil
		},
	}

	asmCmd.Flags().BoolVar(&arm64, "arm64", false, "Build an x86_64 program on an arm64 host (clang -arch x86_64)")
	asmCmd.Flags().StringVar(&input, "input", "", "Text fed to the program's standard input")

	return asmCmd
}
