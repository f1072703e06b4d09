package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/Manu343726/passcheck/cmd/tools"
	"github.com/Manu343726/passcheck/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// usageError is returned for invalid command lines. The usage of the failing
// command is printed after it.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// NewRootCmd builds the command tree. Settings are read into v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	config.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:   "passcheck",
		Short: "Conformance tests for a multi-pass compiler",
		Long: `passcheck drives a compiler under development through its lowering passes and
checks what each pass produces, either against stored reference outputs or
against the results the test programs declare.

Settings can be given as flags, as PASSCHECK_<SETTING> environment variables
or in a .passcheck.yaml file in the home or current directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v, cfgFile)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.passcheck.yaml)")
	flags.String(config.KeyCompiler, d.Compiler, "Compiler under test")
	flags.Duration(config.KeyTimeout, d.Timeout, "Time limit of every external program run")
	flags.String(config.KeyReferenceDir, d.ReferenceDir, "Directory holding the reference outputs")
	flags.String(config.KeyWorkDir, d.WorkDir, "Directory receiving scratch and intermediate files")
	flags.String(config.KeyCommentPrefix, d.CommentPrefix, "Comment marker of the test metadata lines")
	flags.String("diff-program", d.DiffProgram, "Line based differencing program")
	flags.String(config.KeyCC, "", "C compiler driver used to assemble and link (default gcc, clang with --arm64)")
	flags.String(config.KeyRuntimeSource, d.Toolchain.RuntimeSource, "Runtime support C file linked into every program")
	flags.String(config.KeyRuntimeObject, "", "Prebuilt runtime support object. Skips compiling the runtime source.")
	flags.BoolP(config.KeyVerbose, "v", false, "Log progress to stderr")
	flags.Bool(config.KeyVeryVerbose, false, "Log every external command to stderr")
	flags.String(config.KeyLogFile, "", "Also write the log as JSON lines to this file")
	flags.String(config.KeyReport, "", "Write a YAML summary of the run to this file")
	flags.Bool(config.KeyColor, d.Color, "Color the report when stdout is a terminal")
	flags.Int64(config.KeySeed, 0, "Seed of random test sampling (default time based)")

	flags.VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
		case "diff-program":
			cobra.CheckErr(v.BindPFlag(config.KeyDiff, f))
		default:
			cobra.CheckErr(v.BindPFlag(f.Name, f))
		}
	})

	rootCmd.AddCommand(
		newCompareCmd(v),
		newEvalCmd(v),
		newAsmCmd(v),
		tools.NewToolsCmd(),
	)

	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Search config in home and current directory with name ".passcheck" (without extension).
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".passcheck")
	}

	v.SetEnvPrefix("passcheck")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}

		return nil
	}

	if v.GetBool(config.KeyVerbose) || v.GetBool(config.KeyVeryVerbose) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	}

	return nil
}

// legacyFlags are the single dash spellings still accepted on the command
// line
var legacyFlags = map[string]string{
	"-pause":    "--pause",
	"-diff":     "--diff",
	"-random":   "--random",
	"-no-asm":   "--no-asm",
	"-only-asm": "--only-asm",
	"-regs":     "--regs",
	"-arm64":    "--arm64",
}

// LegacyArgs rewrites single dash long flags to their double dash form.
// Nothing after a `--` terminator is rewritten.
func LegacyArgs(args []string) []string {
	rewritten := make([]string, len(args))

	for i, arg := range args {
		if arg == "--" {
			copy(rewritten[i:], args[i:])
			break
		}

		if long, ok := legacyFlags[arg]; ok {
			rewritten[i] = long
		} else {
			rewritten[i] = arg
		}
	}

	return rewritten
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := NewRootCmd(viper.New())
	rootCmd.SetArgs(LegacyArgs(os.Args[1:]))

	failed, err := rootCmd.ExecuteContextC(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)

		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprint(os.Stderr, failed.UsageString())
		}

		os.Exit(1)
	}
}
