// Package config holds the settings of a harness run. A Config is built once
// from flags, environment and config file when the process starts and then
// passed by value to every component.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Manu343726/passcheck/pkg/compare"
	"github.com/Manu343726/passcheck/pkg/compiler"
	"github.com/Manu343726/passcheck/pkg/metadata"
	"github.com/Manu343726/passcheck/pkg/process"
	"github.com/Manu343726/passcheck/pkg/toolchain"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Keys used in the config file, environment (PASSCHECK_<KEY>) and flags
const (
	KeyCompiler                = "compiler"
	KeyTimeout                 = "timeout"
	KeyReferenceDir            = "reference-dir"
	KeyWorkDir                 = "work-dir"
	KeyCommentPrefix           = "comment-prefix"
	KeyDiff                    = "diff"
	KeyCC                      = "cc"
	KeyRuntimeSource           = "runtime-source"
	KeyRuntimeObject           = "runtime-object"
	KeyRegs                    = "regs"
	KeyRequireSilentExecutable = "require-silent-executable"
	KeyVerbose                 = "verbose"
	KeyVeryVerbose             = "very-verbose"
	KeyQuiet                   = "quiet"
	KeyLogFile                 = "log-file"
	KeyReport                  = "report"
	KeyColor                   = "color"
	KeySeed                    = "seed"
)

const (
	DefaultReferenceDir = "reference"
	DefaultWorkDir      = "."
)

// DefaultRegisterOptions are the register restrictions the evaluation
// pipeline links programs with. The empty option leaves all registers to the
// allocator.
var DefaultRegisterOptions = []string{"", "rcx", "rbx", "rcx,rbx"}

// Verbosity of the diagnostic log
type Verbosity int

const (
	Quiet Verbosity = iota
	Verbose
	VeryVerbose
)

// Config is the immutable configuration of a run
type Config struct {
	// Compiler is the compiler under test
	Compiler string

	// Timeout bounds every external invocation
	Timeout time.Duration

	// ReferenceDir holds the accepted outputs, named `<root>.<pass>[,<regs>]`
	ReferenceDir string

	// WorkDir receives scratch and intermediate files
	WorkDir string

	// CommentPrefix starts the metadata lines of evaluation tests
	CommentPrefix string

	// DiffProgram compares generated and reference files
	DiffProgram string

	Toolchain toolchain.Config

	// RegisterOptions are the register restrictions of the assembly branch,
	// run in order
	RegisterOptions []string

	// RequireSilentExecutable makes any stdout from a built test program a
	// hard error. Programs in the language under test report their result
	// through the exit code only.
	RequireSilentExecutable bool

	Verbosity Verbosity

	// Progress disables the per step progress lines of the report when false
	Progress bool

	// Color enables colored status words on the report stream
	Color bool

	// LogFile, when set, receives the diagnostic log as JSON lines
	LogFile string

	// ReportFile, when set, receives a YAML summary of the run
	ReportFile string

	// Seed for random test sampling. Zero picks a time based seed.
	Seed int64
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Compiler:                compiler.DefaultPath,
		Timeout:                 process.DefaultTimeout,
		ReferenceDir:            DefaultReferenceDir,
		WorkDir:                 DefaultWorkDir,
		CommentPrefix:           metadata.DefaultCommentPrefix,
		DiffProgram:             compare.DefaultDiffProgram,
		Toolchain:               toolchain.Config{RuntimeSource: toolchain.DefaultRuntimeSource},
		RegisterOptions:         append([]string(nil), DefaultRegisterOptions...),
		RequireSilentExecutable: true,
		Verbosity:               Quiet,
		Progress:                true,
		Color:                   true,
	}
}

// SetDefaults registers the default values of every key in v
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault(KeyCompiler, d.Compiler)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyReferenceDir, d.ReferenceDir)
	v.SetDefault(KeyWorkDir, d.WorkDir)
	v.SetDefault(KeyCommentPrefix, d.CommentPrefix)
	v.SetDefault(KeyDiff, d.DiffProgram)
	v.SetDefault(KeyCC, "")
	v.SetDefault(KeyRuntimeSource, d.Toolchain.RuntimeSource)
	v.SetDefault(KeyRuntimeObject, "")
	v.SetDefault(KeyRegs, FormatRegisterOptions(d.RegisterOptions))
	v.SetDefault(KeyRequireSilentExecutable, d.RequireSilentExecutable)
	v.SetDefault(KeyColor, d.Color)
}

// ParseRegisterOptions splits a `;` separated list of register restrictions,
// each being a `,` separated list of register names or empty for all
// registers
func ParseRegisterOptions(s string) []string {
	options := strings.Split(s, ";")

	for i := range options {
		options[i] = strings.TrimSpace(options[i])
	}

	return options
}

func FormatRegisterOptions(options []string) string {
	return strings.Join(options, ";")
}

// Load builds the configuration from v. Arm64 selects the cross toolchain.
func Load(v *viper.Viper, arm64 bool) (Config, error) {
	c := Default()

	c.Compiler = v.GetString(KeyCompiler)
	c.Timeout = v.GetDuration(KeyTimeout)
	c.ReferenceDir = v.GetString(KeyReferenceDir)
	c.WorkDir = v.GetString(KeyWorkDir)
	c.CommentPrefix = v.GetString(KeyCommentPrefix)
	c.DiffProgram = v.GetString(KeyDiff)
	c.RegisterOptions = ParseRegisterOptions(v.GetString(KeyRegs))
	c.RequireSilentExecutable = v.GetBool(KeyRequireSilentExecutable)
	c.Progress = !v.GetBool(KeyQuiet)
	c.Color = v.GetBool(KeyColor)
	c.LogFile = v.GetString(KeyLogFile)
	c.ReportFile = v.GetString(KeyReport)
	c.Seed = v.GetInt64(KeySeed)

	switch {
	case v.GetBool(KeyVeryVerbose):
		c.Verbosity = VeryVerbose
	case v.GetBool(KeyVerbose):
		c.Verbosity = Verbose
	}

	c.Toolchain = toolchain.Config{
		CC:            v.GetString(KeyCC),
		Arm64:         arm64,
		RuntimeSource: v.GetString(KeyRuntimeSource),
		RuntimeObject: v.GetString(KeyRuntimeObject),
		WorkDir:       c.WorkDir,
		Timeout:       c.Timeout,
	}

	return c, c.Validate()
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %v must be positive, got %v", ErrInvalidConfig, KeyTimeout, c.Timeout)
	}

	if c.Compiler == "" {
		return fmt.Errorf("%w: %v is empty", ErrInvalidConfig, KeyCompiler)
	}

	if c.CommentPrefix == "" {
		return fmt.Errorf("%w: %v is empty", ErrInvalidConfig, KeyCommentPrefix)
	}

	if len(c.RegisterOptions) == 0 {
		return fmt.Errorf("%w: no register options", ErrInvalidConfig)
	}

	return nil
}
