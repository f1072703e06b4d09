// Package toolchain drives the system C toolchain used to assemble and link
// the code generated by the compiler under test.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Manu343726/passcheck/pkg/process"
)

var ErrToolchainNotFound = errors.New("C toolchain not found")

const (
	DefaultCC            = "gcc"
	DefaultArm64CC       = "clang"
	DefaultRuntimeSource = "runtime.c"
)

// Config holds configuration for the C toolchain
type Config struct {
	// CC is the C compiler driver used to assemble and link. Empty selects
	// gcc, or clang when targeting x86_64 from an arm64 host.
	CC string

	// Arm64 cross-compiles for x86_64 from an Apple arm64 host so generated
	// programs run under Rosetta
	Arm64 bool

	// RuntimeSource is the runtime support C file linked into every program
	RuntimeSource string

	// RuntimeObject is a prebuilt runtime support object. When set,
	// RuntimeSource is not compiled.
	RuntimeObject string

	// WorkDir receives the intermediate files. Empty means the current
	// directory.
	WorkDir string

	// Timeout bounds each toolchain invocation
	Timeout time.Duration
}

// Toolchain builds and runs executables from generated assembly
type Toolchain struct {
	config Config
	cc     string
}

// New returns a toolchain for the given configuration
func New(config Config) *Toolchain {
	cc := config.CC
	if cc == "" {
		cc = DefaultCC
		if config.Arm64 {
			cc = DefaultArm64CC
		}
	}

	if config.RuntimeSource == "" {
		config.RuntimeSource = DefaultRuntimeSource
	}

	return &Toolchain{config: config, cc: cc}
}

// CC returns the C compiler driver in use
func (t *Toolchain) CC() string {
	return t.cc
}

// Discover checks that the C compiler driver can be found and returns its path
func (t *Toolchain) Discover() (string, error) {
	path, err := exec.LookPath(t.cc)
	if err != nil {
		return "", fmt.Errorf("%w: %v: %v", ErrToolchainNotFound, t.cc, err)
	}

	return path, nil
}

func (t *Toolchain) command(args ...string) process.Command {
	if t.config.Arm64 {
		args = append(args, "-arch", "x86_64")
	}

	return process.New(t.cc, args...).WithTimeout(t.config.Timeout)
}

// Assemble compiles an assembly (or C) file into an object file
func (t *Toolchain) Assemble(source, object string) process.Command {
	return t.command("-c", source, "-o", object)
}

// Link links object files into an executable
func (t *Toolchain) Link(objects []string, executable string) process.Command {
	args := append(append([]string(nil), objects...), "-o", executable)
	return t.command(args...)
}

// Run runs a built executable, feeding input to it
func (t *Toolchain) Run(executable string, input string) process.Command {
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		executable = "." + string(filepath.Separator) + executable
	}

	return process.New(executable).WithStdin(input).WithTimeout(t.config.Timeout)
}

// Artifacts are the files produced while building one program
type Artifacts struct {
	Assembly      string
	Object        string
	RuntimeObject string
	Executable    string

	// Files created by the build, removed by Cleanup
	TempFiles []string
}

// Cleanup removes every file created during the build. Missing files are
// ignored, so it is safe to call after a failed build.
func (a *Artifacts) Cleanup() {
	for _, f := range a.TempFiles {
		os.Remove(f)
	}
}

func (a *Artifacts) track(path string) string {
	a.TempFiles = append(a.TempFiles, path)
	return path
}

func (t *Toolchain) workPath(name string) string {
	return filepath.Join(t.config.WorkDir, name)
}

// ArtifactName derives the base name of the intermediate files from a test
// source path: `tests/test1.src` builds `test1.s`, `test1.o` and `test1`
func ArtifactName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build writes assembly to `<name>.s`, assembles it, builds the runtime
// support object and links both into the executable `<name>`. Every step must
// be silent on stderr. The returned artifacts are never nil and must be
// cleaned up by the caller, whether the build succeeded or not.
func (t *Toolchain) Build(ctx context.Context, runner process.Runner, name string, assembly string) (*Artifacts, error) {
	artifacts := &Artifacts{}

	path := artifacts.track(t.workPath(name + ".s"))
	if err := os.WriteFile(path, []byte(assembly), 0o644); err != nil {
		return artifacts, err
	}

	return artifacts, t.build(ctx, runner, artifacts, path, name)
}

// BuildFile builds an executable from an existing assembly file. The
// assembly file itself is left in place.
func (t *Toolchain) BuildFile(ctx context.Context, runner process.Runner, assemblyPath string) (*Artifacts, error) {
	artifacts := &Artifacts{}
	return artifacts, t.build(ctx, runner, artifacts, assemblyPath, ArtifactName(assemblyPath))
}

func (t *Toolchain) build(ctx context.Context, runner process.Runner, artifacts *Artifacts, assemblyPath string, name string) error {
	artifacts.Assembly = assemblyPath

	artifacts.Object = artifacts.track(t.workPath(name + ".o"))
	if _, err := process.RunSilent(ctx, runner, "assemble", t.Assemble(artifacts.Assembly, artifacts.Object)); err != nil {
		return err
	}

	if t.config.RuntimeObject != "" {
		artifacts.RuntimeObject = t.config.RuntimeObject
	} else {
		artifacts.RuntimeObject = artifacts.track(t.workPath(ArtifactName(t.config.RuntimeSource) + ".o"))
		if _, err := process.RunSilent(ctx, runner, "compile runtime", t.Assemble(t.config.RuntimeSource, artifacts.RuntimeObject)); err != nil {
			return err
		}
	}

	artifacts.Executable = artifacts.track(t.workPath(name))
	_, err := process.RunSilent(ctx, runner, "link", t.Link([]string{artifacts.Object, artifacts.RuntimeObject}, artifacts.Executable))
	return err
}

// Execute runs a built executable. It must not write to stderr; its exit code
// and stdout are returned to the caller.
func (t *Toolchain) Execute(ctx context.Context, runner process.Runner, executable string, input string) (process.Result, error) {
	return process.RunSilent(ctx, runner, "run executable", t.Run(executable, input))
}
