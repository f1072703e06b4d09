package cmd

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Manu343726/passcheck/pkg/harness"
	"github.com/Manu343726/passcheck/pkg/report"
	"github.com/Manu343726/passcheck/pkg/testfile"
	"github.com/Manu343726/passcheck/pkg/toolchain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "compare flags",
			args:     []string{"compare", "-pause", "-diff", "-random", "3", "t1.sh"},
			expected: []string{"compare", "--pause", "--diff", "--random", "3", "t1.sh"},
		},
		{
			name:     "eval flags",
			args:     []string{"eval", "-no-asm", "-regs", "rcx;rbx", "-arm64", "t1.src"},
			expected: []string{"eval", "--no-asm", "--regs", "rcx;rbx", "--arm64", "t1.src"},
		},
		{
			name:     "modern flags are kept",
			args:     []string{"eval", "--only-asm", "-v", "t1.src"},
			expected: []string{"eval", "--only-asm", "-v", "t1.src"},
		},
		{
			name:     "nothing after the terminator",
			args:     []string{"compare", "-diff", "--", "-diff"},
			expected: []string{"compare", "--diff", "--", "-diff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LegacyArgs(tt.args))
		})
	}
}

func requireTools(t *testing.T, tools ...string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX environment")
	}

	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%v not found", tool)
		}
	}
}

func writeFile(t *testing.T, path string, content string, mode os.FileMode) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

type workspace struct {
	dir       string
	reference string
	work      string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()

	// Keep any user config file out of the way
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	ws := workspace{
		dir:       dir,
		reference: filepath.Join(dir, "reference"),
		work:      filepath.Join(dir, "work"),
	}
	require.NoError(t, os.MkdirAll(ws.reference, 0o755))
	require.NoError(t, os.MkdirAll(ws.work, 0o755))

	return ws
}

func (ws workspace) path(name string) string {
	return filepath.Join(ws.dir, name)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd(viper.New())
	rootCmd.SetArgs(LegacyArgs(args))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCompare_Diff(t *testing.T) {
	requireTools(t, "sh", "diff")
	ws := newWorkspace(t)

	compiler := writeFile(t, ws.path("compile"), "#!/bin/sh\necho \"pass $3\"\n", 0o755)
	writeFile(t, filepath.Join(ws.reference, "t1.un"), "pass un\n", 0o644)
	writeFile(t, filepath.Join(ws.reference, "t2.un"), "pass un\n", 0o644)
	t1 := writeFile(t, ws.path("t1.sh"), "", 0o644)
	t2 := writeFile(t, ws.path("t2.sh"), "", 0o644)
	t2pa := writeFile(t, ws.path("t2.pa"), "", 0o644)

	stdout, _, err := run(t, "compare", "-diff",
		"--compiler", compiler,
		"--reference-dir", ws.reference,
		"--work-dir", ws.work,
		t2, t2pa, t1,
	)
	require.NoError(t, err)

	assert.Equal(t, t1+" : OK\n"+t2+" : OK\n", stdout, "files are checked in order and the last pass is skipped")

	entries, err := os.ReadDir(ws.work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompare_SettingsFromEnvironment(t *testing.T) {
	requireTools(t, "sh", "diff")
	ws := newWorkspace(t)

	compiler := writeFile(t, ws.path("compile"), "#!/bin/sh\necho \"pass $3\"\n", 0o755)
	writeFile(t, filepath.Join(ws.reference, "t1.un"), "other\n", 0o644)
	t1 := writeFile(t, ws.path("t1.sh"), "", 0o644)

	t.Setenv("PASSCHECK_COMPILER", compiler)
	t.Setenv("PASSCHECK_REFERENCE_DIR", ws.reference)
	t.Setenv("PASSCHECK_WORK_DIR", ws.work)

	stdout, _, err := run(t, "compare", "--diff", t1)
	require.NoError(t, err, "mismatches are not failures")

	assert.Equal(t, t1+" : DIFFERENT\n----\n1c1\n< pass un\n---\n> other\n----\n", stdout)
}

func TestCompare_Visual(t *testing.T) {
	requireTools(t, "sh")
	ws := newWorkspace(t)

	compiler := writeFile(t, ws.path("compile"), "#!/bin/sh\necho \"pass $3\"\n", 0o755)
	writeFile(t, filepath.Join(ws.reference, "t1.un"), "pass un\n", 0o644)
	t1 := writeFile(t, ws.path("t1.sh"), "", 0o644)
	summary := ws.path("summary.yaml")

	stdout, _, err := run(t, "compare", "-pause",
		"--compiler", compiler,
		"--reference-dir", ws.reference,
		"--work-dir", ws.work,
		"--report", summary,
		t1,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "--------------\ninput: "+t1+"\noutput: "+filepath.Join(ws.reference, "t1.un")+"\n\n# Student version."))
	assert.True(t, strings.HasSuffix(stdout, "DONE!\n"))

	s, err := report.ReadSummary(summary)
	require.NoError(t, err)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, "displayed", s.Entries[0].Status)
	assert.Equal(t, "passcheck compare", s.Command)
}

func TestCompare_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		usage    bool
		expected error
	}{
		{
			name:  "no files",
			args:  []string{"compare"},
			usage: true,
		},
		{
			name:  "random must be positive",
			args:  []string{"compare", "-random", "0", "t1.sh"},
			usage: true,
		},
		{
			name:  "random must be a number",
			args:  []string{"compare", "-random", "many", "t1.sh"},
			usage: true,
		},
		{
			name:  "only files of the last pass",
			args:  []string{"compare", "t1.pa", "t2.pa,rcx"},
			usage: true,
		},
		{
			name:     "invalid filename",
			args:     []string{"compare", "notatest"},
			expected: testfile.ErrInvalidFilename,
		},
		{
			name:     "invalid pass",
			args:     []string{"compare", "t1.zz"},
			expected: harness.ErrInvalidPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newWorkspace(t)

			_, _, err := run(t, tt.args...)
			require.Error(t, err)

			var usage usageError
			assert.Equal(t, tt.usage, errors.As(err, &usage))
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestEval_NoAsm(t *testing.T) {
	requireTools(t, "sh", "cat")
	ws := newWorkspace(t)

	compiler := writeFile(t, ws.path("compile"), "#!/bin/sh\ncat\n", 0o755)
	good := writeFile(t, ws.path("t2.src"), "; INPUT: 5; 7\n; OUTPUT: 5; 7\n(program)\n", 0o644)
	broken := writeFile(t, ws.path("t10.src"), "; INPUT: 5; 7\n; OUTPUT: 5\n(program)\n", 0o644)
	summary := ws.path("summary.yaml")

	stdout, _, err := run(t, "eval", "-no-asm", "--quiet",
		"--compiler", compiler,
		"--work-dir", ws.work,
		"--report", summary,
		broken, good,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "\n==================================\n\n"+broken+": ERROR: malformed metadata"))
	assert.NotContains(t, stdout, "MISMATCH")

	s, err := report.ReadSummary(summary)
	require.NoError(t, err)
	assert.Equal(t, 26, s.Totals["success"], "13 passes for each of the 2 cases")
	assert.Equal(t, 1, s.Totals["error"])
	assert.Equal(t, good, s.Entries[0].File, "files run in test number order")
}

func TestEval_FlagsAreExclusive(t *testing.T) {
	newWorkspace(t)

	_, _, err := run(t, "eval", "-no-asm", "-only-asm", "t1.src")
	assert.Error(t, err)
}

// fakeCC builds every requested output as a shell script that prints hi and
// exits with 3
const fakeCC = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
	if [ "$1" = "-o" ]; then
		out="$2"
		shift
	fi
	shift
done
printf '#!/bin/sh\necho hi\nexit 3\n' > "$out"
chmod +x "$out"
`

func TestAsm(t *testing.T) {
	requireTools(t, "sh", "chmod")
	ws := newWorkspace(t)

	cc := writeFile(t, ws.path("fakecc"), fakeCC, 0o755)
	source := writeFile(t, ws.path("prog.s"), "\t.globl main\n", 0o644)

	stdout, _, err := run(t, "asm",
		"--cc", cc,
		"--work-dir", ws.work,
		"--runtime-source", ws.path("runtime.c"),
		source,
	)
	require.NoError(t, err)

	assert.Equal(t, "OUTPUT (stdout):\n----\nhi\n\n----\nOUTPUT (return code): 3\n", stdout)

	entries, err := os.ReadDir(ws.work)
	require.NoError(t, err)
	assert.Empty(t, entries, "objects and executable are removed")

	_, err = os.Stat(source)
	assert.NoError(t, err, "the assembly file is kept")
}

func TestAsm_RequiresOneFile(t *testing.T) {
	newWorkspace(t)

	_, _, err := run(t, "asm")
	var usage usageError
	assert.True(t, errors.As(err, &usage))
}

func TestSummaryWriteErrorsAreReported(t *testing.T) {
	requireTools(t, "sh", "chmod")
	ws := newWorkspace(t)

	cc := writeFile(t, ws.path("fakecc"), fakeCC, 0o755)
	source := writeFile(t, ws.path("prog.s"), "\t.globl main\n", 0o644)
	unwritable := filepath.Join(ws.path("missing-dir"), "summary.yaml")

	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{
			name: "asm",
			args: []string{"asm", "--cc", cc, "--work-dir", ws.work, "--runtime-source", ws.path("runtime.c"), source},
		},
		{
			name:     "eval without a toolchain",
			args:     []string{"eval", "--cc", ws.path("no-such-cc"), "--work-dir", ws.work, ws.path("t1.src")},
			expected: toolchain.ErrToolchainNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append(tt.args, "--report", unwritable)...)
			require.Error(t, err)

			assert.ErrorIs(t, err, fs.ErrNotExist, "the summary could not be written")
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}
