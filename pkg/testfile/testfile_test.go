package testfile

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseAll(t *testing.T, paths ...string) []Name {
	t.Helper()

	names, err := ParseAll(paths)
	require.NoError(t, err)
	return names
}

func paths(names []Name) []string {
	result := make([]string, len(names))
	for i, n := range names {
		result[i] = n.Path
	}
	return result
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Name
	}{
		{
			name:     "plain",
			path:     "reference/test12.sh",
			expected: Name{Path: "reference/test12.sh", Dir: "reference", Root: "test12", Pass: "sh"},
		},
		{
			name:     "register restricted",
			path:     "reference/test3.ar,rcx,rbx",
			expected: Name{Path: "reference/test3.ar,rcx,rbx", Dir: "reference", Root: "test3", Pass: "ar", Registers: "rcx,rbx"},
		},
		{
			name:     "empty register suffix means all registers",
			path:     "test3.ar,",
			expected: Name{Path: "test3.ar,", Dir: ".", Root: "test3", Pass: "ar"},
		},
		{
			name:     "unknown pass is still a name",
			path:     "x/foo_1.zz",
			expected: Name{Path: "x/foo_1.zz", Dir: "x", Root: "foo_1", Pass: "zz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, path := range []string{"reference/test1", "reference/a-b.sh", "reference/.sh", "test1.s-h"} {
		_, err := Parse(path)
		assert.ErrorIs(t, err, ErrInvalidFilename, "path %q", path)
	}
}

func TestNameRendering(t *testing.T) {
	n, err := Parse("reference/test3.ar,rcx")
	require.NoError(t, err)

	next := n.WithPass(passes.RemoveJumps)
	assert.Equal(t, "test3.rj,rcx", next.Base())
	assert.Equal(t, "out/test3.rj,rcx", next.In("out").Path)
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, 12, Ordinal("test12"))
	assert.Equal(t, 7, Ordinal("a7b99"))
	assert.Equal(t, 0, Ordinal("noDigits"))
	assert.Equal(t, 42, Ordinal("042"))
	assert.Equal(t, math.MaxInt, Ordinal("t99999999999999999999999"))
}

func TestSortByOrdinal_OverflowSortsLast(t *testing.T) {
	paths := []string{"tests/t99999999999999999999999.src", "tests/t2.src", "tests/t10.src"}

	assert.Equal(t,
		[]string{"tests/t2.src", "tests/t10.src", "tests/t99999999999999999999999.src"},
		SortByOrdinal(paths),
	)
}

func TestKeyIsPure(t *testing.T) {
	for _, path := range []string{"reference/test12.sh", "reference/t3.ar,rcx", "reference/x.zz"} {
		a, err := Parse(path)
		require.NoError(t, err)
		b, err := Parse(path)
		require.NoError(t, err)

		assert.Equal(t, a.Key(passes.Textual), b.Key(passes.Textual))
	}
}

func TestKey(t *testing.T) {
	n, err := Parse("reference/test12.un,rbx")
	require.NoError(t, err)
	assert.Equal(t, OrderKey{Ordinal: 12, PassRank: 2, Registers: "rbx"}, n.Key(passes.Textual))

	unknown, err := Parse("reference/test12.zz")
	require.NoError(t, err)
	assert.Equal(t, passes.UnknownRank, unknown.Key(passes.Textual).PassRank)
}

func TestSortByOrder(t *testing.T) {
	names := mustParseAll(t,
		"reference/test10.sh",
		"reference/test2.zz",
		"reference/test2.un",
		"reference/test2.sh,rcx",
		"reference/test2.sh",
		"reference/test1.ar",
	)

	sorted := SortByOrder(names, passes.Textual)

	assert.Equal(t, []string{
		"reference/test1.ar",
		"reference/test2.sh",
		"reference/test2.sh,rcx",
		"reference/test2.un",
		"reference/test2.zz",
		"reference/test10.sh",
	}, paths(sorted))

	// The input is left untouched
	assert.Equal(t, "reference/test10.sh", names[0].Path)
}

func TestSortByOrder_Idempotent(t *testing.T) {
	names := mustParseAll(t, "b/t2.sh", "a/t1.un", "c/t1.lwhile", "a/t2.sh")

	once := SortByOrder(names, passes.Textual)
	twice := SortByOrder(once, passes.Textual)

	assert.Equal(t, once, twice)
}

func TestSortByOrder_IndependentOfInputOrder(t *testing.T) {
	names := mustParseAll(t, "b/t2.sh", "a/t2.sh", "t1.un")
	reversed := []Name{names[2], names[1], names[0]}

	assert.Equal(t, SortByOrder(names, passes.Textual), SortByOrder(reversed, passes.Textual))
}

func TestSampleRandom_WholeSet(t *testing.T) {
	names := mustParseAll(t, "t3.sh", "t1.sh", "t2.sh")
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, SortByOrder(names, passes.Textual), SampleRandom(names, 3, passes.Textual, rng))
	assert.Equal(t, SortByOrder(names, passes.Textual), SampleRandom(names, 10, passes.Textual, rng))
}

func TestSampleRandom_Subset(t *testing.T) {
	names := mustParseAll(t, "t1.sh", "t2.sh", "t3.sh", "t4.sh", "t5.sh", "t6.sh")

	for seed := int64(0); seed < 20; seed++ {
		sample := SampleRandom(names, 3, passes.Textual, rand.New(rand.NewSource(seed)))

		require.Len(t, sample, 3)
		assert.Equal(t, SortByOrder(sample, passes.Textual), sample, "sample is ordered")

		seen := map[string]bool{}
		for _, n := range sample {
			assert.False(t, seen[n.Path], "no replacement")
			seen[n.Path] = true
			assert.Contains(t, paths(names), n.Path)
		}
	}
}

func TestFilterCompilable(t *testing.T) {
	names := mustParseAll(t, "t1.pc", "t1.pa", "t1.pa,rcx", "t2.sh")

	assert.Equal(t, []string{"t1.pc", "t2.sh"}, paths(FilterCompilable(names, passes.Textual)))
}

func TestSortByOrdinal(t *testing.T) {
	paths := []string{"tests/t10.src", "tests2/t2.src", "tests/eval.src", "tests/t2b.src", "tests/t1.src"}

	assert.Equal(t,
		[]string{"tests/eval.src", "tests/t1.src", "tests2/t2.src", "tests/t2b.src", "tests/t10.src"},
		SortByOrdinal(paths),
	)
	assert.Equal(t, "tests/t10.src", paths[0], "input is not modified")
}
