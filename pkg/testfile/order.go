package testfile

import (
	"math"
	"math/rand"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Manu343726/passcheck/pkg/passes"
	"github.com/Manu343726/passcheck/pkg/utils"
)

// OrderKey sorts test files by test number, then pass, then register set
type OrderKey struct {
	Ordinal   int
	PassRank  int
	Registers string
}

// Compare returns -1, 0 or 1 as a sorts before, with or after b
func (a OrderKey) Compare(b OrderKey) int {
	switch {
	case a.Ordinal != b.Ordinal:
		return compareInts(a.Ordinal, b.Ordinal)
	case a.PassRank != b.PassRank:
		return compareInts(a.PassRank, b.PassRank)
	default:
		return strings.Compare(a.Registers, b.Registers)
	}
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Ordinal returns the first run of digits found in s, or 0 if there is none.
// Numbers too big for an int are clamped to math.MaxInt.
func Ordinal(s string) int {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0
	}

	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		// Only possible on overflow. Such numbers sort last.
		return math.MaxInt
	}

	return n
}

// Key computes the order key of the file. Passes unknown to seq rank last.
func (n Name) Key(seq passes.Sequence) OrderKey {
	return OrderKey{
		Ordinal:   Ordinal(n.Root),
		PassRank:  seq.Rank(n.Pass),
		Registers: n.Registers,
	}
}

// SortByOrder returns the names sorted by order key. Names with equal keys
// are sorted by path so the result only depends on the set of names.
func SortByOrder(names []Name, seq passes.Sequence) []Name {
	sorted := slices.Clone(names)

	slices.SortStableFunc(sorted, func(a, b Name) int {
		if c := a.Key(seq).Compare(b.Key(seq)); c != 0 {
			return c
		}

		return strings.Compare(a.String(), b.String())
	})

	return sorted
}

// SampleRandom picks n names at random, without replacement, and returns them
// in order. If n covers the whole set all names are returned in order.
func SampleRandom(names []Name, n int, seq passes.Sequence, rng *rand.Rand) []Name {
	if n >= len(names) {
		return SortByOrder(names, seq)
	}

	shuffled := slices.Clone(names)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return SortByOrder(shuffled[:n], seq)
}

// FilterCompilable drops the files whose pass is the last pass of seq, since
// there is no later pass to produce their expected output
func FilterCompilable(names []Name, seq passes.Sequence) []Name {
	terminal := seq.Terminal().String()

	return utils.Filter(names, func(n Name) bool {
		return n.Pass != terminal
	})
}

// ParseAll parses every path, failing on the first invalid one
func ParseAll(paths []string) ([]Name, error) {
	names := make([]Name, 0, len(paths))

	for _, path := range paths {
		name, err := Parse(path)
		if err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, nil
}

// SortByOrdinal sorts test source paths by the first number in their file
// name. Paths with the same number keep their relative order.
func SortByOrdinal(paths []string) []string {
	sorted := slices.Clone(paths)

	slices.SortStableFunc(sorted, func(a, b string) int {
		return compareInts(Ordinal(filepath.Base(a)), Ordinal(filepath.Base(b)))
	})

	return sorted
}
