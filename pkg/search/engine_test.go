package search

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func mustGrid(t testing.TB, rows ...string) *grid.Grid {
	t.Helper()
	g, err := grid.New(rows)
	require.NoError(t, err)
	return g
}

func words(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Word
	}
	return out
}

// finders returns one engine per strategy plus concurrent variants.
func finders(g *grid.Grid, opts ...Option) map[string]Finder {
	out := make(map[string]Finder)
	for _, s := range []Strategy{StrategyScan, StrategyHash, StrategyTrie} {
		o := append(slices.Clone(opts), WithStrategy(s))
		out[s.String()] = NewEngine(g, o...)
		for _, w := range []int{1, 3, 8} {
			out[fmt.Sprintf("%s/concurrent-%d", s, w)] = NewConcurrentEngine(g, w, o...)
		}
	}
	return out
}

func TestFindCatsGrid(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	candidates := []string{"cat", "dog", "rat", "ice", "fox"}

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			got := f.Find(candidates, 10)
			assert.Equal(t, []Match{
				{Word: "cat", Weight: 1},
				{Word: "dog", Weight: 1},
				{Word: "rat", Weight: 1},
				{Word: "ice", Weight: 1},
			}, got)
		})
	}
}

func TestFindEdgeCases(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, f.Find(nil, 10))
			assert.Empty(t, f.Find([]string{}, 10))
			assert.Empty(t, f.Find([]string{"cat", "dog"}, 0))
			assert.Empty(t, f.Find([]string{"cat", "dog"}, -3))
			assert.Empty(t, f.Find([]string{"lion", "tiger", "bear"}, 10))
			assert.Empty(t, f.Find([]string{"", "catsdogsrats"}, 10))
			assert.NotNil(t, f.Find(nil, 0))
		})
	}
}

func TestFindSingleRow(t *testing.T) {
	g := mustGrid(t, "abc")

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			got := f.Find([]string{"ab", "b", "abcd", "ba"}, 10)
			assert.Equal(t, []string{"ab", "b"}, words(got))
		})
	}
}

func TestFindDeduplicates(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	stream := []string{"dog", "cat", "dog", "dog", "fox", "cat", "ice"}

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			got := f.Find(stream, 10)
			assert.Equal(t, []string{"dog", "cat", "ice"}, words(got))
			for _, m := range got {
				assert.Equal(t, 1, m.Weight)
			}
		})
	}
}

func TestFindTruncatesToK(t *testing.T) {
	g := mustGrid(t, "abcgc", "fgwio", "chill", "pqnsd", "uvdxy")
	stream := []string{"a", "b", "c", "g", "f", "w", "i", "o", "h", "l", "p", "q", "n"}

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			got := f.Find(stream, 10)
			require.Len(t, got, 10)
			assert.Equal(t, stream[:10], words(got))

			assert.Equal(t, stream[:3], words(f.Find(stream, 3)))
		})
	}
}

func TestFindOriginalExample(t *testing.T) {
	g := mustGrid(t, "abcgc", "fgwio", "chill", "pqnsd", "uvdxy")

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			got := f.Find([]string{"cold", "wind", "snow", "chill"}, 10)
			assert.Equal(t, []string{"cold", "wind", "chill"}, words(got))
		})
	}
}

func TestWeightLines(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	stream := []string{"cat", "ats", "s", "fox", "ice"}

	for name, f := range finders(g, WithWeightMode(WeightLines)) {
		t.Run(name, func(t *testing.T) {
			got := f.Find(stream, 10)
			assert.Equal(t, []Match{
				{Word: "s", Weight: 4},
				{Word: "ats", Weight: 2},
				{Word: "cat", Weight: 1},
				{Word: "ice", Weight: 1},
			}, got)
		})
	}
}

func TestMaxWordLen(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")

	for name, f := range finders(g, WithMaxWordLen(3)) {
		t.Run(name, func(t *testing.T) {
			got := f.Find([]string{"cats", "cat", "mice", "ice"}, 10)
			assert.Equal(t, []string{"cat", "ice"}, words(got))
		})
	}
}

func TestInvalidUTF8IsDropped(t *testing.T) {
	g := mustGrid(t, "ñb", "cd")

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, f.Find([]string{"\xc3", "b\xb1"}, 10))
			assert.Equal(t, []string{"ñb"}, words(f.Find([]string{"ñb"}, 10)))
		})
	}
}

func TestIdempotent(t *testing.T) {
	g := mustGrid(t, "abcgc", "fgwio", "chill", "pqnsd", "uvdxy")
	stream := []string{"chill", "gc", "fgw", "nope", "cfcpu", "dx", "xy"}

	for name, f := range finders(g) {
		t.Run(name, func(t *testing.T) {
			first := f.Find(stream, 4)
			second := f.Find(stream, 4)
			assert.Equal(t, first, second)
		})
	}
}

func TestOrientationSymmetry(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	rows := randomRows(rng, 7, 5, "abcd")
	g := mustGrid(t, rows...)
	tg := g.Transpose()

	stream := randomWords(rng, 200, 4, "abcd")

	for _, s := range []Strategy{StrategyScan, StrategyHash, StrategyTrie} {
		t.Run(s.String(), func(t *testing.T) {
			a := words(NewEngine(g, WithStrategy(s)).Find(stream, len(stream)))
			b := words(NewEngine(tg, WithStrategy(s)).Find(stream, len(stream)))
			assert.Equal(t, a, b)
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))

	for trial := 0; trial < 10; trial++ {
		rows := randomRows(rng, 1+rng.IntN(8), 1+rng.IntN(8), "abc")
		g := mustGrid(t, rows...)
		stream := randomWords(rng, 100, 6, "abc")

		for _, mode := range []WeightMode{WeightPresence, WeightLines} {
			want := NewEngine(g, WithWeightMode(mode)).Find(stream, 1000)
			for name, f := range finders(g, WithWeightMode(mode)) {
				require.Equal(t, want, f.Find(stream, 1000), "%s on %v (%s)", name, rows, mode)
			}
		}
	}
}

func TestResultBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 8))
	g := mustGrid(t, randomRows(rng, 6, 6, "ab")...)
	stream := randomWords(rng, 80, 4, "ab")

	found := NewEngine(g).Find(stream, len(stream))
	for k := 0; k < 12; k++ {
		got := NewEngine(g).Find(stream, k)
		assert.LessOrEqual(t, len(got), min(k, len(found)))
	}
}

func TestPrebuiltIndexes(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	idx := index.Build(g)
	st := index.BuildTrie(g)

	e := NewEngine(g, WithLineIndex(idx))
	assert.Equal(t, StrategyHash, e.Strategy())
	assert.Same(t, idx, e.probe)

	e = NewEngine(g, WithSuffixTrie(st))
	assert.Equal(t, StrategyTrie, e.Strategy())
	assert.Same(t, st, e.probe)

	e = NewEngine(g, WithLineIndex(nil))
	assert.Equal(t, StrategyScan, e.Strategy())

	// An index for another grid is never used.
	other := mustGrid(t, "zz")
	e = NewEngine(other, WithLineIndex(idx))
	assert.NotSame(t, idx, e.probe)
	assert.Empty(t, e.Find([]string{"cat"}, 10))
	assert.Len(t, e.Find([]string{"zz"}, 10), 1)
}

func TestIndexRunCap(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	stream := []string{"cat", "dog", "rat", "ice", "fox"}
	want := NewEngine(g).Find(stream, 10)

	// 4x4 grid: 8 lines of 10 runs each
	require.Equal(t, 80, index.EstimateRuns(g))

	for _, s := range []Strategy{StrategyHash, StrategyTrie} {
		t.Run(s.String(), func(t *testing.T) {
			capped := NewEngine(g, WithStrategy(s), WithMaxIndexRuns(79))
			assert.Equal(t, StrategyScan, capped.Strategy())
			assert.Equal(t, want, capped.Find(stream, 10))
			assert.NotContains(t, capped.Stats(), "indexRuns")

			ce := NewConcurrentEngine(g, 2, WithStrategy(s), WithMaxIndexRuns(79))
			assert.Equal(t, StrategyScan, ce.Strategy())
			assert.Equal(t, want, ce.Find(stream, 10))

			assert.Equal(t, s, NewEngine(g, WithStrategy(s), WithMaxIndexRuns(80)).Strategy())
			assert.Equal(t, s, NewEngine(g, WithStrategy(s), WithMaxIndexRuns(0)).Strategy())
		})
	}

	// prebuilt indexes are used whatever their size
	idx := index.Build(g)
	e := NewEngine(g, WithLineIndex(idx), WithMaxIndexRuns(1))
	assert.Equal(t, StrategyHash, e.Strategy())
	assert.Same(t, idx, e.probe)
}

func TestDefaultIndexRunCap(t *testing.T) {
	rows := make([]string, 256)
	for i := range rows {
		rows[i] = strings.Repeat("ab", 128)
	}
	g := mustGrid(t, rows...)
	require.Greater(t, index.EstimateRuns(g), DefaultMaxIndexRuns)

	e := NewEngine(g, WithStrategy(StrategyHash))
	assert.Equal(t, StrategyScan, e.Strategy())
	assert.Equal(t, []string{"abab", "aaa"}, words(e.Find([]string{"abab", "aaa", "aba_"}, 10)))
}

func TestParse(t *testing.T) {
	for _, name := range []string{"scan", "hash", "trie", "HASH"} {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(name), s.String())
	}
	_, err := ParseStrategy("bloom")
	assert.Error(t, err)

	m, err := ParseWeightMode("lines")
	require.NoError(t, err)
	assert.Equal(t, WeightLines, m)
	m, err = ParseWeightMode("")
	require.NoError(t, err)
	assert.Equal(t, WeightPresence, m)
	_, err = ParseWeightMode("positions")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	g := mustGrid(t, "cats", "dogs", "rats", "mice")
	e := NewEngine(g, WithStrategy(StrategyHash))
	e.Find([]string{"cat", "cat", "fox"}, 10)

	stats := e.Stats()
	assert.Equal(t, 4, stats["rows"])
	assert.Equal(t, 8, stats["lines"])
	assert.Equal(t, 1, stats["finds"])
	assert.Equal(t, 2, stats["wordsProbed"])
	assert.Contains(t, stats, "indexRuns")

	ce := NewConcurrentEngine(g, 2)
	assert.Equal(t, 2, ce.Stats()["workers"])
}

func randomRows(rng *rand.Rand, rows, cols int, alphabet string) []string {
	out := make([]string, rows)
	for i := range out {
		out[i] = randomString(rng, cols, alphabet)
	}
	return out
}

func randomWords(rng *rand.Rand, n, maxLen int, alphabet string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = randomString(rng, 1+rng.IntN(maxLen), alphabet)
	}
	return out
}

func randomString(rng *rand.Rand, n int, alphabet string) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}
