package search

import (
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/charmbracelet/log"
)

type options struct {
	strategy   Strategy
	lineIndex  *index.LineIndex
	suffixTrie *index.SuffixTrie
	weight     WeightMode
	maxWordLen int
	maxRuns    int
	logger     *log.Logger
}

// DefaultMaxIndexRuns caps the runs an engine will index on its own.
// Hash keys and trie suffixes both grow with the run count, about 50 bytes
// per run, so the default keeps a built index near 200 MB.
const DefaultMaxIndexRuns = 1 << 22

// Option configures an engine at construction.
type Option func(*options)

// WithStrategy picks the presence strategy. The default is StrategyScan.
// Hash and trie structures are built on demand unless supplied with
// WithLineIndex or WithSuffixTrie.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithLineIndex supplies a prebuilt index and selects StrategyHash.
// A nil index is ignored.
func WithLineIndex(idx *index.LineIndex) Option {
	return func(o *options) {
		if idx == nil {
			return
		}
		o.lineIndex = idx
		o.strategy = StrategyHash
	}
}

// WithSuffixTrie supplies a prebuilt trie and selects StrategyTrie.
// A nil trie is ignored.
func WithSuffixTrie(st *index.SuffixTrie) Option {
	return func(o *options) {
		if st == nil {
			return
		}
		o.suffixTrie = st
		o.strategy = StrategyTrie
	}
}

// WithWeightMode selects presence weights (default) or line counts.
func WithWeightMode(m WeightMode) Option {
	return func(o *options) {
		o.weight = m
	}
}

// WithMaxWordLen drops candidates longer than n symbols before searching.
// Zero disables the cap; words longer than any line are always dropped.
func WithMaxWordLen(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxWordLen = n
	}
}

// WithMaxIndexRuns caps the grid size, measured by index.EstimateRuns, for
// which the engine builds a hash or trie index. Larger grids fall back to
// StrategyScan. n <= 0 removes the cap. Indexes supplied with WithLineIndex
// or WithSuffixTrie are used regardless.
func WithMaxIndexRuns(n int) Option {
	return func(o *options) {
		o.maxRuns = n
	}
}

// WithLogger replaces the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
