package search

import (
	"iter"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/bastiangx/wordgrid/internal/logger"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/charmbracelet/log"
)

// Engine searches a single grid on the calling goroutine.
// It holds no mutable search state, so concurrent Find calls are safe.
type Engine struct {
	grid       *grid.Grid
	probe      prober
	strategy   Strategy
	weight     WeightMode
	maxWordLen int
	log        *log.Logger

	finds  atomic.Int64
	probed atomic.Int64
}

// NewEngine binds an engine to g. Any index the chosen strategy needs and
// that was not supplied is built here, once.
func NewEngine(g *grid.Grid, opts ...Option) *Engine {
	o := options{maxRuns: DefaultMaxIndexRuns}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.New("search")
	}

	if o.lineIndex != nil && o.lineIndex.Grid() != g {
		o.logger.Warn("Line index belongs to another grid, rebuilding")
		o.lineIndex = nil
	}
	if o.suffixTrie != nil && o.suffixTrie.Grid() != g {
		o.logger.Warn("Suffix trie belongs to another grid, rebuilding")
		o.suffixTrie = nil
	}

	strategy := o.strategy
	if needsIndex(strategy, o) && o.maxRuns > 0 {
		if runs := index.EstimateRuns(g); runs > o.maxRuns {
			o.logger.Warn("Grid too large to index, falling back to scan",
				"strategy", strategy,
				"runs", runs,
				"maxRuns", o.maxRuns)
			strategy = StrategyScan
		}
	}

	e := &Engine{
		grid:       g,
		probe:      newProber(g, strategy, o.lineIndex, o.suffixTrie),
		strategy:   strategy,
		weight:     o.weight,
		maxWordLen: o.maxWordLen,
		log:        o.logger,
	}
	e.log.Debug("Engine ready",
		"rows", g.RowCount(),
		"cols", g.ColCount(),
		"strategy", e.strategy,
		"weight", e.weight)
	return e
}

// needsIndex reports whether strategy would build an index from scratch.
func needsIndex(s Strategy, o options) bool {
	switch s {
	case StrategyHash:
		return o.lineIndex == nil
	case StrategyTrie:
		return o.suffixTrie == nil
	}
	return false
}

// Grid returns the grid the engine searches.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Strategy returns the active presence strategy, which is StrategyScan
// when the requested index would have exceeded the run cap.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Find deduplicates words, keeps those present in some row or column and
// returns the k heaviest. Ties keep the order words were first seen in.
func (e *Engine) Find(words []string, k int) []Match {
	return e.FindSeq(slices.Values(words), k)
}

// FindSeq is Find over a word stream. The stream is consumed once.
func (e *Engine) FindSeq(words iter.Seq[string], k int) []Match {
	if k <= 0 {
		return []Match{}
	}
	start := time.Now()

	set := e.candidates(words)
	weights := make([]int, len(set.words))
	for i, word := range set.words {
		weights[i] = e.weigh(word)
	}
	matches := rank(set.words, weights, k)

	e.record(set, matches, time.Since(start))
	return matches
}

func (e *Engine) candidates(words iter.Seq[string]) candidateSet {
	limit := e.grid.MaxLineLen()
	if e.maxWordLen > 0 && e.maxWordLen < limit {
		limit = e.maxWordLen
	}
	return collect(words, limit)
}

// weigh returns 0 for absent words.
func (e *Engine) weigh(word string) int {
	if e.weight == WeightLines {
		return e.probe.Count(word)
	}
	if e.probe.Probe(word) {
		return 1
	}
	return 0
}

func (e *Engine) record(set candidateSet, matches []Match, took time.Duration) {
	e.finds.Add(1)
	e.probed.Add(int64(len(set.words)))
	e.log.Debug("Find done",
		"candidates", len(set.words),
		"dropped", set.dropped,
		"returned", len(matches),
		"took", took)
}

// rank orders found words by weight, heaviest first. Words with equal
// weight stay in first-seen order because words is already in that order
// and the sort is stable.
func rank(words []string, weights []int, k int) []Match {
	found := make([]Match, 0, len(words))
	for i, word := range words {
		if weights[i] > 0 {
			found = append(found, Match{Word: word, Weight: weights[i]})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Weight > found[j].Weight
	})

	if len(found) > k {
		found = found[:k]
	}
	return found
}

// Stats returns grid, strategy and usage counters.
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{
		"rows":        e.grid.RowCount(),
		"cols":        e.grid.ColCount(),
		"lines":       e.grid.LineCount(),
		"strategy":    int(e.strategy),
		"weightMode":  int(e.weight),
		"maxWordLen":  e.maxWordLen,
		"finds":       int(e.finds.Load()),
		"wordsProbed": int(e.probed.Load()),
	}

	if s, ok := e.probe.(interface{ Stats() map[string]int }); ok {
		for k, v := range s.Stats() {
			stats[k] = v
		}
	}
	return stats
}
