package search

import (
	"fmt"
	"iter"
	"runtime"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/bastiangx/wordgrid/pkg/grid"
	"golang.org/x/sync/errgroup"
)

// ConcurrentEngine has the same output contract as Engine but spreads the
// distinct candidates across a bounded pool of workers.
type ConcurrentEngine struct {
	*Engine
	workers int
}

// WorkerPanic is the value re-panicked by ConcurrentEngine.Find when a
// worker panicked while probing Word. Find never returns partial results.
type WorkerPanic struct {
	Word  string
	Value any
	Stack []byte
}

func (p *WorkerPanic) Error() string {
	return fmt.Sprintf("search worker panicked on %q: %v", p.Word, p.Value)
}

// NewConcurrentEngine binds a concurrent engine to g.
// workers <= 0 uses GOMAXPROCS.
func NewConcurrentEngine(g *grid.Grid, workers int, opts ...Option) *ConcurrentEngine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ConcurrentEngine{
		Engine:  NewEngine(g, opts...),
		workers: workers,
	}
}

// Workers returns the size of the worker pool.
func (ce *ConcurrentEngine) Workers() int { return ce.workers }

// Find is Engine.Find with parallel probing.
func (ce *ConcurrentEngine) Find(words []string, k int) []Match {
	return ce.FindSeq(slices.Values(words), k)
}

// FindSeq deduplicates on the calling goroutine so the tie-break order is
// fixed before any work is dispatched. Workers only read the grid and
// index; their weights are merged under one lock, then ranked here.
func (ce *ConcurrentEngine) FindSeq(words iter.Seq[string], k int) []Match {
	if k <= 0 {
		return []Match{}
	}
	start := time.Now()

	set := ce.candidates(words)
	weights, err := ce.weighAll(set.words)
	if err != nil {
		panic(err)
	}
	matches := rank(set.words, weights, k)

	ce.record(set, matches, time.Since(start))
	return matches
}

// weighAll splits words into one contiguous chunk per worker.
func (ce *ConcurrentEngine) weighAll(words []string) ([]int, error) {
	weights := make([]int, len(words))
	if len(words) == 0 {
		return weights, nil
	}

	chunks := min(ce.workers, len(words))
	size := (len(words) + chunks - 1) / chunks

	merged := make(map[int]int, len(words))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(ce.workers)

	for lo := 0; lo < len(words); lo += size {
		hi := min(lo+size, len(words))
		g.Go(func() (err error) {
			local := make([]int, hi-lo)
			current := ""
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerPanic{Word: current, Value: r, Stack: debug.Stack()}
				}
			}()

			for i, word := range words[lo:hi] {
				current = word
				local[i] = ce.weigh(word)
			}

			mu.Lock()
			for i, w := range local {
				if w > 0 {
					merged[lo+i] = w
				}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for pos, w := range merged {
		weights[pos] = w
	}
	ce.log.Debug("Workers merged", "chunks", chunks, "chunkSize", size, "found", len(merged))
	return weights, nil
}

// Stats adds the pool size to the engine stats.
func (ce *ConcurrentEngine) Stats() map[string]int {
	stats := ce.Engine.Stats()
	stats["workers"] = ce.workers
	return stats
}
