// Package index provides the precomputed lookup structures that let the
// search engines answer "is this word somewhere in the grid" without
// scanning every line.
//
// LineIndex hashes every contiguous run of every line and maps each
// (run length, run hash) key to the set of lines holding such a run. A hash
// hit is only a hint: it is always confirmed against the line content.
//
// SuffixTrie stores every suffix of every line in a patricia trie, so a
// word is present exactly when it is a prefix of some stored suffix.
//
// Both structures are built once from a grid and are read-only afterwards,
// which makes them safe to share between goroutines.
package index

import (
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
)

type runKey struct {
	length int
	hash   uint64
}

// LineIndex is the hash-based acceleration structure for a single grid.
// It holds one entry per distinct run, which is cubic in the grid side;
// use EstimateRuns to decide whether a grid is small enough to index.
type LineIndex struct {
	grid *grid.Grid
	// runs holds keys seen on exactly one line. A key found on a second
	// line moves to shared.
	runs   map[runKey]uint32
	shared map[runKey]*roaring.Bitmap

	runCount  int
	buildTime time.Duration
}

// Build hashes every run of length 1..len(line) of every row and column.
func Build(g *grid.Grid) *LineIndex {
	start := time.Now()
	idx := &LineIndex{
		grid:   g,
		runs:   make(map[runKey]uint32),
		shared: make(map[runKey]*roaring.Bitmap),
	}

	offsets := make([]int, 0, g.MaxLineLen()+1)
	digest := xxhash.New()

	for id, line := range g.Lines {
		offsets = runeOffsets(offsets[:0], line)
		n := len(offsets) - 1

		for i := 0; i < n; i++ {
			// Streaming the run one symbol at a time gives the same value
			// as hashing the whole run with Sum64String.
			digest.Reset()
			for j := i + 1; j <= n; j++ {
				digest.WriteString(line[offsets[j-1]:offsets[j]])
				idx.add(runKey{length: j - i, hash: digest.Sum64()}, id)
			}
		}
	}

	for _, bm := range idx.shared {
		bm.RunOptimize()
	}
	idx.buildTime = time.Since(start)

	log.Debug("built line index",
		"lines", g.LineCount(),
		"runs", idx.runCount,
		"keys", len(idx.runs)+len(idx.shared),
		"shared", len(idx.shared),
		"took", idx.buildTime)
	return idx
}

func (idx *LineIndex) add(key runKey, lineID int) {
	idx.runCount++
	id := uint32(lineID)

	if bm, ok := idx.shared[key]; ok {
		bm.Add(id)
		return
	}
	first, ok := idx.runs[key]
	switch {
	case !ok:
		idx.runs[key] = id
	case first != id:
		delete(idx.runs, key)
		idx.shared[key] = roaring.BitmapOf(first, id)
	}
}

// EstimateRuns returns the number of runs Build would hash for g, without
// building anything. Rows hold ColCount symbols and columns RowCount.
func EstimateRuns(g *grid.Grid) int {
	r, c := g.RowCount(), g.ColCount()
	return r*(c*(c+1)/2) + c*(r*(r+1)/2)
}

// runeOffsets appends the byte offset of every rune in s, plus len(s).
func runeOffsets(dst []int, s string) []int {
	for i := range s {
		dst = append(dst, i)
	}
	return append(dst, len(s))
}

// Grid returns the grid the index was built from.
func (idx *LineIndex) Grid() *grid.Grid {
	return idx.grid
}

// candidates yields the lines whose runs hash like word for its length.
func (idx *LineIndex) candidates(word string) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		n := utf8.RuneCountInString(word)
		if n == 0 || n > idx.grid.MaxLineLen() {
			return
		}
		key := runKey{length: n, hash: xxhash.Sum64String(word)}
		if id, ok := idx.runs[key]; ok {
			yield(id)
			return
		}
		if bm, ok := idx.shared[key]; ok {
			it := bm.Iterator()
			for it.HasNext() {
				if !yield(it.Next()) {
					return
				}
			}
		}
	}
}

// Probe reports whether word occurs in some row or column.
func (idx *LineIndex) Probe(word string) bool {
	for id := range idx.candidates(word) {
		if strings.Contains(idx.grid.Line(int(id)), word) {
			return true
		}
	}
	return false
}

// Count returns the number of distinct lines that contain word.
func (idx *LineIndex) Count(word string) int {
	count := 0
	for id := range idx.candidates(word) {
		if strings.Contains(idx.grid.Line(int(id)), word) {
			count++
		}
	}
	return count
}

// Stats reports the size of the index.
func (idx *LineIndex) Stats() map[string]int {
	return map[string]int{
		"indexLines":   idx.grid.LineCount(),
		"indexRuns":    idx.runCount,
		"indexKeys":    len(idx.runs) + len(idx.shared),
		"indexShared":  len(idx.shared),
		"indexBuildUs": int(idx.buildTime.Microseconds()),
	}
}
