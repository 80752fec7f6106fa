package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/bastiangx/wordgrid/pkg/index"
)

// Strategy selects how presence of a word is determined.
// Every strategy yields the same matches; they only differ in cost.
type Strategy int

const (
	// StrategyScan compares the word against every row and column.
	StrategyScan Strategy = iota
	// StrategyHash uses an index.LineIndex as a pre-filter.
	StrategyHash
	// StrategyTrie looks the word up in an index.SuffixTrie.
	StrategyTrie
)

var strategyNames = map[Strategy]string{
	StrategyScan: "scan",
	StrategyHash: "hash",
	StrategyTrie: "trie",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps "scan", "hash" or "trie" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(name, n) {
			return s, nil
		}
	}
	return StrategyScan, fmt.Errorf("unknown strategy %q (want scan, hash or trie)", name)
}

// WeightMode selects what a match weight means.
type WeightMode int

const (
	// WeightPresence gives every found word weight 1.
	WeightPresence WeightMode = iota
	// WeightLines counts the distinct rows and columns containing the word.
	WeightLines
)

func (m WeightMode) String() string {
	if m == WeightLines {
		return "lines"
	}
	return "presence"
}

// ParseWeightMode maps "presence" or "lines" to a WeightMode.
func ParseWeightMode(name string) (WeightMode, error) {
	switch strings.ToLower(name) {
	case "presence", "":
		return WeightPresence, nil
	case "lines":
		return WeightLines, nil
	}
	return WeightPresence, fmt.Errorf("unknown weight mode %q (want presence or lines)", name)
}

// prober answers presence and line-count queries for one grid.
type prober interface {
	Probe(word string) bool
	Count(word string) int
}

// scanProber is the brute force tier: no precomputation at all.
type scanProber struct {
	grid *grid.Grid
}

// Probe stops at the first line that holds the word.
func (p scanProber) Probe(word string) bool {
	n := utf8.RuneCountInString(word)
	for id, line := range p.grid.Lines {
		if p.grid.LineLen(id) < n {
			continue
		}
		if strings.Contains(line, word) {
			return true
		}
	}
	return false
}

func (p scanProber) Count(word string) int {
	n := utf8.RuneCountInString(word)
	count := 0
	for id, line := range p.grid.Lines {
		if p.grid.LineLen(id) >= n && strings.Contains(line, word) {
			count++
		}
	}
	return count
}

// newProber builds the structure backing a strategy, reusing prebuilt ones.
func newProber(g *grid.Grid, s Strategy, lineIndex *index.LineIndex, trie *index.SuffixTrie) prober {
	switch s {
	case StrategyHash:
		if lineIndex == nil {
			lineIndex = index.Build(g)
		}
		return lineIndex
	case StrategyTrie:
		if trie == nil {
			trie = index.BuildTrie(g)
		}
		return trie
	default:
		return scanProber{grid: g}
	}
}
