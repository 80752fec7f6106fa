// Package search is the core, finding which candidate words occur in a grid and ranking them.
package search

import "iter"

// Finder is implemented by both the sequential and the concurrent engine.
type Finder interface {
	// Find returns at most k matches, highest weight first
	Find(words []string, k int) []Match

	// FindSeq is Find over a word stream
	FindSeq(words iter.Seq[string], k int) []Match

	// Stats returns statistics about the grid and the active strategy
	Stats() map[string]int
}

// Match is one ranked result.
type Match struct {
	Word   string
	Weight int
}
