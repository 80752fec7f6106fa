package search

import (
	"iter"
	"unicode/utf8"
)

// candidateSet holds the distinct words of a stream in first-seen order.
// The position of a word in words is its tie-break key.
type candidateSet struct {
	words   []string
	dropped int
}

// collect deduplicates the stream and drops words that can never match:
// empty words, invalid UTF-8, and words longer than maxLen symbols.
func collect(stream iter.Seq[string], maxLen int) candidateSet {
	var set candidateSet
	seen := make(map[string]struct{})

	for word := range stream {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		if word == "" || !utf8.ValidString(word) {
			set.dropped++
			continue
		}
		if maxLen > 0 && utf8.RuneCountInString(word) > maxLen {
			set.dropped++
			continue
		}
		set.words = append(set.words, word)
	}
	return set
}
