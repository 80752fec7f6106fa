package utils

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidWord checks if a candidate is worth sending to the engine.
// Returns false for empty strings, invalid UTF-8, and words holding
// whitespace or control characters, which no grid row can contain.
func IsValidWord(s string) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// SplitWords breaks a line of input into candidate words on any whitespace.
func SplitWords(line string) []string {
	return strings.Fields(line)
}

// IsComment reports whether a line of an input file should be skipped.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	digits := strconv.Itoa(n)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}
