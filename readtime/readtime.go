// Package readtime estimates how long a block of text takes to read.
//
// The estimate is a whitespace word count divided by a fixed reading speed,
// rounded down, and rendered as a short human-readable label suitable for
// dropping straight into a template.
package readtime

import (
	"strconv"
	"strings"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 130.0

// LessThanAMinute is returned for texts shorter than WordsPerMinute words.
const LessThanAMinute = "less than a minute"

// Estimate returns the reading time label for text.
func Estimate(text string) string {
	return Format(Minutes(WordCount(text)))
}

// WordCount counts the whitespace-delimited tokens in text. Only ASCII
// whitespace separates words; a no-break space (U+00A0) or an em space
// (U+2003) joins its neighbours into one token.
func WordCount(text string) int {
	return len(strings.FieldsFunc(text, isSpace))
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Minutes converts a word count into whole minutes, rounding down.
func Minutes(words int) int {
	if words <= 0 {
		return 0
	}
	return int(float64(words) / WordsPerMinute)
}

// Format renders a minute count as "less than a minute", "1 minute" or "N minutes".
func Format(minutes int) string {
	switch {
	case minutes <= 0:
		return LessThanAMinute
	case minutes == 1:
		return "1 minute"
	default:
		return strconv.Itoa(minutes) + " minutes"
	}
}
