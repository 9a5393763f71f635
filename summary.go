package postline

import (
	"strings"
	"unicode"
)

// Summarize derives a plain-text summary from a post body. Text before sep
// wins when sep occurs in content; otherwise the body is cut to at most
// length runes on a word boundary and marked with an ellipsis. A length of
// zero or less disables truncation.
func Summarize(content, sep string, length int) string {
	if sep != "" {
		if i := strings.Index(content, sep); i >= 0 {
			return collapseSpace(content[:i])
		}
	}
	text := collapseSpace(content)
	runes := []rune(text)
	if length <= 0 || len(runes) <= length {
		return text
	}
	cut := length
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		// one long word; hard cut
		cut = length
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
