package readtime

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EstimateHTML returns the reading time label for rendered HTML. Only visible
// text counts; tags, attributes, scripts and styles are ignored.
func EstimateHTML(markup string) string {
	return Format(Minutes(WordCountHTML(markup)))
}

// WordCountHTML counts the words in the text nodes of markup. If the markup
// cannot be parsed it is counted as plain text.
func WordCountHTML(markup string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return WordCount(markup)
	}
	doc.Find("script, style, noscript, template").Remove()

	// Each text node is separated by a space so adjacent block elements
	// ("<p>a</p><p>b</p>") never fuse into one word. Node order does not
	// matter for counting.
	var b strings.Builder
	doc.Find("*").Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "#text" {
			return
		}
		b.WriteString(s.Text())
		b.WriteByte(' ')
	})
	return WordCount(b.String())
}
