package views

import (
	"html/template"
	"net/url"
	"time"

	"github.com/eringen/postline"
	"github.com/eringen/postline/markdown"
	"github.com/eringen/postline/readtime"
)

// Funcs returns the helpers available to every template.
//
//	readingTime      estimate for plain text: {{ readingTime .Content }}
//	readingTimeHTML  estimate for rendered HTML, markup excluded: {{ readingTimeHTML .Body }}
//	postReadingTime  estimate for a post's rendered body: {{ postReadingTime . }}
//	wordCount        whitespace word count of plain text
//	markdown         renders markdown source to HTML
//	formatDate       "2006-01-02" -> "January 2, 2006"
//	joinTags         tags -> "a, b"
//	pathEscape       url.PathEscape
func Funcs() template.FuncMap {
	return template.FuncMap{
		"readingTime":     readtime.Estimate,
		"readingTimeHTML": ReadingTimeHTML,
		"postReadingTime": PostReadingTime,
		"wordCount":       readtime.WordCount,
		"markdown":        RenderMarkdown,
		"formatDate":      FormatDate,
		"joinTags":        postline.JoinTags,
		"pathEscape":      url.PathEscape,
	}
}

// ReadingTimeHTML estimates the reading time of rendered post HTML.
func ReadingTimeHTML(body template.HTML) string {
	return readtime.EstimateHTML(string(body))
}

// PostReadingTime estimates the reading time of a post's rendered body.
// Posts served from the cache carry their word count; any other post is
// rendered here to count it.
func PostReadingTime(p postline.BlogPost) string {
	words := p.WordCount
	if words == 0 {
		words = readtime.WordCountHTML(string(RenderMarkdown(p.Content)))
	}
	return readtime.Format(readtime.Minutes(words))
}

// RenderMarkdown renders post source to HTML. Raw HTML in the source is
// dropped by the renderer, so the result is safe to embed unescaped.
func RenderMarkdown(source string) template.HTML {
	out, err := markdown.HTML(source)
	if err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(source) + "</pre>")
	}
	return template.HTML(out)
}

// FormatDate renders a stored YYYY-MM-DD date for display. Unparsable input
// is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}
