// Package markdown renders post bodies to HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// engine is safe for concurrent use; goldmark keeps no per-conversion state on it.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

// Markdown returns a templ.Component that renders source as HTML.
func Markdown(source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, source)
	})
}

// Render writes the HTML representation of source to w.
func Render(w io.Writer, source string) error {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return fmt.Errorf("markdown render: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// HTML renders source and returns the result as a string.
func HTML(source string) (string, error) {
	var b strings.Builder
	if err := Render(&b, source); err != nil {
		return "", err
	}
	return b.String(), nil
}

// StripSeparator removes every occurrence of the summary separator from
// source. A line holding only the separator is dropped entirely.
func StripSeparator(source, sep string) string {
	if sep == "" || !strings.Contains(source, sep) {
		return source
	}
	lines := strings.Split(source, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == sep {
			continue
		}
		out = append(out, strings.ReplaceAll(line, sep, ""))
	}
	return strings.Join(out, "\n")
}
