package views

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
)

func testSite() postline.SiteConfig {
	return postline.SiteConfig{
		Name: "Test Blog",
		URL:  "https://example.com",
		Blog: postline.BlogConfig{
			Prefix:   "posts",
			TagLink:  "tags/{tag}",
			PageLink: "page/{num}",
		},
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestFuncsReadingTime(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(Funcs()).Parse(`{{readingTime .}}`))
	tests := []struct {
		words int
		want  string
	}{
		{0, "less than a minute"},
		{129, "less than a minute"},
		{130, "1 minute"},
		{260, "2 minutes"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, words(tt.words)); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if got := buf.String(); got != tt.want {
			t.Errorf("readingTime(%d words) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestReadingTimeHTMLIgnoresMarkup(t *testing.T) {
	body := template.HTML("<p>" + strings.Repeat(`<a href="/x">word</a> `, 130) + "</p>")
	if got := ReadingTimeHTML(body); got != "1 minute" {
		t.Errorf("ReadingTimeHTML = %q, want %q", got, "1 minute")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-15", "January 15, 2024"},
		{"2013-09-01", "September 1, 2013"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	got := RenderMarkdown("Hello *world*")
	if !strings.Contains(string(got), "<em>world</em>") {
		t.Errorf("RenderMarkdown = %q", got)
	}
}

func TestPostShowsReadingTime(t *testing.T) {
	site := testSite()
	post := postline.BlogPost{
		Title:     "Long Read",
		Slug:      "long-read",
		Date:      "2024-01-15",
		Tags:      []string{"go"},
		Link:      "/posts/long-read/",
		Content:   words(300),
		Published: true,
	}
	view := postline.PostView{
		Site:    site,
		Post:    post,
		Related: []postline.BlogPost{{Title: "Other", Link: "/posts/other/", Date: "2024-01-10"}},
	}

	full := render(t, Default().Post(view))
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Long Read</h1>",
		`<span class="reading-time">2 minutes</span>`,
		`href="/posts/tags/go/"`,
		`"wordCount":300`,
		`href="/posts/other/"`,
		"January 15, 2024",
	} {
		if !strings.Contains(full, want) {
			t.Errorf("post page missing %q", want)
		}
	}

	partial := render(t, Default().PostPartial(view))
	if strings.Contains(partial, "<!DOCTYPE html>") {
		t.Error("partial should not include the layout")
	}
	if !strings.Contains(partial, "2 minutes") {
		t.Error("partial missing reading time")
	}
}

func TestHomeListsEntries(t *testing.T) {
	site := testSite()
	view := postline.ListView{
		Site: site,
		Page: postline.Page{
			Posts: []postline.BlogPost{
				{Title: "Short", Link: "/posts/short/", Date: "2024-02-01", Summary: "A short one", Tags: []string{"go"}, Content: "just a few words"},
				{Title: "Long", Link: "/posts/long/", Date: "2024-01-01", Content: words(135)},
			},
			Number:  2,
			Total:   3,
			PrevURL: "/",
			NextURL: "/page/3/",
		},
		Tags: []string{"go", "web"},
	}

	out := render(t, Default().Home(view))
	for _, want := range []string{
		`href="/posts/short/"`,
		"A short one",
		"less than a minute",
		"1 minute",
		`href="/posts/tags/web/"`,
		`rel="prev" href="/"`,
		`rel="next" href="/page/3/"`,
		"Page 2 of 3",
		"Test Blog (page 2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestPostReadingTimeUsesWordCount(t *testing.T) {
	tests := []struct {
		name string
		post postline.BlogPost
		want string
	}{
		{"precomputed", postline.BlogPost{Content: "short body", WordCount: 260}, "2 minutes"},
		{"rendered on demand", postline.BlogPost{Content: "**" + words(130) + "**"}, "1 minute"},
		{"empty", postline.BlogPost{}, "less than a minute"},
	}
	for _, tt := range tests {
		if got := PostReadingTime(tt.post); got != tt.want {
			t.Errorf("%s: PostReadingTime = %q, want %q", tt.name, got, tt.want)
		}
	}

	view := postline.ListView{
		Site: testSite(),
		Page: postline.Page{Number: 1, Total: 1, Posts: []postline.BlogPost{
			{Title: "Cached", Link: "/posts/cached/", Content: "short body", WordCount: 400},
		}},
	}
	if out := render(t, Default().Home(view)); !strings.Contains(out, `<span class="reading-time">3 minutes</span>`) {
		t.Error("listing should use the cached word count")
	}
}

func TestHomeActiveTag(t *testing.T) {
	view := postline.ListView{
		Site:      testSite(),
		Page:      postline.Page{Number: 1, Total: 1},
		ActiveTag: "go",
		Tags:      []string{"go"},
	}
	out := render(t, Default().HomePartial(view))
	if !strings.Contains(out, `class="tag active"`) {
		t.Error("active tag not marked")
	}
	if !strings.Contains(out, "No posts yet.") {
		t.Error("empty listing message missing")
	}
	if strings.Contains(out, `class="pagination"`) {
		t.Error("single page should not render pagination")
	}
}

func TestAdminDashboardForms(t *testing.T) {
	view := postline.AdminView{
		Site:      testSite(),
		Posts:     []postline.BlogPost{{Title: "Draft", Slug: "draft", Date: "2024-01-01", Content: words(130)}},
		Message:   "saved",
		CSRFToken: "tok123",
	}
	out := render(t, Default().AdminDashboard(view))
	for _, want := range []string{
		`name="_csrf" value="tok123"`,
		`name="_method" value="DELETE"`,
		`action="/admin/post/draft/"`,
		"draft</td>",
		"130 words, 1 minute",
		"saved",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestEveryViewRenders(t *testing.T) {
	site := testSite()
	v := Default()
	admin := postline.AdminView{Site: site, Post: postline.BlogPost{Title: "T", Slug: "t"}, Media: []postline.Media{{Filename: "a.jpg", Width: 10, Height: 5}}}
	components := map[string]templ.Component{
		"login":    v.AdminLogin(postline.AdminView{Site: site, ShowError: true}),
		"form":     v.AdminForm(admin),
		"media":    v.AdminMedia(admin),
		"notfound": v.NotFound(site),
		"error":    v.ServerError(site),
	}
	for name, c := range components {
		t.Run(name, func(t *testing.T) {
			out := render(t, c)
			if !strings.Contains(out, "<title>") {
				t.Errorf("%s: missing title", name)
			}
		})
	}
}
