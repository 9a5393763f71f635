// Package views is the default postline theme: html/template files embedded
// in the binary, executed with Funcs and exposed as templ components.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
	"github.com/eringen/postline/readtime"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "post", "login", "dashboard", "form", "media", "notfound", "error"}

var pages = parsePages()

func parsePages() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(Funcs()).ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

// component executes the named template of page into a buffer first, so a
// failing template never leaves half a page on the wire.
func component(page, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[page]
		if !ok {
			return fmt.Errorf("views: unknown page %q", page)
		}
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, name, data); err != nil {
			return fmt.Errorf("views: %s: %w", page, err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Entry is a post ready for display: its markdown rendered once.
type Entry struct {
	postline.BlogPost
	Body template.HTML
}

// NewEntry renders post's body.
func NewEntry(post postline.BlogPost) Entry {
	return Entry{BlogPost: post, Body: RenderMarkdown(post.Content)}
}

type layoutData struct {
	Site   postline.SiteConfig
	Meta   postline.PageMeta
	JSONLD template.JS
}

type listData struct {
	layoutData
	View postline.ListView
}

type postData struct {
	layoutData
	Entry       Entry
	ReadingTime string
	Related     []postline.BlogPost
}

type adminData struct {
	layoutData
	View postline.AdminView
}

func newListData(v postline.ListView) listData {
	meta := postline.PageMeta{
		Title:       v.Site.Name,
		Description: v.Site.Description,
		URL:         v.Site.URL + "/",
		OGType:      "website",
	}
	if v.ActiveTag != "" {
		meta.Title = "Posts tagged " + v.ActiveTag + " | " + v.Site.Name
		meta.URL = v.Site.URL + v.Site.Blog.TagPath(v.ActiveTag)
	}
	if v.Page.Number > 1 {
		meta.Title = fmt.Sprintf("%s (page %d)", meta.Title, v.Page.Number)
	}
	return listData{
		layoutData: layoutData{Site: v.Site, Meta: meta, JSONLD: template.JS(postline.WebsiteJsonLD(v.Site))},
		View:       v,
	}
}

func newPostData(v postline.PostView) postData {
	entry := NewEntry(v.Post)
	meta := postline.PageMeta{
		Title:       v.Post.Title + " | " + v.Site.Name,
		Description: v.Post.Summary,
		URL:         v.Site.URL + v.Post.Link,
		OGType:      "article",
	}
	words := v.Post.WordCount
	if words == 0 {
		words = readtime.WordCountHTML(string(entry.Body))
	}
	return postData{
		layoutData:  layoutData{Site: v.Site, Meta: meta, JSONLD: template.JS(postline.BlogPostingJsonLD(v.Post, v.Site, words))},
		Entry:       entry,
		ReadingTime: readtime.Format(readtime.Minutes(words)),
		Related:     v.Related,
	}
}

func newAdminData(v postline.AdminView, title string) adminData {
	return adminData{
		layoutData: layoutData{Site: v.Site, Meta: postline.PageMeta{Title: title + " | " + v.Site.Name}},
		View:       v,
	}
}

func simplePage(site postline.SiteConfig, title string) layoutData {
	return layoutData{Site: site, Meta: postline.PageMeta{Title: title + " | " + site.Name}}
}

// Default returns the built-in theme.
func Default() postline.ViewFuncs {
	return postline.ViewFuncs{
		Home: func(v postline.ListView) templ.Component {
			return component("home", "layout", newListData(v))
		},
		HomePartial: func(v postline.ListView) templ.Component {
			return component("home", "content", newListData(v))
		},
		Post: func(v postline.PostView) templ.Component {
			return component("post", "layout", newPostData(v))
		},
		PostPartial: func(v postline.PostView) templ.Component {
			return component("post", "content", newPostData(v))
		},
		AdminLogin: func(v postline.AdminView) templ.Component {
			return component("login", "layout", newAdminData(v, "Sign in"))
		},
		AdminDashboard: func(v postline.AdminView) templ.Component {
			return component("dashboard", "layout", newAdminData(v, "Posts"))
		},
		AdminForm: func(v postline.AdminView) templ.Component {
			return component("form", "layout", newAdminData(v, "Edit "+v.Post.Title))
		},
		AdminMedia: func(v postline.AdminView) templ.Component {
			return component("media", "layout", newAdminData(v, "Media"))
		},
		NotFound: func(site postline.SiteConfig) templ.Component {
			return component("notfound", "layout", simplePage(site, "Not found"))
		},
		ServerError: func(site postline.SiteConfig) templ.Component {
			return component("error", "layout", simplePage(site, "Something went wrong"))
		},
	}
}
