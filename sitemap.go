package postline

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost, tags []string) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, 1+len(posts)+len(tags))
	home := sitemapURL{Loc: BuildURL(base)}
	if len(posts) > 0 {
		home.LastMod = posts[0].Date
	}
	urls = append(urls, home)
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     a.absURL(p.Link),
			LastMod: p.Date,
		})
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: a.absURL(a.Config.Blog.TagPath(t))})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
