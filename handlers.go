package postline

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// pageNumber reads the :num route parameter. Routes without it are page 1.
func pageNumber(c echo.Context) (int, bool) {
	raw := c.Param("num")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (a *App) handleIndex(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderListing(c, posts, "", "/")
}

func (a *App) handleTag(c echo.Context) error {
	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return echo.ErrNotFound
	}
	tag = normalizeTag(tag)
	ok, err := a.Cache.HasTag(tag)
	if err != nil {
		return err
	}
	if !ok {
		return echo.ErrNotFound
	}
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	return a.renderListing(c, posts, tag, a.Config.Blog.TagPath(tag))
}

// renderListing paginates posts under index and renders the requested page.
func (a *App) renderListing(c echo.Context, posts []BlogPost, tag, index string) error {
	blog := a.Config.Blog
	number, ok := pageNumber(c)
	if !ok {
		return echo.ErrNotFound
	}
	if c.Param("num") == "1" {
		return c.Redirect(http.StatusMovedPermanently, index)
	}

	perPage := blog.PerPage
	if !blog.Paginated() {
		perPage = 0
	}
	page, err := Paginate(posts, number, perPage, func(n int) string {
		return blog.PagePath(index, n)
	})
	if errors.Is(err, ErrPageOutOfRange) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	view := ListView{Site: a.Config, Page: page, ActiveTag: tag, Tags: tags}
	if isHTMX(c) && c.QueryParam("partial") == "list" && a.Views.HomePartial != nil {
		return Render(c, a.Views.HomePartial(view))
	}
	return Render(c, a.Views.Home(view))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	view := PostView{Site: a.Config, Post: post, Related: FilterRelatedPosts(post, posts)}
	if isHTMX(c) && c.QueryParam("partial") == "post" && a.Views.PostPartial != nil {
		return Render(c, a.Views.PostPartial(view))
	}
	return Render(c, a.Views.Post(view))
}

func (a *App) handlePrefixRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, tags)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt pointing crawlers at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
