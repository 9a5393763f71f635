package postline

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// postForm is the admin editor's submission.
type postForm struct {
	Title     string
	Slug      string
	Date      string
	Tags      []string
	Summary   string
	Content   string
	Published bool
}

func (f postForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Title is required.")),
		validation.Field(&f.Slug,
			validation.Required.Error("Slug is required. Add a title or slug."),
			validation.Match(slugPattern).Error("Slug may only contain a-z, 0-9 and dashes."),
		),
		validation.Field(&f.Date, validation.Required, validation.Date("2006-01-02").Error("Invalid date format. Use YYYY-MM-DD.")),
	)
}

// firstMessage flattens a validation error into one line for the dashboard.
func firstMessage(err error) string {
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, field := range []string{"Title", "Slug", "Date"} {
			if e, ok := errs[field]; ok && e != nil {
				return e.Error()
			}
		}
	}
	return err.Error()
}

func (a *App) bindPostForm(c echo.Context) postForm {
	f := postForm{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		Date:      strings.TrimSpace(c.FormValue("date")),
		Tags:      ParseTagList(c.FormValue("tags")),
		Summary:   strings.TrimSpace(c.FormValue("summary")),
		Content:   c.FormValue("content"),
		Published: c.FormValue("published") != "",
	}
	if f.Slug == "" {
		f.Slug = Slugify(f.Title)
	}
	if f.Date == "" {
		f.Date = time.Now().In(a.Config.Blog.Location()).Format("2006-01-02")
	}
	return f
}

func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(AdminView{Site: a.Config, CSRFToken: CsrfToken(c)}))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Reset(ip)
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	c.Logger().Warnf("admin: failed login from %s", ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(AdminView{
		Site:      a.Config,
		ShowError: true,
		CSRFToken: CsrfToken(c),
	}))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminForm(AdminView{Site: a.Config, Post: post, CSRFToken: CsrfToken(c)}))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	f := a.bindPostForm(c)
	if err := f.Validate(); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(firstMessage(err)))
	}
	if err := a.Store.SavePost(BlogPost{
		Slug:      f.Slug,
		Title:     f.Title,
		Date:      f.Date,
		Tags:      f.Tags,
		Summary:   f.Summary,
		Content:   f.Content,
		Published: f.Published,
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	c.Logger().Infof("admin: saved post %q", f.Slug)
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	if err := a.Store.DeletePost(slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	c.Logger().Infof("admin: deleted post %q", slug)
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(AdminView{
		Site:      a.Config,
		Posts:     posts,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}
