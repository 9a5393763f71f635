// Package postline is a small blog engine built with Go, Echo, and templ.
// It serves paginated post listings, tag indexes, post pages with reading
// time estimates, an RSS feed and sitemap, and a password-protected admin.
//
// Templates are supplied by the caller through ViewFuncs; the views package
// ships a default theme.
package postline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/postline/markdown"
	"github.com/eringen/postline/readtime"
)

// ListView is the data handed to listing templates.
type ListView struct {
	Site      SiteConfig
	Page      Page
	ActiveTag string // empty on the main index
	Tags      []string
}

// PostView is the data handed to post templates.
type PostView struct {
	Site    SiteConfig
	Post    BlogPost
	Related []BlogPost
}

// AdminView is the data handed to admin templates. Only the fields relevant
// to a given screen are populated.
type AdminView struct {
	Site      SiteConfig
	Posts     []BlogPost
	Post      BlogPost
	Media     []Media
	Message   string
	ShowError bool
	CSRFToken string
}

// ViewFuncs holds the templ components the App calls when rendering pages.
// Partial variants are optional and fall back to the full page.
type ViewFuncs struct {
	Home           func(ListView) templ.Component
	HomePartial    func(ListView) templ.Component
	Post           func(PostView) templ.Component
	PostPartial    func(PostView) templ.Component
	AdminLogin     func(AdminView) templ.Component
	AdminDashboard func(AdminView) templ.Component
	AdminForm      func(AdminView) templ.Component
	AdminMedia     func(AdminView) templ.Component
	NotFound       func(SiteConfig) templ.Component
	ServerError    func(SiteConfig) templ.Component
}

func (v ViewFuncs) validate() error {
	var missing []string
	check := func(name string, set bool) {
		if !set {
			missing = append(missing, name)
		}
	}
	check("Home", v.Home != nil)
	check("Post", v.Post != nil)
	check("AdminLogin", v.AdminLogin != nil)
	check("AdminDashboard", v.AdminDashboard != nil)
	check("AdminForm", v.AdminForm != nil)
	check("AdminMedia", v.AdminMedia != nil)
	check("NotFound", v.NotFound != nil)
	check("ServerError", v.ServerError != nil)
	if len(missing) > 0 {
		return fmt.Errorf("missing views: %s", strings.Join(missing, ", "))
	}
	return nil
}

// App is the central postline application. It wires together the store,
// cache, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	ownsStore    bool
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration, opens the store and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("postline: invalid config: %w", err)
	}
	if err := a.Views.validate(); err != nil {
		return fmt.Errorf("postline: %w", err)
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("postline: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL, a.preparePost)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("postline: serving %s on %s", a.Config.URL, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo
	blog := a.Config.Blog
	prefix := "/" + blog.Prefix

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleIndex)
	e.GET("/"+route(blog.PageLink)+"/", a.handleIndex)
	e.GET(prefix, a.handlePrefixRedirect)
	e.GET(prefix+"/", a.handlePrefixRedirect)
	tagRoute := prefix + "/" + route(blog.TagLink) + "/"
	e.GET(tagRoute, a.handleTag)
	e.GET(tagRoute+route(blog.PageLink)+"/", a.handleTag)
	e.GET(prefix+"/:slug/", a.handlePost)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/media/", a.handleMediaList, a.requireAdmin)
	e.POST("/admin/media/upload/", a.handleMediaUpload, a.requireAdmin)
	e.DELETE("/admin/media/:filename/", a.handleMediaDelete, a.requireAdmin)
}

// preparePost turns a stored post into its display form. It runs once per
// cache load, so the body is rendered here to count its words.
func (a *App) preparePost(p BlogPost) BlogPost {
	blog := a.Config.Blog
	p.Link = blog.PostPath(p.Slug)
	if strings.TrimSpace(p.Summary) == "" {
		p.Summary = Summarize(p.Content, blog.SummarySeparator, blog.SummaryLength)
	}
	p.Content = markdown.StripSeparator(p.Content, blog.SummarySeparator)
	if body, err := markdown.HTML(p.Content); err == nil {
		p.WordCount = readtime.WordCountHTML(body)
	} else {
		p.WordCount = readtime.WordCount(p.Content)
	}
	return p
}

// Close releases the store (when the App opened it) and the login limiter.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RequireEnv returns the value of the environment variable key, or an error
// naming it when it is unset or empty.
func RequireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("postline: required environment variable %s is not set", key)
	}
	return v, nil
}
