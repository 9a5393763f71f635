package postline

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for a postline site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/blog.db")

	AdminPassword string `yaml:"-"` // Required: admin login password
	SessionSecret string `yaml:"-"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // default 5m

	Blog BlogConfig `yaml:"blog"`
}

// BlogConfig controls how posts are addressed, listed and summarised.
type BlogConfig struct {
	Prefix           string `yaml:"prefix"`            // URL prefix for posts (default "posts")
	TagLink          string `yaml:"tag_link"`          // Tag index path under Prefix (default "tags/{tag}")
	PageLink         string `yaml:"page_link"`         // Pagination path suffix (default "page/{num}")
	Paginate         *bool  `yaml:"paginate"`          // default true
	PerPage          int    `yaml:"per_page"`          // default 10
	SummarySeparator string `yaml:"summary_separator"` // default "READMORE"
	SummaryLength    int    `yaml:"summary_length"`    // default 250, 0 disables truncation
	TimeZone         string `yaml:"time_zone"`         // IANA name (default "Asia/Singapore")
	DefaultExtension string `yaml:"default_extension"` // default ".markdown"

	location *time.Location
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	c.Blog.setDefaults()
}

func (b *BlogConfig) setDefaults() {
	b.Prefix = strings.Trim(b.Prefix, "/")
	if b.Prefix == "" {
		b.Prefix = "posts"
	}
	if b.TagLink == "" {
		b.TagLink = "tags/{tag}"
	}
	if b.PageLink == "" {
		b.PageLink = "page/{num}"
	}
	if b.Paginate == nil {
		on := true
		b.Paginate = &on
	}
	if b.PerPage == 0 {
		b.PerPage = 10
	}
	if b.SummarySeparator == "" {
		b.SummarySeparator = "READMORE"
	}
	if b.SummaryLength == 0 {
		b.SummaryLength = 250
	}
	if b.TimeZone == "" {
		b.TimeZone = "Asia/Singapore"
	}
	if b.DefaultExtension == "" {
		b.DefaultExtension = ".markdown"
	}
}

// Validate checks the configuration after defaults have been applied.
func (c *SiteConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, validation.By(func(value any) error {
			u, _ := value.(string)
			if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
				return errors.New("must start with http:// or https://")
			}
			return nil
		})),
		validation.Field(&c.AdminPassword, validation.Required),
		validation.Field(&c.SessionSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.PostCacheTTL, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return err
	}
	if err := c.Blog.Validate(); err != nil {
		return fmt.Errorf("blog: %w", err)
	}
	return nil
}

// Validate checks the blog settings and resolves the time zone.
func (b *BlogConfig) Validate() error {
	err := validation.ValidateStruct(b,
		validation.Field(&b.Prefix, validation.Required),
		validation.Field(&b.TagLink, validation.Required, endsWithToken("{tag}")),
		validation.Field(&b.PageLink, validation.Required, endsWithToken("{num}")),
		validation.Field(&b.PerPage, validation.Min(1)),
		validation.Field(&b.SummaryLength, validation.Min(0)),
		validation.Field(&b.TimeZone, validation.Required, validation.By(func(value any) error {
			name, _ := value.(string)
			if _, err := time.LoadLocation(name); err != nil {
				return fmt.Errorf("unknown time zone %q", name)
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return err
	}
	b.location = loc
	return nil
}

// endsWithToken requires the link pattern to end in token, since the token
// becomes the final route parameter.
func endsWithToken(token string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if !strings.HasSuffix(strings.TrimSuffix(s, "/"), token) {
			return fmt.Errorf("must end with %s", token)
		}
		if strings.Count(s, token) != 1 {
			return fmt.Errorf("must contain %s exactly once", token)
		}
		return nil
	})
}

// Location returns the configured time zone, or UTC before Validate has run.
func (b BlogConfig) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
}

// Paginated reports whether listings are split into pages.
func (b BlogConfig) Paginated() bool {
	return b.Paginate == nil || *b.Paginate
}

// LoadConfig reads a YAML site configuration from path and applies defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore supplies an already opened Store instead of opening DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
