package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/eringen/postline"
	"github.com/eringen/postline/markdown"
	"github.com/eringen/postline/readtime"
	"github.com/eringen/postline/views"
)

// loadConfig reads the YAML config and applies environment overrides.
// Admin credentials are read by serve alone.
func loadConfig(c *cli.Context) (postline.SiteConfig, error) {
	cfg, err := postline.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	cfg.Name = postline.EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = postline.EnvOr("SITE_URL", cfg.URL)
	cfg.Description = postline.EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = postline.EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = postline.EnvOr("ADDR", cfg.Addr)
	cfg.DatabasePath = postline.EnvOr("DATABASE_PATH", cfg.DatabasePath)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = strings.EqualFold(v, "true")
	}
	return cfg, nil
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cfg.AdminPassword, err = postline.RequireEnv("ADMIN_PASSWORD"); err != nil {
		return err
	}
	if cfg.SessionSecret, err = postline.RequireEnv("ADMIN_SESSION_SECRET"); err != nil {
		return err
	}

	app := postline.New(cfg, views.Default(), postline.WithStaticDir(c.String("static")))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		_ = app.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func importAction(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return errors.New("import: directory required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Blog.Validate(); err != nil {
		return fmt.Errorf("invalid blog config: %w", err)
	}

	store, err := postline.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	res, err := postline.ImportDir(c.Context, store, dir, cfg.Blog)
	for _, slug := range res.Imported {
		fmt.Printf("imported %s\n", slug)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d imported, %d skipped\n", len(res.Imported), len(res.Skipped))
	return nil
}

func readtimeAction(c *cli.Context) error {
	estimate := func(src string) (string, error) {
		switch {
		case c.Bool("markdown"):
			html, err := markdown.HTML(src)
			if err != nil {
				return "", err
			}
			return readtime.EstimateHTML(html), nil
		case c.Bool("html"):
			return readtime.EstimateHTML(src), nil
		}
		return readtime.Estimate(src), nil
	}

	if c.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		out, err := estimate(string(data))
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	for _, name := range c.Args().Slice() {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		out, err := estimate(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("%s: %s\n", name, out)
	}
	return nil
}
