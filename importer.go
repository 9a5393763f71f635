package postline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// postFileName matches "2014-05-03-hello-world.html.markdown" style names.
var postFileName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04 -07:00",
	"2006-01-02 15:04 MST",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
}

// tagList accepts either a YAML sequence or a comma separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = FilterEmpty(list)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*t = ParseTagList(s)
	return nil
}

// postDate keeps the raw front matter date. YAML would decode a zone-less
// timestamp as UTC, so the scalar text is kept and parsed in the blog's zone.
type postDate struct {
	raw string
}

func (d *postDate) UnmarshalYAML(unmarshal func(any) error) error {
	return unmarshal(&d.raw)
}

type postFrontMatter struct {
	Title     string   `yaml:"title"`
	Slug      string   `yaml:"slug"`
	Date      postDate `yaml:"date"`
	Tags      tagList  `yaml:"tags"`
	Summary   string   `yaml:"summary"`
	Published *bool    `yaml:"published"`
	Draft     bool     `yaml:"draft"`
}

// ImportResult reports what ImportDir did.
type ImportResult struct {
	Imported []string // slugs
	Skipped  []string // paths that did not look like posts
}

// postExtensions returns the file suffixes treated as posts, longest first so
// ".html.markdown" wins over ".markdown".
func (b BlogConfig) postExtensions() []string {
	exts := []string{".html.markdown", ".html.md", ".markdown", ".md"}
	if ext := b.DefaultExtension; ext != "" {
		for _, e := range exts {
			if e == ext {
				return exts
			}
		}
		exts = append([]string{ext}, exts...)
	}
	return exts
}

func (b BlogConfig) trimPostExt(name string) (string, bool) {
	for _, ext := range b.postExtensions() {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return name, false
}

// ParsePostFile turns a markdown file with front matter into a BlogPost.
// name is the file's base name and supplies the date and slug when the front
// matter leaves them out.
func ParsePostFile(name string, source []byte, blog BlogConfig) (BlogPost, error) {
	var meta postFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return BlogPost{}, fmt.Errorf("parse front matter: %w", err)
	}

	stem, _ := blog.trimPostExt(name)
	var fileDate, fileSlug string
	if m := postFileName.FindStringSubmatch(stem); m != nil {
		fileDate, fileSlug = m[1], m[2]
	} else {
		fileSlug = stem
	}

	post := BlogPost{
		Title:     strings.TrimSpace(meta.Title),
		Tags:      []string(meta.Tags),
		Summary:   strings.TrimSpace(meta.Summary),
		Content:   strings.TrimLeft(string(body), "\r\n"),
		Published: !meta.Draft,
	}
	if meta.Published != nil {
		post.Published = *meta.Published
	}

	post.Slug = Slugify(meta.Slug)
	if post.Slug == "" {
		post.Slug = Slugify(fileSlug)
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.Slug == "" {
		return BlogPost{}, errors.New("cannot derive a slug")
	}
	if post.Title == "" {
		post.Title = strings.ReplaceAll(fileSlug, "-", " ")
	}

	date, err := resolveDate(meta.Date, fileDate, blog.Location())
	if err != nil {
		return BlogPost{}, err
	}
	post.Date = date
	return post, nil
}

func resolveDate(d postDate, fileDate string, loc *time.Location) (string, error) {
	if raw := strings.TrimSpace(d.raw); raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return t.In(loc).Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("unrecognised date %q", raw)
	}
	if fileDate != "" {
		if _, err := time.Parse("2006-01-02", fileDate); err != nil {
			return "", fmt.Errorf("bad date in file name: %w", err)
		}
		return fileDate, nil
	}
	return "", errors.New("post has no date")
}

// ImportDir walks dir and saves every post file it finds into store.
// Files that fail to parse abort the import with an error naming the file.
func ImportDir(ctx context.Context, store *Store, dir string, blog BlogConfig) (ImportResult, error) {
	var res ImportResult
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := blog.trimPostExt(d.Name()); !ok {
			res.Skipped = append(res.Skipped, path)
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		post, err := ParsePostFile(d.Name(), source, blog)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := store.SavePost(post); err != nil {
			return fmt.Errorf("%s: save: %w", path, err)
		}
		res.Imported = append(res.Imported, post.Slug)
		return nil
	})
	return res, err
}
