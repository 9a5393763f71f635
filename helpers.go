package postline

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostPath returns the site-relative path of a post, e.g. "/posts/hello/".
func (b BlogConfig) PostPath(slug string) string {
	return "/" + b.Prefix + "/" + slug + "/"
}

// TagPath returns the site-relative path of a tag index, e.g. "/posts/tags/go/".
func (b BlogConfig) TagPath(tag string) string {
	link := strings.Trim(b.TagLink, "/")
	link = strings.Replace(link, "{tag}", url.PathEscape(normalizeTag(tag)), 1)
	return "/" + b.Prefix + "/" + link + "/"
}

// PagePath returns the path of page n of the listing rooted at index.
// Page 1 is the index itself.
func (b BlogConfig) PagePath(index string, n int) string {
	if !strings.HasSuffix(index, "/") {
		index += "/"
	}
	if n <= 1 {
		return index
	}
	link := strings.Trim(b.PageLink, "/")
	return index + strings.Replace(link, "{num}", strconv.Itoa(n), 1) + "/"
}

// route turns a link pattern such as "tags/{tag}" into an echo route
// fragment such as "tags/:tag".
func route(pattern string) string {
	pattern = strings.Trim(pattern, "/")
	pattern = strings.Replace(pattern, "{tag}", ":tag", 1)
	return strings.Replace(pattern, "{num}", ":num", 1)
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseTagList splits a comma separated tag field into trimmed, non-empty tags.
func ParseTagList(s string) []string {
	return FilterEmpty(strings.Split(s, ","))
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current BlogPost, posts []BlogPost) []BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []BlogPost
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
// wordCount is included when positive.
func BlogPostingJsonLD(post BlogPost, cfg SiteConfig, wordCount int) string {
	postURL := BuildURL(cfg.URL, cfg.Blog.PostPath(post.Slug))
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	if wordCount > 0 {
		data["wordCount"] = wordCount
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
