package postline

import (
	"encoding/json"
	"testing"
)

func testBlog() BlogConfig {
	var b BlogConfig
	b.setDefaults()
	return b
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.22: What's New?  ", "go-1-22-what-s-new"},
		{"---", ""},
		{"Ünïcode Tïtle", "n-code-t-tle"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlogPaths(t *testing.T) {
	b := testBlog()
	if got := b.PostPath("hello"); got != "/posts/hello/" {
		t.Errorf("PostPath = %q", got)
	}
	tagTests := []struct {
		tag, want string
	}{
		{"go", "/posts/tags/go/"},
		{"Go", "/posts/tags/go/"},
		{"c sharp", "/posts/tags/c%20sharp/"},
	}
	for _, tt := range tagTests {
		if got := b.TagPath(tt.tag); got != tt.want {
			t.Errorf("TagPath(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
	pageTests := []struct {
		index string
		n     int
		want  string
	}{
		{"/", 1, "/"},
		{"/", 2, "/page/2/"},
		{"/posts/tags/go/", 3, "/posts/tags/go/page/3/"},
		{"/posts/tags/go", 2, "/posts/tags/go/page/2/"},
	}
	for _, tt := range pageTests {
		if got := b.PagePath(tt.index, tt.n); got != tt.want {
			t.Errorf("PagePath(%q, %d) = %q, want %q", tt.index, tt.n, got, tt.want)
		}
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tags/{tag}", "tags/:tag"},
		{"/page/{num}/", "page/:num"},
		{"categories/{tag}", "categories/:tag"},
	}
	for _, tt := range tests {
		if got := route(tt.in); got != tt.want {
			t.Errorf("route(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"posts", "hello"}, "https://example.com/posts/hello/"},
		{"https://example.com/blog", []string{"/posts/hello/"}, "https://example.com/blog/posts/hello/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestParseTagList(t *testing.T) {
	got := ParseTagList(" go, web ,, rust ")
	want := []string{"go", "web", "rust"}
	if len(got) != len(want) {
		t.Fatalf("ParseTagList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseTagList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := BlogPost{Slug: "a", Tags: []string{"Go"}}
	posts := []BlogPost{
		current,
		{Slug: "b", Tags: []string{"go", "web"}},
		{Slug: "c", Tags: []string{"rust"}},
		{Slug: "d", Tags: []string{"GO"}},
	}
	got := FilterRelatedPosts(current, posts)
	if len(got) != 2 || got[0].Slug != "b" || got[1].Slug != "d" {
		t.Errorf("FilterRelatedPosts = %v, want b, d", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://example.com", Author: "Ann", Blog: testBlog()}
	post := BlogPost{Slug: "hello", Title: "Hello", Date: "2024-01-15", Tags: []string{"go", "web"}}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg, 420)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["url"] != "https://example.com/posts/hello/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["wordCount"] != float64(420) {
		t.Errorf("wordCount = %v, want 420", data["wordCount"])
	}
	if data["keywords"] != "go, web" {
		t.Errorf("keywords = %v", data["keywords"])
	}

	var bare map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg, 0)), &bare); err != nil {
		t.Fatal(err)
	}
	if _, ok := bare["wordCount"]; ok {
		t.Error("wordCount should be omitted when zero")
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	var data map[string]any
	if err := json.Unmarshal([]byte(WebsiteJsonLD(SiteConfig{Name: "Blog", URL: "https://example.com"})), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["@type"] != "WebSite" || data["name"] != "Blog" {
		t.Errorf("unexpected JSON-LD: %v", data)
	}
	if _, ok := data["author"]; ok {
		t.Error("author should be omitted when empty")
	}
}
