package postline

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPosts(t *testing.T, s *Store, posts ...BlogPost) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%q) failed: %v", p.Slug, err)
		}
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"Go", "testing", "go"},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	}
	seedPosts(t, s, post)

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Date != post.Date {
		t.Errorf("Date = %q, want %q", got.Date, post.Date)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Link != "" {
		t.Errorf("Link = %q, store should not set links", got.Link)
	}
	if !got.Published {
		t.Error("Published should be true")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{Slug: "update-test", Title: "Original Title", Date: "2024-01-01", Tags: []string{"original"}, Published: true}
	seedPosts(t, s, post)

	post.Title = "Updated Title"
	post.Tags = []string{"updated", "modified"}
	seedPosts(t, s, post)

	got, err := s.GetPost("update-test")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags count = %d, want 2", len(got.Tags))
	}
}

func TestSavePostRequiresSlug(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SavePost(BlogPost{Title: "No slug"}); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostUnpublished(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-01", Published: false})

	if _, err := s.GetPost("draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost should return ErrNotFound for drafts, got %v", err)
	}
	got, err := s.GetPostAny("draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("Published should be false")
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		BlogPost{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Published: true},
		BlogPost{Slug: "post-2", Title: "Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}, Published: true},
		BlogPost{Slug: "post-3", Title: "Post 3", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
		BlogPost{Slug: "post-4", Title: "Post 4", Date: "2024-01-04", Tags: []string{"go"}, Published: false},
	)

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3", len(got))
	}
	if got[0].Slug != "post-3" || got[2].Slug != "post-1" {
		t.Errorf("order = %s, %s, %s; want newest first", got[0].Slug, got[1].Slug, got[2].Slug)
	}

	tests := []struct {
		tag  string
		want int
	}{
		{"go", 2},
		{"GO", 2},
		{" web ", 1},
		{"rust", 1},
		{"python", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) count = %d, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestListPostsTagIsExactMatch(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, BlogPost{Slug: "golang", Title: "G", Date: "2024-01-01", Tags: []string{"golang"}, Published: true})

	got, err := s.ListPosts("go")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tag %q should not match %q", "go", "golang")
	}
}

func TestListAllPostsIncludesDrafts(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2024-01-01", Published: true},
		BlogPost{Slug: "b", Title: "B", Date: "2024-01-02", Published: false},
	)
	got, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListAllPosts count = %d, want 2", len(got))
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2024-01-01", Tags: []string{"web", "go"}, Published: true},
		BlogPost{Slug: "b", Title: "B", Date: "2024-01-02", Tags: []string{"Go"}, Published: true},
		BlogPost{Slug: "c", Title: "C", Date: "2024-01-03", Tags: []string{"secret"}, Published: false},
	)
	got, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "web"}
	if len(got) != len(want) {
		t.Fatalf("ListTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	seedPosts(t, s, BlogPost{Slug: "to-delete", Title: "X", Date: "2024-01-01", Published: true})

	if err := s.DeletePost("to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny("to-delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post should be gone, got %v", err)
	}
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("deleting a missing post should not fail: %v", err)
	}
}

func TestMediaLifecycle(t *testing.T) {
	s := setupTestStore(t)
	m := Media{Filename: "cat.jpg", OriginalName: "Cat.PNG", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveMedia(m); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}

	exists, err := s.MediaExists("cat.jpg")
	if err != nil || !exists {
		t.Fatalf("MediaExists = %v, %v; want true", exists, err)
	}
	list, err := s.ListMedia()
	if err != nil {
		t.Fatalf("ListMedia failed: %v", err)
	}
	if len(list) != 1 || list[0] != m {
		t.Errorf("ListMedia = %+v, want [%+v]", list, m)
	}

	if err := s.DeleteMedia("cat.jpg"); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}
	if exists, _ := s.MediaExists("cat.jpg"); exists {
		t.Error("media should be gone")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{"go,web", []string{"go", "web"}},
		{",single,", []string{"single"}},
		{"", nil},
		{",,", nil},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"Go", " web ", "go"}, ",go,web,"},
		{[]string{"", "  "}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := formatTags(tt.in); got != tt.want {
			t.Errorf("formatTags(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
