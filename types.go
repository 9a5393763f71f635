package postline

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost struct {
	Title     string
	Date      string // YYYY-MM-DD in the site's time zone
	Tags      []string
	Summary   string
	Link      string // set by the cache, e.g. "/posts/hello-world/"
	Slug      string
	Content   string // markdown source
	Published bool
	WordCount int // words in the rendered body, set by the cache
}

// Page is one window of a paginated post listing.
type Page struct {
	Posts   []BlogPost
	Number  int // 1-based
	Total   int // number of pages, at least 1
	PerPage int
	PrevURL string // empty on the first page
	NextURL string // empty on the last page
}

// HasPrev reports whether a newer page exists.
func (p Page) HasPrev() bool { return p.PrevURL != "" }

// HasNext reports whether an older page exists.
func (p Page) HasNext() bool { return p.NextURL != "" }

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Media describes an uploaded image stored under the static uploads directory.
type Media struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string // RFC 3339, UTC
}
