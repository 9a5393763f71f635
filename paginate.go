package postline

import "errors"

// ErrPageOutOfRange is returned when a page number falls outside a listing.
var ErrPageOutOfRange = errors.New("page out of range")

// Paginate returns page number (1-based) of posts split into perPage chunks.
// An empty listing still has a single, empty first page. A perPage of zero
// or less puts everything on one page. link builds the URL of a page number.
func Paginate(posts []BlogPost, number, perPage int, link func(int) string) (Page, error) {
	if perPage <= 0 {
		perPage = len(posts)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	if number < 1 || number > total {
		return Page{}, ErrPageOutOfRange
	}

	start := (number - 1) * perPage
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}

	page := Page{
		Posts:   posts[start:end],
		Number:  number,
		Total:   total,
		PerPage: perPage,
	}
	if link != nil {
		if number > 1 {
			page.PrevURL = link(number - 1)
		}
		if number < total {
			page.NextURL = link(number + 1)
		}
	}
	return page, nil
}
