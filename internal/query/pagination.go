package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/monocle-dev/house/internal/config"
)

// Pagination is a 1-based page window.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size. A page_size above the configured
// maximum is clamped; an unusable page number yields ErrInvalidPage.
func ParsePagination(values url.Values, cfg config.PagingConfig) (Pagination, error) {
	p := Pagination{Page: 1, PageSize: cfg.PageSize}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" && raw != "last" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, ErrInvalidPage
		}
		p.Page = n
	}

	if raw := strings.TrimSpace(values.Get("page_size")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.PageSize = min(n, cfg.MaxPageSize)
		}
	}

	if values.Get("page") == "last" {
		p.Page = -1
	}

	return p, nil
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NumPages is never below one so an empty collection still has a first page.
func (p Pagination) NumPages(count int64) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// Resolve fixes a "last" page against count and rejects pages past the end.
func (p Pagination) Resolve(count int64) (Pagination, error) {
	pages := p.NumPages(count)
	if p.Page == -1 {
		p.Page = pages
	}
	if p.Page > pages {
		return p, ErrInvalidPage
	}
	return p, nil
}

// Links builds the absolute next and previous URLs for the page, keeping every
// other query parameter of base.
func (p Pagination) Links(base *url.URL, count int64) (next, previous *string) {
	if p.Page < p.NumPages(count) {
		s := pageURL(base, p.Page+1)
		next = &s
	}

	if p.Page > 1 {
		s := pageURL(base, p.Page-1)
		previous = &s
	}

	return next, previous
}

func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
