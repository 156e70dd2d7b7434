// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxLimit caps the page size a client can request.
const MaxLimit = 100

// MaxPage caps the page number a client can request. Pages past the data are
// simply empty, so the cap only keeps Skip in range.
const MaxPage = 1_000_000

// Default page sizes per listing.
const (
	DefaultLimit      = 10
	NoticeLimit       = 20
	MediaLimit        = 20
	PageListLimit     = 50
	HighlightsLimit   = 5
	SitemapBatchLimit = 1000
)

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads the "page" and "limit" query parameters. Missing or invalid
// values fall back to page 1 and defaultLimit; limit is capped at MaxLimit.
func Parse(r *http.Request, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

// Skip is the number of documents before the requested page.
func (p Params) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (int64(p.Page) - 1) * int64(p.Limit)
}

// Pages returns ceil(total/limit).
func (p Params) Pages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// FindOptions returns Find options with skip and limit applied.
func (p Params) FindOptions() *options.FindOptions {
	return options.Find().SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}
