// Package sitemap renders /api/sitemap.xml from the static site sections and
// the published pages and blog posts.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Source lists published slugs. Both blogstore.Store and pagestore.Store
// satisfy it.
type Source interface {
	PublishedSlugs(ctx context.Context, limit int64) ([]blogstore.SlugEntry, error)
}

type Handler struct {
	Pages   Source
	Blogs   Source
	SiteURL string
	Log     *zap.Logger
	now     func() time.Time
}

func NewHandler(pages, blogs Source, siteURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Pages:   pages,
		Blogs:   blogs,
		SiteURL: strings.TrimRight(siteURL, "/"),
		Log:     logger,
		now:     time.Now,
	}
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

var staticPaths = []string{"/", "/about", "/programs", "/admission", "/blog", "/contact"}

// Serve handles GET /api/sitemap.xml.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pages, err := h.Pages.PublishedSlugs(ctx, paging.SitemapBatchLimit)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	blogs, err := h.Blogs.PublishedSlugs(ctx, paging.SitemapBatchLimit)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	today := h.now().UTC().Format("2006-01-02")
	set := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPaths {
		freq := "weekly"
		if p == "/" {
			freq = "daily"
		}
		set.URLs = append(set.URLs, entry{Loc: h.SiteURL + p, LastMod: today, ChangeFreq: freq, Priority: "0.8"})
	}
	for _, p := range pages {
		set.URLs = append(set.URLs, h.dynamic("/page/", p, "monthly", "0.7"))
	}
	for _, b := range blogs {
		set.URLs = append(set.URLs, h.dynamic("/blog/", b, "weekly", "0.6"))
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

func (h *Handler) dynamic(prefix string, s blogstore.SlugEntry, freq, priority string) entry {
	e := entry{Loc: h.SiteURL + prefix + s.Slug, ChangeFreq: freq, Priority: priority}
	if !s.UpdatedAt.IsZero() {
		e.LastMod = s.UpdatedAt.UTC().Format("2006-01-02")
	}
	return e
}

