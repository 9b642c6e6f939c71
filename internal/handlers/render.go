package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/seo"
	"github.com/cinezuva/cinezuva/internal/theme"
	"github.com/cinezuva/cinezuva/internal/video"
)

// page is the data every template receives. Data holds the page's own
// view model.
type page struct {
	Site       string
	Title      string
	Query      string
	Theme      theme.Theme
	Themes     []theme.Theme
	Config     catalog.SiteConfig
	Admin      bool
	Categories []string
	Meta       *seo.Meta
	Flashes    []string
	Data       any
}

// listing is the view model of every paged movie grid.
type listing struct {
	Heading  string
	Base     string
	Page     catalog.Page[catalog.Movie]
	Trending []catalog.Movie
	Genres   []string
	Interval int64
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"upper": strings.ToUpper,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"contains": func(list []string, s string) bool { return slices.Contains(list, s) },
		"year":     func() int { return time.Now().Year() },
		"date": func(ms int64) string {
			return time.UnixMilli(ms).UTC().Format("02 Jan 2006 15:04")
		},
		"embed": func(raw string) string {
			u, _ := video.EmbedURL(raw)
			return u
		},
		"pageURL":    pageURL,
		"pathEscape": url.PathEscape,
	}
}

// pageURL adds page=n to base, keeping its other query parameters.
func pageURL(base string, n int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (h *Handler) newPage(r *http.Request, title string, data any) *page {
	return &page{
		Site:       h.site,
		Title:      title,
		Query:      r.URL.Query().Get("q"),
		Theme:      theme.Current(r),
		Themes:     theme.All,
		Config:     h.repo.SiteConfig(r.Context()),
		Admin:      h.gate.IsAuthenticated(r),
		Categories: catalog.CategoryList,
		Data:       data,
	}
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, p *page) {
	t, ok := h.pages[name]
	if !ok {
		slog.ErrorContext(r.Context(), "unknown template", slog.String("name", name))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.ErrorContext(r.Context(), "render failed", slog.String("name", name), logger.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "write page failed", logger.Error(err))
	}
}

// absURL resolves a site path against the configured public origin, or the
// request's own host when none is configured.
func (h *Handler) absURL(r *http.Request, path string) string {
	if h.baseURL != "" {
		return h.baseURL + path
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
