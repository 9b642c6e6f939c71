package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/metadata"
)

const (
	tabDashboard = "dashboard"
	tabMovies    = "movies"
	tabRequests  = "requests"
	tabSettings  = "settings"
)

var adminTabs = []string{tabDashboard, tabMovies, tabRequests, tabSettings}

type adminPage struct {
	Email string
	Error string
	Tabs  []string
	Tab   string

	Ranges []catalog.TimeRange
	Range  catalog.TimeRange
	Stats  catalog.Stats

	Query string
	Base  string
	Page  catalog.Page[catalog.Movie]

	Requests   []catalog.MovieRequest
	SiteConfig catalog.SiteConfig

	Draft        *catalog.Movie
	Editing      bool
	MagicFill    bool
	Categories   []string
	GenreList    []string
	LanguageList []string
}

func (h *Handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tab := q.Get("tab")
	if !slices.Contains(adminTabs, tab) {
		tab = tabDashboard
	}

	draft := &catalog.Movie{}
	editing := false
	if id := q.Get("edit"); id != "" {
		if m, ok := h.repo.GetByID(r.Context(), id); ok {
			draft, editing = &m, true
			tab = tabMovies
		}
	}
	h.renderAdmin(w, r, http.StatusOK, tab, draft, editing, "")
}

// renderAdmin loads whatever the tab shows and renders the admin page.
func (h *Handler) renderAdmin(w http.ResponseWriter, r *http.Request, status int, tab string, draft *catalog.Movie, editing bool, errMsg string) {
	ctx := r.Context()
	q := r.URL.Query()
	now := h.now()

	d := &adminPage{
		Email:        h.gate.Email(r),
		Error:        errMsg,
		Tabs:         adminTabs,
		Tab:          tab,
		Ranges:       catalog.TimeRanges,
		Range:        catalog.ParseTimeRange(q.Get("range")),
		Draft:        draft,
		Editing:      editing,
		MagicFill:    h.generator != nil && h.generator.Available(),
		Categories:   catalog.CategoryList,
		GenreList:    catalog.GenreList,
		LanguageList: catalog.LanguageList,
	}

	switch tab {
	case tabDashboard:
		d.Stats = catalog.ComputeStats(h.repo.ListMovies(ctx), h.repo.ListRequests(ctx), d.Range, now)
	case tabMovies:
		d.Query = strings.TrimSpace(q.Get("q"))
		movies := catalog.FilterTitle(h.repo.ListMovies(ctx), d.Query)
		d.Base = "/admin?" + adminQuery(tabMovies, d.Query)
		d.Page = catalog.Paginate(movies, pageParam(r), catalog.AdminPageSize)
	case tabRequests:
		d.Requests = catalog.FilterRequests(h.repo.ListRequests(ctx), d.Range, now)
	case tabSettings:
		d.SiteConfig = h.repo.SiteConfig(ctx)
	}

	p := h.newPage(r, "Admin", d)
	p.Flashes = h.gate.Flashes(w, r)
	h.render(w, r, status, "admin", p)
}

func adminQuery(tab, q string) string {
	s := "tab=" + tab
	if q != "" {
		s += "&q=" + url.QueryEscape(q)
	}
	return s
}

// movieFromForm reads the editor form. Download link rows are matched by
// position across the three repeated fields.
func movieFromForm(r *http.Request) catalog.Movie {
	f := r.PostForm
	m := catalog.Movie{
		ID:             strings.TrimSpace(f.Get("id")),
		Title:          strings.TrimSpace(f.Get("title")),
		Slug:           strings.TrimSpace(f.Get("slug")),
		Poster:         strings.TrimSpace(f.Get("poster")),
		Year:           strings.TrimSpace(f.Get("year")),
		QualityTag:     strings.TrimSpace(f.Get("qualityTag")),
		Category:       formList(r, "category"),
		Genres:         formList(r, "genres"),
		Language:       strings.Join(formList(r, "language"), ", "),
		Description:    strings.TrimSpace(f.Get("description")),
		TrailerURL:     strings.TrimSpace(f.Get("trailerUrl")),
		Screenshots:    lines(f.Get("screenshots")),
		IsTrending:     f.Get("isTrending") == "true",
		TrendingPoster: strings.TrimSpace(f.Get("trendingPoster")),
		SEOTags:        strings.TrimSpace(f.Get("seoTags")),
	}

	qualities, sizes, urls := f["linkQuality"], f["linkSize"], f["linkUrl"]
	for i := range urls {
		link := catalog.DownloadLink{URL: strings.TrimSpace(urls[i])}
		if link.URL == "" {
			continue
		}
		if i < len(qualities) {
			link.Quality = strings.TrimSpace(qualities[i])
		}
		if i < len(sizes) {
			link.Size = strings.TrimSpace(sizes[i])
		}
		if link.Quality == "" {
			link.Quality = "Download Link"
		}
		m.DownloadLinks = append(m.DownloadLinks, link)
	}
	return m
}

func (h *Handler) postAdminMovie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAdmin(w, r, http.StatusBadRequest, tabMovies, &catalog.Movie{}, false, "Invalid form.")
		return
	}
	m := movieFromForm(r)
	editing, _ := strconv.ParseBool(r.PostForm.Get("editing"))
	if m.Title == "" {
		h.renderAdmin(w, r, http.StatusUnprocessableEntity, tabMovies, &m, editing, "Title is required.")
		return
	}

	saved, ok := h.repo.SaveMovie(r.Context(), m, editing)
	if !ok {
		h.renderAdmin(w, r, http.StatusInternalServerError, tabMovies, &m, editing, "Error saving movie.")
		return
	}
	h.gate.AddFlash(w, r, "Saved "+saved.Title+".")
	http.Redirect(w, r, "/admin?tab="+tabMovies, http.StatusSeeOther)
}

func (h *Handler) postAdminDeleteMovie(w http.ResponseWriter, r *http.Request) {
	if h.repo.DeleteMovie(r.Context(), chi.URLParam(r, "id")) {
		h.gate.AddFlash(w, r, "Movie deleted.")
	} else {
		h.gate.AddFlash(w, r, "Error deleting movie.")
	}
	http.Redirect(w, r, "/admin?tab="+tabMovies, http.StatusSeeOther)
}

// postAdminMetadata fills the submitted draft from the generator and shows
// the editor again without saving.
func (h *Handler) postAdminMetadata(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAdmin(w, r, http.StatusBadRequest, tabMovies, &catalog.Movie{}, false, "Invalid form.")
		return
	}
	m := movieFromForm(r)
	editing, _ := strconv.ParseBool(r.PostForm.Get("editing"))
	if m.Title == "" {
		h.renderAdmin(w, r, http.StatusUnprocessableEntity, tabMovies, &m, editing, "Enter a title first.")
		return
	}
	if h.generator == nil {
		h.renderAdmin(w, r, http.StatusServiceUnavailable, tabMovies, &m, editing, "Metadata generation is unavailable.")
		return
	}

	md, err := h.generator.Generate(r.Context(), m.Title)
	switch {
	case errors.Is(err, metadata.ErrUnavailable):
		h.renderAdmin(w, r, http.StatusServiceUnavailable, tabMovies, &m, editing, "Metadata generation is unavailable.")
		return
	case err != nil:
		slog.WarnContext(r.Context(), "generate metadata failed", slog.String("title", m.Title), logger.Error(err))
		h.renderAdmin(w, r, http.StatusBadGateway, tabMovies, &m, editing, "Could not generate details. Please fill them in manually.")
		return
	}
	metadata.Apply(&m, md)
	h.renderAdmin(w, r, http.StatusOK, tabMovies, &m, editing, "")
}

func (h *Handler) postAdminDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if !h.repo.DeleteRequest(r.Context(), chi.URLParam(r, "id")) {
		h.gate.AddFlash(w, r, "Error deleting request.")
	}
	http.Redirect(w, r, "/admin?tab="+tabRequests, http.StatusSeeOther)
}

func (h *Handler) postAdminConfig(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAdmin(w, r, http.StatusBadRequest, tabSettings, &catalog.Movie{}, false, "Invalid form.")
		return
	}
	cfg := catalog.SiteConfig{
		HowToDownloadURL: strings.TrimSpace(r.PostForm.Get("howToDownloadUrl")),
		TelegramURL:      strings.TrimSpace(r.PostForm.Get("telegramUrl")),
	}
	if h.repo.SaveSiteConfig(r.Context(), cfg) {
		h.gate.AddFlash(w, r, "Settings saved.")
	} else {
		h.gate.AddFlash(w, r, "Error saving settings.")
	}
	http.Redirect(w, r, "/admin?tab="+tabSettings, http.StatusSeeOther)
}
