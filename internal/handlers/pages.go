package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/seo"
	"github.com/cinezuva/cinezuva/internal/theme"
	"github.com/cinezuva/cinezuva/internal/video"
)

func (h *Handler) getHome(w http.ResponseWriter, r *http.Request) {
	movies := h.repo.ListMovies(r.Context())
	h.render(w, r, http.StatusOK, "home", h.newPage(r, "", &listing{
		Base:     "/",
		Page:     catalog.Paginate(movies, pageParam(r), catalog.PageSize),
		Trending: catalog.Trending(movies),
		Genres:   catalog.CommonGenres,
		Interval: catalog.RotationInterval.Milliseconds(),
	}))
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, title, heading string, movies []catalog.Movie) {
	h.render(w, r, http.StatusOK, "list", h.newPage(r, title, &listing{
		Heading: heading,
		Base:    r.URL.RequestURI(),
		Page:    catalog.Paginate(movies, pageParam(r), catalog.PageSize),
	}))
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		h.renderList(w, r, "Search", "Search", []catalog.Movie{})
		return
	}
	results := catalog.Search(h.repo.ListMovies(r.Context()), q)
	h.renderList(w, r, "Search: "+q, `Results for "`+q+`"`, results)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	movies := catalog.FilterCategory(h.repo.ListMovies(r.Context()), name)
	h.renderList(w, r, name+" Movies", name+" Movies", movies)
}

func (h *Handler) getGenre(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	movies := catalog.FilterGenre(h.repo.ListMovies(r.Context()), name)
	h.renderList(w, r, name+" Movies", name+" Movies", movies)
}

func (h *Handler) getTag(w http.ResponseWriter, r *http.Request) {
	tag := pathParam(r, "name")
	movies := catalog.FilterTag(h.repo.ListMovies(r.Context()), tag)
	h.renderList(w, r, "#"+tag, "#"+tag, movies)
}

type moviePage struct {
	Movie   *catalog.Movie
	Embed   string
	Related []catalog.Movie
}

func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	segment := chi.URLParam(r, "slug")

	m, ok := h.repo.Resolve(ctx, segment)
	if !ok {
		h.render(w, r, http.StatusNotFound, "notfound", h.newPage(r, "Movie Not Found", nil))
		return
	}

	data := &moviePage{
		Movie:   &m,
		Related: h.repo.Related(ctx, m.Category, m.ID),
	}
	data.Embed, _ = video.EmbedURL(m.TrailerURL)
	p := h.newPage(r, m.Title, data)
	meta, err := seo.ForMovie(h.site, &m, h.absURL(r, m.Path()))
	if err != nil {
		slog.WarnContext(ctx, "movie meta failed", slog.String("id", m.ID), logger.Error(err))
	} else {
		p.Meta = &meta
	}
	h.render(w, r, http.StatusOK, "movie", p)
}

// getDownload counts the click and sends the visitor to link n.
func (h *Handler) getDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m, ok := h.repo.GetByID(ctx, chi.URLParam(r, "id"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 || n >= len(m.DownloadLinks) {
		http.Redirect(w, r, m.Path(), http.StatusFound)
		return
	}
	// A failed count never blocks the download.
	h.repo.IncrementDownloadCount(ctx, m.ID)
	http.Redirect(w, r, m.DownloadLinks[n].URL, http.StatusFound)
}

type requestPage struct {
	Sent  bool
	Error string
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "request", h.newPage(r, "Request A Movie", &requestPage{
		Sent: r.URL.Query().Get("sent") == "1",
	}))
}

func (h *Handler) postRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "request", h.newPage(r, "Request A Movie", &requestPage{Error: "Invalid form."}))
		return
	}
	if !h.repo.AddRequest(r.Context(), r.PostForm.Get("movieName")) {
		h.render(w, r, http.StatusUnprocessableEntity, "request", h.newPage(r, "Request A Movie", &requestPage{
			Error: "Could not send the request. Please enter a movie name and try again.",
		}))
		return
	}
	http.Redirect(w, r, "/request?sent=1", http.StatusSeeOther)
}

// getTheme stores the theme choice and returns to the page it came from.
func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	theme.Save(w, chi.URLParam(r, "id"))
	http.Redirect(w, r, sameSiteReferer(r), http.StatusSeeOther)
}

// sameSiteReferer is the referring path when it points at this host.
func sameSiteReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || ref.Path == "" {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

type loginPage struct {
	Email string
	Error string
}

func (h *Handler) getLogin(w http.ResponseWriter, r *http.Request) {
	if h.gate.IsAuthenticated(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", h.newPage(r, "Admin Login", &loginPage{}))
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login", h.newPage(r, "Admin Login", &loginPage{Error: "Invalid form."}))
		return
	}
	email := r.PostForm.Get("email")
	if !h.gate.Login(w, r, email, r.PostForm.Get("password")) {
		h.render(w, r, http.StatusUnauthorized, "login", h.newPage(r, "Admin Login", &loginPage{
			Email: email,
			Error: "Invalid email or password.",
		}))
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) postLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
