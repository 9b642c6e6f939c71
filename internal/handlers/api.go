package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/metadata"
)

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

func (h *Handler) apiGetSession(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, &sessionResponse{
		Authenticated: h.gate.IsAuthenticated(r),
		Email:         h.gate.Email(r),
	})
	return nil
}

func (h *Handler) apiGetConfig(w http.ResponseWriter, r *http.Request) error {
	cfg := h.repo.SiteConfig(r.Context())
	writeJSON(w, http.StatusOK, &cfg)
	return nil
}

type moviesResponse struct {
	Movies     []catalog.Movie `json:"movies"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

// apiGetMovies lists one page of the catalog. The optional category, genre,
// tag and q parameters narrow it the same way the pages do.
func (h *Handler) apiGetMovies(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	movies := h.repo.ListMovies(r.Context())
	if v := q.Get("category"); v != "" {
		movies = catalog.FilterCategory(movies, v)
	}
	if v := q.Get("genre"); v != "" {
		movies = catalog.FilterGenre(movies, v)
	}
	if v := q.Get("tag"); v != "" {
		movies = catalog.FilterTag(movies, v)
	}
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		movies = catalog.Search(movies, v)
	}

	p := catalog.Paginate(movies, pageParam(r), catalog.PageSize)
	writeJSON(w, http.StatusOK, &moviesResponse{
		Movies:     p.Items,
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	})
	return nil
}

type movieResponse struct {
	Movie   catalog.Movie   `json:"movie"`
	Path    string          `json:"path"`
	Related []catalog.Movie `json:"related"`
}

func (h *Handler) apiGetMovie(w http.ResponseWriter, r *http.Request) error {
	m, ok := h.repo.Resolve(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		return notFound("movie not found")
	}
	writeJSON(w, http.StatusOK, &movieResponse{
		Movie:   m,
		Path:    m.Path(),
		Related: h.repo.Related(r.Context(), m.Category, m.ID),
	})
	return nil
}

func (h *Handler) apiPostDownload(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if _, ok := h.repo.GetByID(r.Context(), id); !ok {
		return notFound("movie not found")
	}
	h.repo.IncrementDownloadCount(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type suggestion struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

type suggestResponse struct {
	Movies []suggestion `json:"movies"`
}

func (h *Handler) apiGetSuggest(w http.ResponseWriter, r *http.Request) error {
	resp := &suggestResponse{Movies: []suggestion{}}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, resp)
		return nil
	}
	for _, m := range catalog.Suggest(h.repo.ListMovies(r.Context()), q) {
		resp.Movies = append(resp.Movies, suggestion{
			ID:     m.ID,
			Path:   m.Path(),
			Title:  m.Title,
			Year:   m.Year,
			Poster: m.Poster,
		})
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

type requestBody struct {
	MovieName string `json:"movieName"`
}

func (h *Handler) apiPostRequest(w http.ResponseWriter, r *http.Request) error {
	var body requestBody
	if err := decodeJSON(w, r, &body); err != nil {
		return badRequest("invalid json")
	}
	if strings.TrimSpace(body.MovieName) == "" {
		return badRequest("movieName is required")
	}
	if !h.repo.AddRequest(r.Context(), body.MovieName) {
		return internal("could not save request")
	}
	w.WriteHeader(http.StatusCreated)
	return nil
}

func (h *Handler) apiGetStats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	tr := catalog.ParseTimeRange(r.URL.Query().Get("range"))
	st := catalog.ComputeStats(h.repo.ListMovies(ctx), h.repo.ListRequests(ctx), tr, h.now())
	writeJSON(w, http.StatusOK, map[string]any{
		"range":          st.Range,
		"movies":         st.Movies,
		"requests":       st.Requests,
		"totalDownloads": st.TotalDownloads,
		"trending":       st.Trending,
		"top":            st.Top,
	})
	return nil
}

func (h *Handler) apiGetRequests(w http.ResponseWriter, r *http.Request) error {
	tr := catalog.ParseTimeRange(r.URL.Query().Get("range"))
	requests := catalog.FilterRequests(h.repo.ListRequests(r.Context()), tr, h.now())
	if requests == nil {
		requests = []catalog.MovieRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
	return nil
}

type saveMovieBody struct {
	Movie   catalog.Movie `json:"movie"`
	Editing bool          `json:"editing"`
}

func (h *Handler) apiPostMovie(w http.ResponseWriter, r *http.Request) error {
	var body saveMovieBody
	if err := decodeJSON(w, r, &body); err != nil {
		return badRequest("invalid json")
	}
	if strings.TrimSpace(body.Movie.Title) == "" {
		return badRequest("title is required")
	}
	if body.Editing && body.Movie.ID == "" {
		return badRequest("id is required when editing")
	}

	saved, ok := h.repo.SaveMovie(r.Context(), body.Movie, body.Editing)
	if !ok {
		return internal("error saving movie")
	}
	status := http.StatusCreated
	if body.Editing {
		status = http.StatusOK
	}
	writeJSON(w, status, &saved)
	return nil
}

func (h *Handler) apiDeleteMovie(w http.ResponseWriter, r *http.Request) error {
	if !h.repo.DeleteMovie(r.Context(), chi.URLParam(r, "id")) {
		return internal("error deleting movie")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type metadataBody struct {
	Title string `json:"title"`
}

func (h *Handler) apiPostMetadata(w http.ResponseWriter, r *http.Request) error {
	var body metadataBody
	if err := decodeJSON(w, r, &body); err != nil {
		return badRequest("invalid json")
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return badRequest("title is required")
	}
	if h.generator == nil {
		return &Error{Status: http.StatusServiceUnavailable, Message: metadata.ErrUnavailable.Error()}
	}

	md, err := h.generator.Generate(r.Context(), title)
	switch {
	case errors.Is(err, metadata.ErrUnavailable):
		return &Error{Status: http.StatusServiceUnavailable, Message: err.Error()}
	case err != nil:
		slog.WarnContext(r.Context(), "generate metadata failed", slog.String("title", title), logger.Error(err))
		return &Error{Status: http.StatusBadGateway, Message: "metadata generation failed"}
	}
	writeJSON(w, http.StatusOK, md)
	return nil
}
