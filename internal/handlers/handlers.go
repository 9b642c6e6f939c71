// Package handlers wires HTTP routing, the server-rendered pages and the
// JSON API.
package handlers

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinezuva/cinezuva/internal/auth"
	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/metadata"
	"github.com/cinezuva/cinezuva/internal/web"
)

// Generator produces editor metadata from a title.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, title string) (*metadata.Metadata, error)
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	repo      *catalog.Repository
	gate      *auth.Gate
	generator Generator
	db        Pinger
	pages     map[string]*template.Template
	static    fs.FS
	site      string
	baseURL   string
	now       func() time.Time
}

type Config struct {
	Repo      *catalog.Repository
	Gate      *auth.Gate
	Generator Generator
	DB        Pinger
	SiteName  string
	// BaseURL is the public origin, used for canonical links.
	BaseURL string
}

func New(cfg *Config) (*Handler, error) {
	if cfg.Repo == nil {
		return nil, errors.New("repository is required")
	}
	if cfg.Gate == nil {
		return nil, errors.New("auth gate is required")
	}

	pages, err := web.Templates(templateFuncs())
	if err != nil {
		return nil, err
	}
	static, err := web.Static()
	if err != nil {
		return nil, err
	}

	site := strings.TrimSpace(cfg.SiteName)
	if site == "" {
		site = "Cinezuva"
	}

	return &Handler{
		repo:      cfg.Repo,
		gate:      cfg.Gate,
		generator: cfg.Generator,
		db:        cfg.DB,
		pages:     pages,
		static:    static,
		site:      site,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		now:       time.Now,
	}, nil
}

// RegisterRoutes mounts everything except the JSON API, which NewRouter
// mounts under /api with its own middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))
	r.Get("/healthz", h.getHealth)

	r.Get("/", h.getHome)
	r.Get("/search", h.getSearch)
	r.Get("/category/{name}", h.getCategory)
	r.Get("/genre/{name}", h.getGenre)
	r.Get("/tag/{name}", h.getTag)
	r.Get("/request", h.getRequest)
	r.Post("/request", h.postRequest)
	r.Get("/theme/{id}", h.getTheme)
	r.Get("/download/{id}/{n}", h.getDownload)

	r.Get("/login", h.getLogin)
	r.Post("/login", h.postLogin)
	r.Post("/logout", h.postLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuth, noStore)

		r.Get("/admin", h.getAdmin)
		r.Post("/admin/movies", h.postAdminMovie)
		r.Post("/admin/movies/{id}/delete", h.postAdminDeleteMovie)
		r.Post("/admin/metadata", h.postAdminMetadata)
		r.Post("/admin/requests/{id}/delete", h.postAdminDeleteRequest)
		r.Post("/admin/config", h.postAdminConfig)
	})

	// Registered last: a single segment that no route above claims is a
	// movie slug or legacy id.
	r.Get("/{slug}", h.getMovie)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
}

// RegisterAPIRoutes mounts the JSON API on r.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/session", Adapt(h.apiGetSession))
	r.Method(http.MethodGet, "/config", Adapt(h.apiGetConfig))
	r.Method(http.MethodGet, "/movies", Adapt(h.apiGetMovies))
	r.Method(http.MethodGet, "/movies/{slug}", Adapt(h.apiGetMovie))
	r.Method(http.MethodPost, "/movies/{id}/download", Adapt(h.apiPostDownload))
	r.Method(http.MethodGet, "/suggest", Adapt(h.apiGetSuggest))
	r.Method(http.MethodPost, "/requests", Adapt(h.apiPostRequest))

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.MiddlewareRequireAuth)

		r.Method(http.MethodGet, "/stats", Adapt(h.apiGetStats))
		r.Method(http.MethodGet, "/requests", Adapt(h.apiGetRequests))
		r.Method(http.MethodPost, "/movies", Adapt(h.apiPostMovie))
		r.Method(http.MethodDelete, "/movies/{id}", Adapt(h.apiDeleteMovie))
		r.Method(http.MethodPost, "/metadata", Adapt(h.apiPostMetadata))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "not found"})
	})
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
