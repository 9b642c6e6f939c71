package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/cinezuva/cinezuva/internal/env"
)

type RouterOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter builds the full HTTP handler: request logging, panic recovery,
// the pages and the JSON API under /api.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(log, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS.Concise(env.Current == env.Local),
		RecoverPanics: true,
		Skip: func(req *http.Request, respStatus int) bool {
			return respStatus < 400 &&
				(strings.HasPrefix(req.URL.Path, "/static/") || req.URL.Path == "/healthz")
		},
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		if len(opts.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.CORSOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		h.RegisterAPIRoutes(r)
	})
	h.RegisterRoutes(r)
	return r
}
