package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinezuva/cinezuva/internal/logger"
)

const (
	// RelatedFetchLimit is how many other movies are fetched before the
	// category filter runs.
	RelatedFetchLimit = 10
	// RelatedLimit caps the related movies shown on a detail page.
	RelatedLimit = 6
)

// Repository is the boundary between pages and the store. No error crosses
// it: failures are logged and turned into an empty list, absence or false.
type Repository struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewRepository(st Store, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{store: st, log: log, now: time.Now}
}

// ListMovies returns every movie, newest first.
func (r *Repository) ListMovies(ctx context.Context) []Movie {
	movies, err := r.store.ListMovies(ctx)
	if err != nil {
		r.log.Error("list movies failed", logger.Error(err))
		return []Movie{}
	}
	return movies
}

func (r *Repository) CreateMovie(ctx context.Context, m Movie) bool {
	m.prepare()
	return r.write(ctx, "create", &m, r.store.InsertMovie)
}

func (r *Repository) UpdateMovie(ctx context.Context, m Movie) bool {
	m.prepare()
	return r.write(ctx, "update", &m, r.store.UpdateMovie)
}

type writeFunc func(context.Context, *Movie, WriteOptions) error

// write runs fn with the full payload and, when the schema has no slug
// column, exactly once more without it.
func (r *Repository) write(ctx context.Context, op string, m *Movie, fn writeFunc) bool {
	err := fn(ctx, m, WriteOptions{})
	if err == nil {
		return true
	}
	if !IsSlugSchemaError(err) {
		r.log.Error("movie write failed", slog.String("op", op), slog.String("id", m.ID), logger.Error(err))
		return false
	}

	r.log.Warn("slug column missing, retrying without slug", slog.String("op", op), slog.String("id", m.ID))
	if err := fn(ctx, m, WriteOptions{OmitSlug: true}); err != nil {
		r.log.Error("movie write failed (retry)", slog.String("op", op), slog.String("id", m.ID), logger.Error(err))
		return false
	}
	return true
}

// SaveMovie stores a record coming from the admin editor. Edits keep the id,
// addedAt and downloadCount of the stored record; new records get a fresh
// id, the current time and a zero counter.
func (r *Repository) SaveMovie(ctx context.Context, m Movie, editing bool) (Movie, bool) {
	if editing {
		m.AddedAt = r.now().UnixMilli()
		m.DownloadCount = 0
		if prior, ok := r.GetByID(ctx, m.ID); ok {
			if prior.AddedAt != 0 {
				m.AddedAt = prior.AddedAt
			}
			m.DownloadCount = prior.DownloadCount
		}
		return m, r.UpdateMovie(ctx, m)
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.AddedAt = r.now().UnixMilli()
	m.DownloadCount = 0
	return m, r.CreateMovie(ctx, m)
}

// DeleteMovie removes a movie. Deleting an id that does not exist succeeds.
func (r *Repository) DeleteMovie(ctx context.Context, id string) bool {
	if err := r.store.DeleteMovie(ctx, id); err != nil {
		r.log.Error("delete movie failed", slog.String("id", id), logger.Error(err))
		return false
	}
	return true
}

func (r *Repository) GetByID(ctx context.Context, id string) (Movie, bool) {
	if id == "" {
		return Movie{}, false
	}
	m, err := r.store.GetMovie(ctx, id)
	if err != nil {
		r.logLookup("id", id, err)
		return Movie{}, false
	}
	return m, true
}

func (r *Repository) GetBySlug(ctx context.Context, s string) (Movie, bool) {
	if s == "" {
		return Movie{}, false
	}
	m, err := r.store.GetMovieBySlug(ctx, s)
	if err != nil {
		r.logLookup("slug", s, err)
		return Movie{}, false
	}
	return m, true
}

func (r *Repository) logLookup(key, val string, err error) {
	if isNoRows(err) {
		return
	}
	r.log.Warn("movie lookup failed", slog.String(key, val), logger.Error(err))
}

// Related returns up to RelatedLimit movies sharing a category with the
// given one. Only the first RelatedFetchLimit other movies are considered,
// so the result can under-fill even when more matches exist.
func (r *Repository) Related(ctx context.Context, categories []string, id string) []Movie {
	if len(categories) == 0 {
		return nil
	}
	candidates, err := r.store.ListMoviesExcept(ctx, id, RelatedFetchLimit)
	if err != nil {
		r.log.Warn("related movies failed", slog.String("id", id), logger.Error(err))
		return nil
	}
	return filterRelated(candidates, categories)
}

func filterRelated(candidates []Movie, categories []string) []Movie {
	var out []Movie
	for i := range candidates {
		if len(out) == RelatedLimit {
			break
		}
		if sharesCategory(candidates[i].Category, categories) {
			out = append(out, candidates[i])
		}
	}
	return out
}

func sharesCategory(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// IncrementDownloadCount reads the counter and writes it back plus one.
// The two calls are independent: concurrent increments can lose updates.
func (r *Repository) IncrementDownloadCount(ctx context.Context, id string) bool {
	current, err := r.store.DownloadCount(ctx, id)
	if err != nil {
		r.log.Warn("read download count failed", slog.String("id", id), logger.Error(err))
		return false
	}
	if err := r.store.SetDownloadCount(ctx, id, current+1); err != nil {
		r.log.Warn("write download count failed", slog.String("id", id), logger.Error(err))
		return false
	}
	return true
}

// ListRequests returns visitor requests, newest first.
func (r *Repository) ListRequests(ctx context.Context) []MovieRequest {
	reqs, err := r.store.ListRequests(ctx)
	if err != nil {
		r.log.Error("list requests failed", logger.Error(err))
		return []MovieRequest{}
	}
	return reqs
}

func (r *Repository) AddRequest(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	req := MovieRequest{
		ID:        uuid.NewString(),
		MovieName: name,
		Timestamp: r.now().UnixMilli(),
	}
	if err := r.store.InsertRequest(ctx, &req); err != nil {
		r.log.Error("add request failed", logger.Error(err))
		return false
	}
	return true
}

func (r *Repository) DeleteRequest(ctx context.Context, id string) bool {
	if err := r.store.DeleteRequest(ctx, id); err != nil {
		r.log.Error("delete request failed", slog.String("id", id), logger.Error(err))
		return false
	}
	return true
}

// SiteConfig returns the stored links, or empty links when none are saved
// or the store is unreachable.
func (r *Repository) SiteConfig(ctx context.Context) SiteConfig {
	cfg, err := r.store.GetSiteConfig(ctx)
	if err != nil {
		if !isNoRows(err) {
			r.log.Warn("get site config failed", logger.Error(err))
		}
		return SiteConfig{}
	}
	return cfg
}

// SaveSiteConfig updates the singleton row, inserting it the first time.
func (r *Repository) SaveSiteConfig(ctx context.Context, cfg SiteConfig) bool {
	id, err := r.store.SiteConfigID(ctx)
	switch {
	case err == nil:
		err = r.store.UpdateSiteConfig(ctx, id, cfg)
	case isNoRows(err):
		err = r.store.InsertSiteConfig(ctx, uuid.NewString(), cfg)
	}
	if err != nil {
		r.log.Error("save site config failed", logger.Error(err))
		return false
	}
	return true
}

// BackfillSlugs writes a slug on every stored movie that has none. It
// returns how many movies were updated and how many failed.
func (r *Repository) BackfillSlugs(ctx context.Context) (updated, failed int) {
	for _, m := range r.ListMovies(ctx) {
		if m.Slug != "" {
			continue
		}
		if r.UpdateMovie(ctx, m) {
			updated++
		} else {
			failed++
		}
	}
	return updated, failed
}
