package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// WriteOptions narrows the columns of a movie write.
type WriteOptions struct {
	// OmitSlug leaves the slug column out of the statement, for schemas
	// that predate slugs.
	OmitSlug bool
}

// Store is the backing database. Implementations return sql.ErrNoRows (or
// an error wrapping it) for point lookups that find nothing.
type Store interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	ListMoviesExcept(ctx context.Context, id string, limit int) ([]Movie, error)
	GetMovie(ctx context.Context, id string) (Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (Movie, error)
	InsertMovie(ctx context.Context, m *Movie, opts WriteOptions) error
	UpdateMovie(ctx context.Context, m *Movie, opts WriteOptions) error
	DeleteMovie(ctx context.Context, id string) error
	DownloadCount(ctx context.Context, id string) (int64, error)
	SetDownloadCount(ctx context.Context, id string, count int64) error

	ListRequests(ctx context.Context) ([]MovieRequest, error)
	InsertRequest(ctx context.Context, req *MovieRequest) error
	DeleteRequest(ctx context.Context, id string) error

	GetSiteConfig(ctx context.Context) (SiteConfig, error)
	SiteConfigID(ctx context.Context) (string, error)
	InsertSiteConfig(ctx context.Context, id string, cfg SiteConfig) error
	UpdateSiteConfig(ctx context.Context, id string, cfg SiteConfig) error
}

// IsSlugSchemaError reports whether err is the backend rejecting a write
// because the slug column does not exist in the target schema.
func IsSlugSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "slug") &&
		(strings.Contains(msg, "column") || strings.Contains(msg, "schema"))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
