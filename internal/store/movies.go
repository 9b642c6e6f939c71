package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

var _ catalog.Store = (*Store)(nil)

type movieRow struct {
	bun.BaseModel `bun:"table:movies,alias:m"`

	ID             string                 `bun:"id,pk"`
	Slug           string                 `bun:"slug"`
	Title          string                 `bun:"title,notnull"`
	Poster         string                 `bun:"poster"`
	Screenshots    []string               `bun:"screenshots"`
	Category       []string               `bun:"category"`
	Genres         []string               `bun:"genres"`
	Year           string                 `bun:"year"`
	Language       string                 `bun:"language"`
	Description    string                 `bun:"description"`
	TrailerURL     string                 `bun:"trailer_url"`
	QualityTag     string                 `bun:"quality_tag"`
	DownloadLinks  []catalog.DownloadLink `bun:"download_links"`
	AddedAt        int64                  `bun:"added_at"`
	IsTrending     bool                   `bun:"is_trending"`
	TrendingPoster string                 `bun:"trending_poster"`
	SEOTags        string                 `bun:"seo_tags"`
	DownloadCount  int64                  `bun:"download_count"`
}

// Columns written on insert and update, slug excluded.
var movieColumns = []string{
	"id",
	"title",
	"poster",
	"screenshots",
	"category",
	"genres",
	"year",
	"language",
	"description",
	"trailer_url",
	"quality_tag",
	"download_links",
	"added_at",
	"is_trending",
	"trending_poster",
	"seo_tags",
	"download_count",
}

func columns(opts catalog.WriteOptions) []string {
	if opts.OmitSlug {
		return movieColumns
	}
	return append([]string{"slug"}, movieColumns...)
}

func updateColumns(opts catalog.WriteOptions) []string {
	var cols []string
	for _, c := range columns(opts) {
		if c != "id" {
			cols = append(cols, c)
		}
	}
	return cols
}

func fromMovie(m *catalog.Movie) movieRow {
	return movieRow{
		ID:             m.ID,
		Slug:           m.Slug,
		Title:          m.Title,
		Poster:         m.Poster,
		Screenshots:    m.Screenshots,
		Category:       m.Category,
		Genres:         m.Genres,
		Year:           m.Year,
		Language:       m.Language,
		Description:    m.Description,
		TrailerURL:     m.TrailerURL,
		QualityTag:     m.QualityTag,
		DownloadLinks:  m.DownloadLinks,
		AddedAt:        m.AddedAt,
		IsTrending:     m.IsTrending,
		TrendingPoster: m.TrendingPoster,
		SEOTags:        m.SEOTags,
		DownloadCount:  m.DownloadCount,
	}
}

func (r *movieRow) movie() catalog.Movie {
	m := catalog.Movie{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Poster:         r.Poster,
		Screenshots:    r.Screenshots,
		Category:       r.Category,
		Genres:         r.Genres,
		Year:           r.Year,
		Language:       r.Language,
		Description:    r.Description,
		TrailerURL:     r.TrailerURL,
		QualityTag:     r.QualityTag,
		DownloadLinks:  r.DownloadLinks,
		AddedAt:        r.AddedAt,
		IsTrending:     r.IsTrending,
		TrendingPoster: r.TrendingPoster,
		SEOTags:        r.SEOTags,
		DownloadCount:  r.DownloadCount,
	}
	if m.Category == nil {
		m.Category = []string{}
	}
	if m.Genres == nil {
		m.Genres = []string{}
	}
	return m
}

func toMovies(rows []movieRow) []catalog.Movie {
	out := make([]catalog.Movie, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].movie())
	}
	return out
}

// selectMovies selects every column except slug when the schema lacks it,
// so listing keeps working on databases that were never migrated.
func (s *Store) selectMovies(ctx context.Context, model any) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	if has, err := s.hasColumn(ctx, "movies", "slug"); err == nil && !has {
		q = q.Column(movieColumns...)
	}
	return q
}

func (s *Store) ListMovies(ctx context.Context) ([]catalog.Movie, error) {
	var rows []movieRow
	if err := s.selectMovies(ctx, &rows).OrderExpr("added_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return toMovies(rows), nil
}

func (s *Store) ListMoviesExcept(ctx context.Context, id string, limit int) ([]catalog.Movie, error) {
	var rows []movieRow
	err := s.selectMovies(ctx, &rows).
		Where("id != ?", id).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies except %s: %w", id, err)
	}
	return toMovies(rows), nil
}

func (s *Store) GetMovie(ctx context.Context, id string) (catalog.Movie, error) {
	var row movieRow
	err := s.selectMovies(ctx, &row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return catalog.Movie{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	return row.movie(), nil
}

func (s *Store) GetMovieBySlug(ctx context.Context, slug string) (catalog.Movie, error) {
	var row movieRow
	err := s.db.NewSelect().
		Model(&row).
		Where("slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return catalog.Movie{}, fmt.Errorf("get movie by slug %s: %w", slug, err)
	}
	return row.movie(), nil
}

func (s *Store) InsertMovie(ctx context.Context, m *catalog.Movie, opts catalog.WriteOptions) error {
	row := fromMovie(m)
	_, err := s.db.NewInsert().
		Model(&row).
		Column(columns(opts)...).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// UpdateMovie replaces the stored record. Updating an id that does not
// exist is not an error.
func (s *Store) UpdateMovie(ctx context.Context, m *catalog.Movie, opts catalog.WriteOptions) error {
	row := fromMovie(m)
	_, err := s.db.NewUpdate().
		Model(&row).
		Column(updateColumns(opts)...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update movie %s: %w", m.ID, err)
	}
	return nil
}

func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Table("movies").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete movie %s: %w", id, err)
	}
	return nil
}

func (s *Store) DownloadCount(ctx context.Context, id string) (int64, error) {
	var n int64
	err := s.db.NewSelect().
		Table("movies").
		Column("download_count").
		Where("id = ?", id).
		Limit(1).
		Scan(ctx, &n)
	if err != nil {
		return 0, fmt.Errorf("download count %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) SetDownloadCount(ctx context.Context, id string, count int64) error {
	res, err := s.db.NewUpdate().
		Table("movies").
		Set("download_count = ?", count).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set download count %s: %w", id, err)
	}
	return expectRowsAffected(res)
}
