package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// memStore is an in-memory Store. Movies keep insertion order.
type memStore struct {
	movies   []Movie
	requests []MovieRequest
	cfgID    string
	cfg      SiteConfig

	noSlugColumn bool
	failReads    bool
	writes       []WriteOptions
}

var errBackend = errors.New("backend unavailable")

func (s *memStore) ListMovies(context.Context) ([]Movie, error) {
	if s.failReads {
		return nil, errBackend
	}
	return slices.Clone(s.movies), nil
}

func (s *memStore) ListMoviesExcept(_ context.Context, id string, limit int) ([]Movie, error) {
	if s.failReads {
		return nil, errBackend
	}
	var out []Movie
	for _, m := range s.movies {
		if len(out) == limit {
			break
		}
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) find(match func(*Movie) bool) (int, error) {
	if s.failReads {
		return -1, errBackend
	}
	for i := range s.movies {
		if match(&s.movies[i]) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("movie: %w", sql.ErrNoRows)
}

func (s *memStore) GetMovie(_ context.Context, id string) (Movie, error) {
	i, err := s.find(func(m *Movie) bool { return m.ID == id })
	if err != nil {
		return Movie{}, err
	}
	return s.movies[i], nil
}

func (s *memStore) GetMovieBySlug(_ context.Context, slug string) (Movie, error) {
	if s.noSlugColumn {
		return Movie{}, errors.New(`no such column: slug`)
	}
	i, err := s.find(func(m *Movie) bool { return m.Slug == slug })
	if err != nil {
		return Movie{}, err
	}
	return s.movies[i], nil
}

func (s *memStore) InsertMovie(_ context.Context, m *Movie, opts WriteOptions) error {
	s.writes = append(s.writes, opts)
	if s.noSlugColumn && !opts.OmitSlug {
		return errors.New(`table movies has no column named slug`)
	}
	cp := *m
	if opts.OmitSlug {
		cp.Slug = ""
	}
	s.movies = append(s.movies, cp)
	return nil
}

func (s *memStore) UpdateMovie(_ context.Context, m *Movie, opts WriteOptions) error {
	s.writes = append(s.writes, opts)
	if s.noSlugColumn && !opts.OmitSlug {
		return errors.New(`Could not find the 'slug' column of 'movies' in the schema cache`)
	}
	for i := range s.movies {
		if s.movies[i].ID == m.ID {
			cp := *m
			if opts.OmitSlug {
				cp.Slug = s.movies[i].Slug
			}
			s.movies[i] = cp
		}
	}
	return nil
}

func (s *memStore) DeleteMovie(_ context.Context, id string) error {
	s.movies = slices.DeleteFunc(s.movies, func(m Movie) bool { return m.ID == id })
	return nil
}

func (s *memStore) DownloadCount(_ context.Context, id string) (int64, error) {
	i, err := s.find(func(m *Movie) bool { return m.ID == id })
	if err != nil {
		return 0, err
	}
	return s.movies[i].DownloadCount, nil
}

func (s *memStore) SetDownloadCount(_ context.Context, id string, count int64) error {
	for i := range s.movies {
		if s.movies[i].ID == id {
			s.movies[i].DownloadCount = count
		}
	}
	return nil
}

func (s *memStore) ListRequests(context.Context) ([]MovieRequest, error) {
	out := slices.Clone(s.requests)
	slices.Reverse(out)
	return out, nil
}

func (s *memStore) InsertRequest(_ context.Context, req *MovieRequest) error {
	s.requests = append(s.requests, *req)
	return nil
}

func (s *memStore) DeleteRequest(_ context.Context, id string) error {
	s.requests = slices.DeleteFunc(s.requests, func(r MovieRequest) bool { return r.ID == id })
	return nil
}

func (s *memStore) GetSiteConfig(context.Context) (SiteConfig, error) {
	if s.cfgID == "" {
		return SiteConfig{}, sql.ErrNoRows
	}
	return s.cfg, nil
}

func (s *memStore) SiteConfigID(context.Context) (string, error) {
	if s.failReads {
		return "", errBackend
	}
	if s.cfgID == "" {
		return "", sql.ErrNoRows
	}
	return s.cfgID, nil
}

func (s *memStore) InsertSiteConfig(_ context.Context, id string, cfg SiteConfig) error {
	if s.cfgID != "" {
		return errors.New("site_config already has a row")
	}
	s.cfgID, s.cfg = id, cfg
	return nil
}

func (s *memStore) UpdateSiteConfig(_ context.Context, id string, cfg SiteConfig) error {
	if id != s.cfgID {
		return fmt.Errorf("site_config %s: %w", id, sql.ErrNoRows)
	}
	s.cfg = cfg
	return nil
}

func movieN(n int) Movie {
	return Movie{
		ID:    fmt.Sprintf("id-%03d", n),
		Title: fmt.Sprintf("Movie %d", n),
		Slug:  fmt.Sprintf("movie-%d", n),
	}
}

func titles(movies []Movie) string {
	var t []string
	for _, m := range movies {
		t = append(t, m.Title)
	}
	return strings.Join(t, ",")
}
