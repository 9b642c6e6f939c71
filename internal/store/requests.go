package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

type requestRow struct {
	bun.BaseModel `bun:"table:requests,alias:r"`

	ID        string `bun:"id,pk"`
	MovieName string `bun:"movie_name,notnull"`
	Timestamp int64  `bun:"timestamp,notnull"`
}

func (s *Store) ListRequests(ctx context.Context) ([]catalog.MovieRequest, error) {
	var rows []requestRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("timestamp DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	out := make([]catalog.MovieRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.MovieRequest{ID: r.ID, MovieName: r.MovieName, Timestamp: r.Timestamp})
	}
	return out, nil
}

func (s *Store) InsertRequest(ctx context.Context, req *catalog.MovieRequest) error {
	row := requestRow{ID: req.ID, MovieName: req.MovieName, Timestamp: req.Timestamp}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Table("requests").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete request %s: %w", id, err)
	}
	return nil
}
