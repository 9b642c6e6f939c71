package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

type siteConfigRow struct {
	bun.BaseModel `bun:"table:site_config,alias:sc"`

	ID               string `bun:"id,pk"`
	HowToDownloadURL string `bun:"how_to_download_url"`
	TelegramURL      string `bun:"telegram_url"`
}

func (s *Store) GetSiteConfig(ctx context.Context) (catalog.SiteConfig, error) {
	var row siteConfigRow
	if err := s.db.NewSelect().Model(&row).Limit(1).Scan(ctx); err != nil {
		return catalog.SiteConfig{}, fmt.Errorf("get site config: %w", err)
	}
	return catalog.SiteConfig{HowToDownloadURL: row.HowToDownloadURL, TelegramURL: row.TelegramURL}, nil
}

func (s *Store) SiteConfigID(ctx context.Context) (string, error) {
	var id string
	err := s.db.NewSelect().
		Table("site_config").
		Column("id").
		Limit(1).
		Scan(ctx, &id)
	if err != nil {
		return "", fmt.Errorf("site config id: %w", err)
	}
	return id, nil
}

func (s *Store) InsertSiteConfig(ctx context.Context, id string, cfg catalog.SiteConfig) error {
	row := siteConfigRow{ID: id, HowToDownloadURL: cfg.HowToDownloadURL, TelegramURL: cfg.TelegramURL}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert site config: %w", err)
	}
	return nil
}

func (s *Store) UpdateSiteConfig(ctx context.Context, id string, cfg catalog.SiteConfig) error {
	res, err := s.db.NewUpdate().
		Table("site_config").
		Set("how_to_download_url = ?", cfg.HowToDownloadURL).
		Set("telegram_url = ?", cfg.TelegramURL).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update site config: %w", err)
	}
	return expectRowsAffected(res)
}
