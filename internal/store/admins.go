package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type adminRow struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	Email    string `bun:"email,pk"`
	Password string `bun:"password,notnull"`
}

// AdminPassword returns the stored secret for email, which is either a
// plaintext password or a bcrypt hash.
func (s *Store) AdminPassword(ctx context.Context, email string) (string, error) {
	var row adminRow
	err := s.db.NewSelect().
		Model(&row).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return "", fmt.Errorf("admin %s: %w", email, err)
	}
	return row.Password, nil
}

// PutAdmin creates the admin or replaces its secret.
func (s *Store) PutAdmin(ctx context.Context, email, secret string) error {
	row := adminRow{Email: email, Password: secret}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (email) DO UPDATE").
		Set("password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("put admin %s: %w", email, err)
	}
	return nil
}
