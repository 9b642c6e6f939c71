// Package store persists the catalog in SQLite or Postgres through bun.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Store struct {
	sqldb *sql.DB
	db    *bun.DB

	// table.column -> bool, only positive answers are trusted
	columns sync.Map
}

// Open connects to the database. With migrate set the tables are created
// and older schemas get the columns they are missing; without it the schema
// is used as found.
func Open(driver, source string, migrate bool) (*Store, error) {
	if source == "" {
		return nil, errors.New("database source is required")
	}

	var (
		sqldb *sql.DB
		err   error
		bdb   *bun.DB
	)
	switch driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(source); dir != "." && !strings.HasPrefix(source, "file:") {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, err
			}
		}
		sqldb, err = sql.Open("sqlite", source)
		if err != nil {
			return nil, err
		}
		// Writes are serialized by SQLite anyway; one connection avoids SQLITE_BUSY.
		sqldb.SetMaxOpenConns(1)
		bdb = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb, err = sql.Open("pgx", source)
		if err != nil {
			return nil, err
		}
		bdb = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		if cerr := sqldb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping db: %w; close failed: %w", err, cerr)
		}
		return nil, fmt.Errorf("ping db: %w", err)
	}

	st := &Store{sqldb: sqldb, db: bdb}
	if migrate {
		if err := st.initSchema(ctx); err != nil {
			if cerr := sqldb.Close(); cerr != nil {
				return nil, fmt.Errorf("init schema: %w; close failed: %w", err, cerr)
			}
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	return st, nil
}

func (s *Store) Close() error { return s.sqldb.Close() }

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.sqldb.PingContext(ctx) }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	poster TEXT NOT NULL DEFAULT '',
	screenshots TEXT,
	category TEXT,
	genres TEXT,
	year TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	trailer_url TEXT NOT NULL DEFAULT '',
	quality_tag TEXT NOT NULL DEFAULT '',
	download_links TEXT,
	added_at BIGINT NOT NULL DEFAULT 0,
	is_trending BOOLEAN NOT NULL DEFAULT FALSE,
	trending_poster TEXT NOT NULL DEFAULT '',
	seo_tags TEXT NOT NULL DEFAULT '',
	download_count BIGINT NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_added_at ON movies(added_at)`,
	`CREATE TABLE IF NOT EXISTS requests (
	id TEXT PRIMARY KEY,
	movie_name TEXT NOT NULL,
	timestamp BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS site_config (
	id TEXT PRIMARY KEY,
	how_to_download_url TEXT NOT NULL DEFAULT '',
	telegram_url TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS admins (
	email TEXT PRIMARY KEY,
	password TEXT NOT NULL
)`,
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	// Movies predating slugs have no slug column.
	if err := s.addColumnIfMissing(ctx, "movies", "slug", "ALTER TABLE movies ADD COLUMN slug TEXT"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_movies_slug ON movies(slug)"); err != nil {
		return err
	}
	return nil
}

func (s *Store) addColumnIfMissing(ctx context.Context, table, column, statement string) error {
	has, err := s.hasColumn(ctx, table, column)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.db.ExecContext(ctx, statement)
	if err != nil {
		has2, herr := s.hasColumn(ctx, table, column)
		if herr == nil && has2 {
			return nil
		}
		return err
	}
	s.columns.Store(table+"."+column, true)
	return nil
}

// hasColumn checks the live schema. A missing column is re-checked on every
// call since another process may migrate the database.
func (s *Store) hasColumn(ctx context.Context, table, column string) (bool, error) {
	key := table + "." + column
	if cached, ok := s.columns.Load(key); ok && cached.(bool) {
		return true, nil
	}

	var (
		has bool
		err error
	)
	if s.db.Dialect().Name() == dialect.PG {
		has, err = pgHasColumn(ctx, s.db, table, column)
	} else {
		has, err = sqliteHasColumn(ctx, s.db, table, column)
	}
	if err != nil {
		return false, err
	}
	s.columns.Store(key, has)
	return has, nil
}

func pgHasColumn(ctx context.Context, db *bun.DB, table, column string) (bool, error) {
	n, err := db.NewSelect().
		TableExpr("information_schema.columns").
		Where("table_schema = current_schema()").
		Where("table_name = ?", table).
		Where("column_name = ?", column).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func sqliteHasColumn(ctx context.Context, db *bun.DB, table, column string) (bool, error) {
	//nolint:gosec // table is controlled in this package.
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt sql.Null[string]
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			if cerr := rows.Close(); cerr != nil {
				return false, cerr
			}
			return false, err
		}
		if name == column {
			if cerr := rows.Close(); cerr != nil {
				return false, cerr
			}
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		if cerr := rows.Close(); cerr != nil {
			return false, cerr
		}
		return false, err
	}
	if cerr := rows.Close(); cerr != nil {
		return false, cerr
	}
	return false, nil
}

func expectRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
