// Package sqlstore implements store.Driver on top of database/sql. Each
// collection is a table of (seq, id, doc) rows where doc holds the JSON
// document; PostgreSQL (pgx) and SQLite (modernc) are supported through
// a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"regexp"
	"sync"

	"github.com/dmitrijs2005/lifelog/internal/server/store"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func validIdent(s string) error {
	if !identRe.MatchString(s) {
		return fmt.Errorf("sqlstore: invalid identifier %q", s)
	}
	return nil
}

// Store is a store.Driver backed by a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database. The caller owns migrations (see Migrate).
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

// Open connects using the dialect's driver. SQLite gets a single
// connection so writers never race for the file lock.
func Open(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.DriverName(), err)
	}
	if d == SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.DriverName(), err)
	}
	return New(db, d), nil
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Collection(name string) store.Collection {
	return &collection{db: s.db, d: s.dialect, table: name}
}

func (s *Store) Close(context.Context) error { return s.db.Close() }

// gooseMu serialises goose's package-level configuration.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(s.dialect.Name()); err != nil {
		return err
	}
	dir := "migrations/postgres"
	if s.dialect == SQLite {
		dir = "migrations/sqlite"
	}
	if err := gooseUpContext(ctx, s.db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
