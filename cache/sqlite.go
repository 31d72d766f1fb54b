package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is a Provider persisted in a SQLite file.
type SQLite struct {
	db     *sql.DB
	log    *zap.Logger
	closed atomic.Bool
}

// Option configures OpenSQLite.
type Option func(*SQLite)

// WithLogger sets the logger used for migrations and dropped errors.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLite) {
		if l != nil {
			s.log = l
		}
	}
}

// OpenSQLite opens (creating if needed) the database at path and brings its
// schema to the latest version.
func OpenSQLite(path string, opts ...Option) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	// modernc keeps one database per connection for ":memory:".
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("cache")

	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("cache: migrations source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("cache: sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("cache: migrate instance: %w", err)
	}
	m.Log = &migrateLogger{log: s.log}
	// m is not closed: closing it would close s.db.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cache: migration up failed: %w", err)
	}
	return nil
}

func (s *SQLite) Get(key string) ([]byte, bool) {
	v, ok, err := s.GetContext(context.Background(), key)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return v, ok
}

func (s *SQLite) Set(key string, value []byte) {
	if err := s.SetContext(context.Background(), key, value); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SQLite) GetContext(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLite) SetContext(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}

// Len is the number of stored entries.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

// Close releases the database. Later calls fail with ErrClosed.
func (s *SQLite) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// migrateLogger routes golang-migrate output to zap.
type migrateLogger struct {
	log *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Sugar().Debugf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
