package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the clock used for created_at, completed_at and
// archived_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		s.now = now
	}
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables foreign keys and WAL mode, and runs any pending schema migrations.
// dbPath may be ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: SQLite has a single writer anyway, and each
	// connection to ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dbPath, err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// dsn appends the connection pragmas understood by modernc.org/sqlite.
func dsn(dbPath string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_time_format=sqlite",
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// timestamp returns the current time in UTC from the store clock.
func (s *SQLiteStore) timestamp() time.Time {
	return s.now().UTC()
}

// withTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error and committed otherwise.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// rowsAffected returns the affected row count of an exec result.
func rowsAffected(res interface{ RowsAffected() (int64, error) }) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}
