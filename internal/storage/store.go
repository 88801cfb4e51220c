package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNoRows is returned by single-row lookups that match nothing.
var ErrNoRows = errors.New("storage: no rows")

// Querier executes a parameterized read query. *sql.DB, *sql.Conn and
// *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store is the read-only query layer over the billing schema.
type Store struct {
	q       Querier
	db      *sql.DB
	dialect Dialect
	sql     statements
}

// New wraps an existing querier. The caller owns its lifecycle.
func New(q Querier, dialect Dialect) *Store {
	s := &Store{
		q:       q,
		dialect: dialect,
		sql:     buildStatements(dialect),
	}
	if db, ok := q.(*sql.DB); ok {
		s.db = db
	}
	return s
}

// OpenSQLite opens (creating if needed) the SQLite database at dbPath and
// applies migrations. ":memory:" yields a private in-memory database.
func OpenSQLite(dbPath string) (*Store, error) {
	memory := dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
	if !memory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if !memory {
		if err := RunMigrations("sqlite", dbPath, SQLite); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if memory {
		// Every connection to ":memory:" is a distinct database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if memory {
		if err := RunMigrationsShared(db, SQLite); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return New(db, SQLite), nil
}

// OpenPostgres connects to the Postgres database at dsn through pgx and
// applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations("pgx", dsn, Postgres); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return New(db, Postgres), nil
}

// DB returns the underlying handle, or nil when the store wraps a custom querier.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping checks that the datastore is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// queryRows runs query and scans every row with scan. Rows are released on
// all paths.
func queryRows[T any](ctx context.Context, q Querier, query string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// queryCount runs a single-column COUNT/SUM style query; an absent row or
// NULL value reads as zero.
func queryCount(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	vals, err := queryRows(ctx, q, query, args, func(r *sql.Rows) (sql.NullInt64, error) {
		var v sql.NullInt64
		err := r.Scan(&v)
		return v, err
	})
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	return vals[0].Int64, nil
}
