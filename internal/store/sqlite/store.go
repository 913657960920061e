// Package sqlite implements nbaetl.Store on modernc.org/sqlite through
// database/sql. The store holds a single connection: loads are single-writer
// and an in-memory database only exists on the connection that created it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

const pingTimeout = 5 * time.Second

// timestampLayout is the text form of every time value bound to SQLite, so
// stored timestamps and comparison bounds order lexically. Values are
// converted to UTC first.
const timestampLayout = "2006-01-02 15:04:05"

// Store is a SQLite-backed nbaetl.Store.
type Store struct {
	db     *sql.DB
	logger nbaetl.Logger
}

// Open opens the database at dsn, e.g. "nba.db" or ":memory:".
func Open(ctx context.Context, dsn string, logger nbaetl.Logger) (*Store, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty: %w", nbaetl.ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %v: %w", dsn, err, nbaetl.ErrConnectionFailed)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %v: %w", dsn, err, nbaetl.ErrConnectionFailed)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	logger.Verbose("Opened SQLite store %s", dsn)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Dialect() nbaetl.Dialect {
	return Dialect{}
}

// Begin starts a transaction on the store's connection. Transactions are
// driven with explicit BEGIN/COMMIT so a COMMIT rejected by a deferred
// foreign key can still be rolled back on the same connection.
func (s *Store) Begin(ctx context.Context) (nbaetl.Tx, error) {
	return s.begin(ctx, false)
}

// BeginReadOnly starts a transaction with PRAGMA query_only set on the
// connection until the transaction ends, so any write fails with
// SQLITE_READONLY.
func (s *Store) BeginReadOnly(ctx context.Context) (nbaetl.Tx, error) {
	return s.begin(ctx, true)
}

func (s *Store) begin(ctx context.Context, readOnly bool) (nbaetl.Tx, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquire connection: %w", err)
	}
	tx := &Tx{conn: conn, readOnly: readOnly}

	if readOnly {
		if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: enable query_only: %w", err)
		}
	}
	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		tx.release()
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	return tx, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is a transaction pinned to one *sql.Conn.
type Tx struct {
	conn     *sql.Conn
	readOnly bool
	done     bool
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if t.done {
		return 0, sql.ErrTxDone
	}
	res, err := t.conn.ExecContext(ctx, query, bindArgs(args)...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return n, nil
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (nbaetl.Rows, error) {
	if t.done {
		return nil, sql.ErrTxDone
	}
	rows, err := t.conn.QueryContext(ctx, query, bindArgs(args)...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	defer t.release()

	if _, err := t.conn.ExecContext(ctx, "COMMIT"); err != nil {
		_, _ = t.conn.ExecContext(context.Background(), "ROLLBACK")
		return err
	}
	return nil
}

// Rollback is a no-op after Commit or a previous Rollback.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.release()

	_, err := t.conn.ExecContext(context.Background(), "ROLLBACK")
	return err
}

// release returns the connection to the pool, clearing query_only first so
// the next transaction on it can write.
func (t *Tx) release() {
	if t.readOnly {
		_, _ = t.conn.ExecContext(context.Background(), "PRAGMA query_only = OFF")
	}
	_ = t.conn.Close()
}

// Rows adapts *sql.Rows to nbaetl.Rows.
type Rows struct {
	rows *sql.Rows
}

func (r *Rows) Next() bool             { return r.rows.Next() }
func (r *Rows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *Rows) Err() error             { return r.rows.Err() }
func (r *Rows) Close()                 { _ = r.rows.Close() }

func bindArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			out[i] = formatTime(v)
		case *time.Time:
			if v == nil {
				out[i] = nil
			} else {
				out[i] = formatTime(*v)
			}
		default:
			out[i] = a
		}
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

var (
	_ nbaetl.Store = (*Store)(nil)
	_ nbaetl.Tx    = (*Tx)(nil)
	_ nbaetl.Rows  = (*Rows)(nil)
)
