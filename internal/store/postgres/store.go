// Package postgres implements nbaetl.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is small: a load holds one connection for its whole
	// transaction and validation runs afterwards.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive across a long load.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Store is a PostgreSQL-backed nbaetl.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger nbaetl.Logger
}

// Open parses dsn, creates the pool and pings the server once. There is no
// retry: an unreachable store is fatal for the run.
func Open(ctx context.Context, dsn string, logger nbaetl.Logger) (*Store, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, nbaetl.ErrInvalidConfig)
	}
	configurePool(poolConfig, logger)

	cc := poolConfig.ConnConfig
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}

	logger.Verbose("Connected to PostgreSQL %s:%d/%s", cc.Host, cc.Port, cc.Database)
	return &Store{pool: pool, logger: logger}, nil
}

// NewFromPool wraps an existing pool. The caller keeps ownership of the pool.
func NewFromPool(pool *pgxpool.Pool, logger nbaetl.Logger) *Store {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Store{pool: pool, logger: logger}
}

func configurePool(poolConfig *pgxpool.Config, logger nbaetl.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

func (s *Store) Dialect() nbaetl.Dialect {
	return Dialect{}
}

func (s *Store) Begin(ctx context.Context) (nbaetl.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (s *Store) BeginReadOnly(ctx context.Context) (nbaetl.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read only: %w", err)
	}
	return &Tx{tx: tx}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Tx adapts pgx.Tx to nbaetl.Tx, rebinding '?' placeholders.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, Rebind(sql), args...)
	if err != nil {
		return 0, describe(err)
	}
	return tag.RowsAffected(), nil
}

func (t *Tx) Query(ctx context.Context, sql string, args ...any) (nbaetl.Rows, error) {
	rows, err := t.tx.Query(ctx, Rebind(sql), args...)
	if err != nil {
		return nil, describe(err)
	}
	return rows, nil
}

func (t *Tx) Commit(ctx context.Context) error {
	return describe(t.tx.Commit(ctx))
}

func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// describe adds the SQLSTATE and constraint of server errors.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.ConstraintName != "" {
			return fmt.Errorf("SQLSTATE %s, constraint %s: %w", pgErr.Code, pgErr.ConstraintName, err)
		}
		return fmt.Errorf("SQLSTATE %s: %w", pgErr.Code, err)
	}
	return err
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port uint16, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in --dsn / NBAETL_DSN

Original error: %v: %w`, addr, host, port, err, nbaetl.ErrConnectionFailed)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the DSN)
  - User does not have access to the database

Original error: %v: %w`, database, err, nbaetl.ErrConnectionFailed)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %v: %w`, database, database, err, nbaetl.ErrConnectionFailed)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Original error: %v: %w`, addr, err, nbaetl.ErrConnectionFailed)

	default:
		return fmt.Errorf("failed to connect to database: %v: %w", err, nbaetl.ErrConnectionFailed)
	}
}

var (
	_ nbaetl.Store = (*Store)(nil)
	_ nbaetl.Tx    = (*Tx)(nil)
	_ nbaetl.Rows  = (pgx.Rows)(nil)
)
