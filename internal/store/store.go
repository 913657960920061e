// Package store opens the nbaetl.Store for a configured backend.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/nbaetl/internal/retry"
	"github.com/vvka-141/nbaetl/internal/store/postgres"
	"github.com/vvka-141/nbaetl/internal/store/sqlite"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Supported backend kinds.
const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// DetectKind infers the backend from a DSN: URLs with a postgres scheme and
// key=value strings with host= are PostgreSQL, anything else is a SQLite path.
func DetectKind(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.Contains(lower, "host=") && !strings.HasPrefix(lower, "file:"):
		return KindPostgres
	default:
		return KindSQLite
	}
}

// OpenOption customizes Open.
type OpenOption func(*openOptions)

type openOptions struct {
	retries int
	backoff []retry.BackoffOption
}

// WithRetries retries a connection that fails for a transient reason up to n
// more times.
func WithRetries(n int, opts ...retry.BackoffOption) OpenOption {
	return func(o *openOptions) {
		o.retries = n
		o.backoff = opts
	}
}

// Open connects to the store. An empty kind is inferred from dsn.
func Open(ctx context.Context, kind, dsn string, logger nbaetl.Logger, opts ...OpenOption) (nbaetl.Store, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	if kind == "" {
		kind = DetectKind(dsn)
	}

	var connect func(ctx context.Context) (nbaetl.Store, error)
	switch strings.ToLower(kind) {
	case KindSQLite:
		connect = func(ctx context.Context) (nbaetl.Store, error) { return sqlite.Open(ctx, dsn, logger) }
	case KindPostgres, "postgresql", "pg":
		connect = func(ctx context.Context) (nbaetl.Store, error) { return postgres.Open(ctx, dsn, logger) }
	default:
		return nil, fmt.Errorf("unknown store kind %q (expected sqlite or postgres): %w", kind, nbaetl.ErrInvalidConfig)
	}

	var st nbaetl.Store
	executor := retry.NewExecutor(retry.Transient, retry.NewBackoff(o.retries, o.backoff...), logger)
	err := executor.Do(ctx, "connect to "+kind, func(ctx context.Context) error {
		var err error
		st, err = connect(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
