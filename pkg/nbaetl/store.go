package nbaetl

import "context"

// Store is a relational backend the load and validation engines run against.
// Implementations live in internal/store/postgres and internal/store/sqlite.
type Store interface {
	// Dialect describes the SQL flavour of the store.
	Dialect() Dialect

	// Begin opens the single read-write transaction of a load run.
	Begin(ctx context.Context) (Tx, error)

	// BeginReadOnly opens a session for validation. Callers always roll it back.
	BeginReadOnly(ctx context.Context) (Tx, error)

	// Close releases the underlying connections.
	Close() error
}

// Tx is a transaction scope. SQL passed to Exec and Query uses '?' placeholders;
// implementations rebind them for their driver.
type Tx interface {
	// Exec runs a statement and returns the number of rows it affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs a statement that returns rows. Rows must be closed before
	// the next statement on the same transaction.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows iterates a result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Dialect describes the per-store differences the engines care about.
type Dialect interface {
	// Name is "postgres" or "sqlite".
	Name() string

	// Rebind rewrites '?' placeholders into the driver's native form.
	Rebind(query string) string

	// MaxParameters is the store's ceiling on bound parameters per statement.
	MaxParameters() int
}
