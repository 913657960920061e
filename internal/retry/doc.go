// Package retry reattempts store connections that fail for transient reasons:
// a PostgreSQL server still starting up, a refused or reset socket, or a
// SQLite file locked by another writer.
//
// Example usage:
//
//	executor := retry.NewExecutor(retry.Transient, retry.NewBackoff(3), logger)
//	err := executor.Do(ctx, "connect", func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Only connecting is retried. A load run's transaction is never replayed:
// a failure inside it rolls back and surfaces to the caller.
package retry
