package testing

import (
	"context"
	"strings"
	"testing"

	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Snapshot reads every star-schema table ordered by primary key.
func Snapshot(t *testing.T, store nbaetl.Store) map[string][][]any {
	t.Helper()

	ctx := context.Background()
	tx, err := store.BeginReadOnly(ctx)
	if err != nil {
		t.Fatalf("Failed to begin snapshot: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	out := make(map[string][][]any, len(schema.Tables))
	for _, tbl := range schema.Tables {
		query := "SELECT " + strings.Join(tbl.ColumnNames(), ", ") + " FROM " + tbl.Name +
			" ORDER BY " + strings.Join(tbl.PrimaryKey, ", ")
		rows, err := tx.Query(ctx, query)
		if err != nil {
			t.Fatalf("Failed to snapshot %s: %v", tbl.Name, err)
		}
		for rows.Next() {
			values := make([]any, len(tbl.Columns))
			ptrs := make([]any, len(values))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				rows.Close()
				t.Fatalf("Failed to scan %s: %v", tbl.Name, err)
			}
			out[tbl.Name] = append(out[tbl.Name], values)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			t.Fatalf("Failed to read %s: %v", tbl.Name, err)
		}
	}
	return out
}

// CountRows returns SELECT COUNT(*) of table.
func CountRows(t *testing.T, store nbaetl.Store, table string) int64 {
	t.Helper()

	ctx := context.Background()
	tx, err := store.BeginReadOnly(ctx)
	if err != nil {
		t.Fatalf("Failed to begin count: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := tx.Query(ctx, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	defer rows.Close()

	var n int64
	if !rows.Next() {
		t.Fatalf("COUNT(*) of %s returned no row", table)
	}
	if err := rows.Scan(&n); err != nil {
		t.Fatalf("Failed to scan count of %s: %v", table, err)
	}
	return n
}

// Exec runs statements in their own committed transaction.
func Exec(t *testing.T, store nbaetl.Store, statements ...string) {
	t.Helper()

	ctx := context.Background()
	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Failed to begin: %v", err)
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			t.Fatalf("Failed to exec %q: %v", stmt, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}
