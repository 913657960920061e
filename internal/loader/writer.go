package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// WriteStats summarizes the statements issued for one table operation.
type WriteStats struct {
	Rows       int64
	Statements int
}

// RowsPerStatement returns how many tuples of the given width fit in one
// statement without exceeding limit bound parameters.
func RowsPerStatement(limit, columns int) (int, error) {
	if columns < 1 {
		return 0, fmt.Errorf("column count must be positive, got %d: %w", columns, nbaetl.ErrInvalidConfig)
	}
	if columns > limit {
		return 0, fmt.Errorf("%d columns exceed the %d parameter limit: %w", columns, limit, nbaetl.ErrInvalidConfig)
	}
	return limit / columns, nil
}

// ChunkCount returns the number of statements needed for n tuples.
func ChunkCount(n, limit, columns int) (int, error) {
	per, err := RowsPerStatement(limit, columns)
	if err != nil {
		return 0, err
	}
	return (n + per - 1) / per, nil
}

// Writer inserts rows in chunks sized to the parameter limit.
type Writer struct {
	limit  int
	logger nbaetl.Logger
}

// NewWriter returns a Writer bounded by limit parameters per statement.
func NewWriter(limit int, logger nbaetl.Logger) *Writer {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Writer{limit: limit, logger: logger}
}

// WriteBatch inserts rows into table preserving input order. Each chunk is a
// single multi-row INSERT; the first failing chunk aborts the write.
func (w *Writer) WriteBatch(ctx context.Context, tx nbaetl.Tx, table schema.Table, rows [][]any) (WriteStats, error) {
	var stats WriteStats
	if len(rows) == 0 {
		return stats, nil
	}

	width := len(table.Columns)
	per, err := RowsPerStatement(w.limit, width)
	if err != nil {
		return stats, err
	}

	for i, row := range rows {
		if len(row) != width {
			return stats, &nbaetl.WriteError{
				Table: table.Name,
				Op:    "insert",
				Chunk: i / per,
				Rows:  1,
				Err:   fmt.Errorf("row %d has %d values, table has %d columns", i, len(row), width),
			}
		}
	}

	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table.Name, strings.Join(table.ColumnNames(), ", "))
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"

	for chunk, start := 0, 0; start < len(rows); chunk, start = chunk+1, start+per {
		end := min(start+per, len(rows))
		part := rows[start:end]

		var sb strings.Builder
		sb.Grow(len(prefix) + len(part)*(len(tuple)+2))
		sb.WriteString(prefix)
		args := make([]any, 0, len(part)*width)
		for i, row := range part {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tuple)
			args = append(args, row...)
		}

		n, err := tx.Exec(ctx, sb.String(), args...)
		if err != nil {
			return stats, &nbaetl.WriteError{Table: table.Name, Op: "insert", Chunk: chunk, Rows: len(part), Err: err}
		}
		stats.Rows += n
		stats.Statements++
		w.logger.Verbose("Inserted %s chunk %d: %d rows (%d parameters)", table.Name, chunk, len(part), len(args))
	}
	return stats, nil
}
