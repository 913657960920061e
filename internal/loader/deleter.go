package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Deleter removes rows by natural key in parameter-bounded chunks.
type Deleter struct {
	limit  int
	logger nbaetl.Logger
}

func NewDeleter(limit int, logger nbaetl.Logger) *Deleter {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Deleter{limit: limit, logger: logger}
}

// DeleteByKeys deletes the rows of table whose keyColumns equal one of keys.
// Single-column keys use IN lists; composite keys use OR-ed conjunctions.
func (d *Deleter) DeleteByKeys(ctx context.Context, tx nbaetl.Tx, table schema.Table, keyColumns []string, keys [][]any) (WriteStats, error) {
	var stats WriteStats
	if len(keys) == 0 {
		return stats, nil
	}

	width := len(keyColumns)
	per, err := RowsPerStatement(d.limit, width)
	if err != nil {
		return stats, err
	}

	for chunk, start := 0, 0; start < len(keys); chunk, start = chunk+1, start+per {
		end := min(start+per, len(keys))
		part := keys[start:end]

		query, args, err := deleteSQL(table.Name, keyColumns, part)
		if err != nil {
			return stats, &nbaetl.WriteError{Table: table.Name, Op: "delete", Chunk: chunk, Rows: len(part), Err: err}
		}
		n, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return stats, &nbaetl.WriteError{Table: table.Name, Op: "delete", Chunk: chunk, Rows: len(part), Err: err}
		}
		stats.Rows += n
		stats.Statements++
		d.logger.Verbose("Deleted %s chunk %d: %d keys, %d rows", table.Name, chunk, len(part), n)
	}
	return stats, nil
}

func deleteSQL(table string, keyColumns []string, keys [][]any) (string, []any, error) {
	args := make([]any, 0, len(keys)*len(keyColumns))
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(table)
	sb.WriteString(" WHERE ")

	if len(keyColumns) == 1 {
		sb.WriteString(keyColumns[0])
		sb.WriteString(" IN (")
		for i, key := range keys {
			if len(key) != 1 {
				return "", nil, fmt.Errorf("key %d has %d values, want 1", i, len(key))
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("?")
			args = append(args, key[0])
		}
		sb.WriteString(")")
		return sb.String(), args, nil
	}

	conj := make([]string, len(keyColumns))
	for i, c := range keyColumns {
		conj[i] = c + " = ?"
	}
	term := "(" + strings.Join(conj, " AND ") + ")"
	for i, key := range keys {
		if len(key) != len(keyColumns) {
			return "", nil, fmt.Errorf("key %d has %d values, want %d", i, len(key), len(keyColumns))
		}
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString(term)
		args = append(args, key...)
	}
	return sb.String(), args, nil
}
