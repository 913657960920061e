package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

const (
	queryPostgresColumns = `
		SELECT table_name::text, column_name::text
		FROM information_schema.columns
		WHERE table_schema = current_schema()
	`

	querySQLiteColumns = `
		SELECT m.name, p.name
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table'
	`
)

// Manager creates, drops and verifies the star schema inside a caller-owned
// transaction. It never commits.
type Manager struct {
	dialect nbaetl.Dialect
	logger  nbaetl.Logger
	tables  []Table
}

// NewManager returns a Manager for every table in Tables.
func NewManager(dialect nbaetl.Dialect, logger nbaetl.Logger) *Manager {
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Manager{dialect: dialect, logger: logger, tables: Tables}
}

// Tables returns the managed tables, parents first.
func (m *Manager) Tables() []Table {
	return m.tables
}

// Lookup returns the managed table named name.
func (m *Manager) Lookup(name string) (Table, bool) {
	for _, t := range m.tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Ensure creates any missing table and index. Safe to run on a complete schema.
func (m *Manager) Ensure(ctx context.Context, tx nbaetl.Tx) error {
	for _, t := range m.tables {
		ddl, err := CreateTableSQL(m.dialect.Name(), t)
		if err != nil {
			return fmt.Errorf("failed to render %s: %v: %w", t.Name, err, nbaetl.ErrSchema)
		}
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %v: %w", t.Name, err, nbaetl.ErrSchema)
		}
		for _, stmt := range CreateIndexSQL(t) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create index on %s: %v: %w", t.Name, err, nbaetl.ErrSchema)
			}
		}
	}
	m.logger.Verbose("Schema ensured (%d tables)", len(m.tables))
	return nil
}

// Recreate drops every table children first, then runs Ensure.
func (m *Manager) Recreate(ctx context.Context, tx nbaetl.Tx) error {
	for i := len(m.tables) - 1; i >= 0; i-- {
		t := m.tables[i]
		if _, err := tx.Exec(ctx, DropTableSQL(t)); err != nil {
			return fmt.Errorf("failed to drop table %s: %v: %w", t.Name, err, nbaetl.ErrSchema)
		}
		m.logger.Verbose("Dropped %s", t.Name)
	}
	return m.Ensure(ctx, tx)
}

// Verify checks that every managed table exists with all of its columns.
func (m *Manager) Verify(ctx context.Context, tx nbaetl.Tx) error {
	var query string
	switch m.dialect.Name() {
	case "postgres":
		query = queryPostgresColumns
	case "sqlite":
		query = querySQLiteColumns
	default:
		return fmt.Errorf("no catalog query for dialect %q: %w", m.dialect.Name(), nbaetl.ErrSchema)
	}

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %v: %w", err, nbaetl.ErrSchema)
	}
	present := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan catalog: %v: %w", err, nbaetl.ErrSchema)
		}
		if present[table] == nil {
			present[table] = make(map[string]bool)
		}
		present[table][column] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read catalog: %v: %w", err, nbaetl.ErrSchema)
	}

	var missing []string
	for _, t := range m.tables {
		cols, ok := present[t.Name]
		if !ok {
			missing = append(missing, t.Name)
			continue
		}
		for _, c := range t.Columns {
			if !cols[c.Name] {
				missing = append(missing, t.Name+"."+c.Name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("schema incomplete, missing %s: %w", strings.Join(missing, ", "), nbaetl.ErrSchema)
	}
	return nil
}
