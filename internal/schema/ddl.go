package schema

import (
	"fmt"
	"strings"
)

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for t. Foreign keys are
// deferred to commit so rows may arrive in any order inside a transaction.
func CreateTableSQL(dialect string, t Table) (string, error) {
	var defs []string
	for _, c := range t.Columns {
		typeName, err := TypeName(dialect, c.Type)
		if err != nil {
			return "", fmt.Errorf("table %s column %s: %w", t.Name, c.Name, err)
		}
		def := c.Name + " " + typeName
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	if len(t.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("CONSTRAINT pk_%s PRIMARY KEY (%s)",
			t.Name, strings.Join(t.PrimaryKey, ", ")))
	}

	for _, fk := range t.ForeignKeys {
		defs = append(defs, fmt.Sprintf(
			"CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s) DEFERRABLE INITIALLY DEFERRED",
			t.Name, strings.Join(fk.Columns, "_"),
			strings.Join(fk.Columns, ", "), fk.RefTable, strings.Join(fk.RefColumns, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		t.Name, strings.Join(defs, ",\n    ")), nil
}

// CreateIndexSQL renders one CREATE INDEX IF NOT EXISTS statement per index of t.
func CreateIndexSQL(t Table) []string {
	stmts := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			idx.Name, t.Name, strings.Join(idx.Columns, ", ")))
	}
	return stmts
}

func DropTableSQL(t Table) string {
	return "DROP TABLE IF EXISTS " + t.Name
}
