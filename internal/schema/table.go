// Package schema defines the ten star-schema tables and manages their DDL.
package schema

import "fmt"

// Type is a logical column type rendered per dialect.
type Type int

const (
	Integer Type = iota + 1
	Text
	Real
	Boolean
	Date
	Timestamp
)

var typeNames = map[string]map[Type]string{
	"postgres": {
		Integer:   "BIGINT",
		Text:      "TEXT",
		Real:      "DOUBLE PRECISION",
		Boolean:   "BOOLEAN",
		Date:      "DATE",
		Timestamp: "TIMESTAMP",
	},
	"sqlite": {
		Integer:   "INTEGER",
		Text:      "TEXT",
		Real:      "REAL",
		Boolean:   "BOOLEAN",
		Date:      "DATE",
		Timestamp: "TIMESTAMP",
	},
}

// TypeName renders t for the named dialect.
func TypeName(dialect string, t Type) (string, error) {
	names, ok := typeNames[dialect]
	if !ok {
		return "", fmt.Errorf("no DDL types for dialect %q", dialect)
	}
	name, ok := names[t]
	if !ok {
		return "", fmt.Errorf("no %s type for %d", dialect, t)
	}
	return name, nil
}

// Kind distinguishes dimensions from facts.
type Kind int

const (
	Dimension Kind = iota + 1
	Fact
)

type Column struct {
	Name    string
	Type    Type
	NotNull bool
}

type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

type Index struct {
	Name    string
	Columns []string
}

// Table is one table definition.
type Table struct {
	Name        string
	Kind        Kind
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	Indexes     []Index

	// ReplaceKey is the natural key prefix deleted before a reload: the
	// primary key for dimensions and the roster, game_id for game facts.
	ReplaceKey []string
}

// ColumnNames returns the column names in declared order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// KeyedByGame reports whether the table is replaced by game_id.
func (t Table) KeyedByGame() bool {
	return t.Kind == Fact && len(t.ReplaceKey) == 1 && t.ReplaceKey[0] == "game_id"
}
