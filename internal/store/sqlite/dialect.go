package sqlite

import "github.com/vvka-141/nbaetl/pkg/nbaetl"

// Dialect is the SQLite flavour: '?' placeholders and the historic
// 999-variable ceiling.
type Dialect struct{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) Rebind(query string) string { return query }

func (Dialect) MaxParameters() int { return nbaetl.DefaultMaxParametersPerStatement }

var _ nbaetl.Dialect = Dialect{}
