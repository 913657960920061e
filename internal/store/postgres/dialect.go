package postgres

import (
	"strconv"
	"strings"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Dialect is the PostgreSQL flavour: $n placeholders and the 65535
// bind-parameter ceiling of the wire protocol.
type Dialect struct{}

func (Dialect) Name() string { return "postgres" }

func (Dialect) Rebind(query string) string { return Rebind(query) }

func (Dialect) MaxParameters() int { return nbaetl.MaxPostgresParameters }

// Rebind rewrites '?' placeholders as $1..$n. Question marks inside
// single-quoted literals are left alone.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

var _ nbaetl.Dialect = Dialect{}
