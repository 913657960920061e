package loader

import (
	"context"
	"strings"
	"sync"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

type execCall struct {
	sql  string
	args []any
}

// mockTx records statements. Exec reports one affected row per tuple for
// inserts and failOn makes the n-th statement (1-based) fail.
type mockTx struct {
	mu         sync.Mutex
	calls      []execCall
	failOn     int
	failErr    error
	deleted    int64
	committed  bool
	rolledBack bool
}

func (m *mockTx) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, execCall{sql: sql, args: args})
	if m.failOn > 0 && len(m.calls) == m.failOn {
		return 0, m.failErr
	}
	if strings.HasPrefix(sql, "INSERT") {
		return int64(strings.Count(sql, "(?")), nil
	}
	if strings.HasPrefix(sql, "DELETE") {
		return m.deleted, nil
	}
	return 0, nil
}

func (m *mockTx) Query(context.Context, string, ...any) (nbaetl.Rows, error) {
	return nil, nil
}

func (m *mockTx) Commit(context.Context) error {
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(context.Context) error {
	m.rolledBack = true
	return nil
}

func (m *mockTx) statements(prefix string) []execCall {
	var out []execCall
	for _, c := range m.calls {
		if strings.HasPrefix(c.sql, prefix) {
			out = append(out, c)
		}
	}
	return out
}

type mockDialect struct {
	name  string
	limit int
}

func (d mockDialect) Name() string           { return d.name }
func (d mockDialect) Rebind(q string) string { return q }
func (d mockDialect) MaxParameters() int     { return d.limit }

type mockStore struct {
	tx       *mockTx
	beginErr error
	dialect  mockDialect
}

func (s *mockStore) Dialect() nbaetl.Dialect { return s.dialect }

func (s *mockStore) Begin(context.Context) (nbaetl.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func (s *mockStore) BeginReadOnly(ctx context.Context) (nbaetl.Tx, error) {
	return s.Begin(ctx)
}

func (s *mockStore) Close() error { return nil }
