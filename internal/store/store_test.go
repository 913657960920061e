package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/internal/retry"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

func TestDetectKind(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/nba":   KindPostgres,
		"postgresql://localhost/nba":          KindPostgres,
		"host=localhost dbname=nba user=etl":  KindPostgres,
		"nba.db":                              KindSQLite,
		":memory:":                            KindSQLite,
		"file:nba.db?_pragma=busy_timeout(5)": KindSQLite,
	}
	for dsn, want := range tests {
		assert.Equal(t, want, DetectKind(dsn), dsn)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x", logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, nbaetl.ErrInvalidConfig)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	s, err := Open(context.Background(), "", ":memory:", logging.NewNullLogger())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "sqlite", s.Dialect().Name())
}

func TestOpen_SQLiteWithRetries(t *testing.T) {
	st, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "nba.db"), logging.NewNullLogger(), WithRetries(2))
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, KindSQLite, st.Dialect().Name())
}

func TestOpen_PermanentErrorIsNotRetried(t *testing.T) {
	_, err := Open(context.Background(), KindSQLite, "  ", logging.NewNullLogger(), WithRetries(5, retry.WithInitialDelay(time.Hour)))
	require.Error(t, err)
	assert.ErrorIs(t, err, nbaetl.ErrInvalidConfig)
}
