package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", logging.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "  ", logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, nbaetl.ErrInvalidConfig)
}

func TestTx_ExecReportsRowsAffected(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)

	n, err := tx.Exec(ctx, "INSERT INTO t (id, name) VALUES (?, ?), (?, ?), (?, ?)", 1, "a", 2, "b", 3, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = tx.Exec(ctx, "DELETE FROM t WHERE id IN (?, ?)", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, tx.Commit(ctx))
}

func TestTx_TimesCompareLexically(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "CREATE TABLE g (id TEXT, at TIMESTAMP)")
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO g (id, at) VALUES (?, ?), (?, ?)",
		"old", time.Date(1999, 12, 31, 23, 0, 0, 0, time.UTC),
		"new", time.Date(2024, 10, 22, 19, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	rows, err := tx.Query(ctx, "SELECT id FROM g WHERE at < ? ORDER BY id", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"old"}, ids)
}

func TestTx_DeferredForeignKeysCheckedAtCommit(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	setup, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = setup.Exec(ctx, "CREATE TABLE p (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = setup.Exec(ctx, "CREATE TABLE c (id INTEGER PRIMARY KEY, p_id INTEGER, FOREIGN KEY (p_id) REFERENCES p(id) DEFERRABLE INITIALLY DEFERRED)")
	require.NoError(t, err)
	require.NoError(t, setup.Commit(ctx))

	// child before parent inside one transaction is fine
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO c (id, p_id) VALUES (?, ?)", 1, 10)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO p (id) VALUES (?)", 10)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	// an orphan left at commit is rejected
	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO c (id, p_id) VALUES (?, ?)", 2, 99)
	require.NoError(t, err)
	assert.Error(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	// the rejected transaction left nothing behind and the connection is reusable
	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	rows, err := tx.Query(ctx, "SELECT COUNT(*) FROM c")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var n int64
	require.NoError(t, rows.Scan(&n))
	assert.Equal(t, int64(1), n)
}

func TestBeginReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	setup, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = setup.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	require.NoError(t, setup.Commit(ctx))

	ro, err := s.BeginReadOnly(ctx)
	require.NoError(t, err)
	_, err = ro.Exec(ctx, "INSERT INTO t (id) VALUES (?)", 1)
	assert.Error(t, err, "insert inside a read-only session must fail")
	require.NoError(t, ro.Commit(ctx))

	// the connection is writable again once the read-only session ends
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	n, err := tx.Exec(ctx, "INSERT INTO t (id) VALUES (?)", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, tx.Commit(ctx))

	ro, err = s.BeginReadOnly(ctx)
	require.NoError(t, err)
	defer ro.Rollback(ctx)
	assert.Equal(t, []int64{2}, ids(t, ro, "SELECT id FROM t ORDER BY id"))
}

func TestTx_TimePointersBindLikeValues(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	tipoff := time.Date(2024, 10, 22, 19, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	var missing *time.Time

	_, err = tx.Exec(ctx, "CREATE TABLE p (id INTEGER, at TEXT)")
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO p (id, at) VALUES (?, ?), (?, ?), (?, ?), (?, ?)",
		1, birth, 2, &birth, 3, &tipoff, 4, missing)
	require.NoError(t, err)

	rows, err := tx.Query(ctx, "SELECT at, date(at) FROM p WHERE at IS NOT NULL ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var stored, dates []string
	for rows.Next() {
		var at, day string
		require.NoError(t, rows.Scan(&at, &day))
		stored = append(stored, at)
		dates = append(dates, day)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"1990-05-01 00:00:00", "1990-05-01 00:00:00", "2024-10-22 23:30:00"}, stored)
	assert.Equal(t, []string{"1990-05-01", "1990-05-01", "2024-10-22"}, dates)

	assert.Equal(t, []int64{4}, ids(t, tx, "SELECT id FROM p WHERE at IS NULL"))
}

func ids(t *testing.T, tx nbaetl.Tx, query string) []int64 {
	t.Helper()
	rows, err := tx.Query(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		out = append(out, id)
	}
	require.NoError(t, rows.Err())
	return out
}
