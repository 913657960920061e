package loader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

type recordingMetrics struct {
	mu       sync.Mutex
	rows     map[string]int64
	finished []error
}

func (r *recordingMetrics) RowsWritten(table, op string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows == nil {
		r.rows = make(map[string]int64)
	}
	r.rows[table+"/"+op] += n
}

func (r *recordingMetrics) LoadFinished(_ string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, err)
}

func (r *recordingMetrics) RuleEvaluated(string, string, int) {}
func (r *recordingMetrics) Flush() error                      { return nil }

func smallBatch() *nbaetl.Batch {
	home, away := int64(95), int64(90)
	return &nbaetl.Batch{
		Teams: []nbaetl.Team{
			{TeamID: 1, Name: "Celtics", City: "Boston", Tricode: "BOS", Slug: "celtics"},
			{TeamID: 2, Name: "Knicks", City: "New York", Tricode: "NYK", Slug: "knicks"},
		},
		Players: []nbaetl.Player{{PlayerID: 10, FirstName: "Jayson", LastName: "Tatum", Slug: "jayson-tatum"}},
		Arenas:  []nbaetl.Arena{{ArenaID: 1, Name: "TD Garden", City: "Boston"}},
		Dates:   []nbaetl.Date{{DateID: 20241022, FullDate: time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC), Year: 2024, Month: 10, DayOfWeek: 2, WeekNumber: 43}},
		Rosters: []nbaetl.RosterEntry{{PlayerID: 10, TeamID: 1, Season: "2024-25", RosterStatus: 1, FromYear: 2017, ToYear: 2025}},
		Games: []nbaetl.Game{{
			GameID: "0022400001", GameCode: "20241022/NYKBOS", GameDateID: 20241022,
			DatetimeEST: time.Date(2024, 10, 22, 19, 30, 0, 0, time.UTC),
			DatetimeUTC: time.Date(2024, 10, 22, 23, 30, 0, 0, time.UTC),
			SeasonType:  "Regular Season", Status: 3, StatusText: "Final",
			ArenaID: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: &home, AwayScore: &away,
		}},
		TeamStats: []nbaetl.TeamGameStat{
			{GameID: "0022400001", TeamID: 1, IsHomeTeam: true, Points: 95},
			{GameID: "0022400001", TeamID: 2, Points: 90},
		},
		PlayerStats: []nbaetl.PlayerGameStat{{GameID: "0022400001", PlayerID: 10, TeamID: 1, Starter: true}},
		PlayByPlay: []nbaetl.PlayByPlayEvent{{
			GameID: "0022400001", ActionNumber: 1, OrderNumber: 10000, Period: 1, Clock: "PT12M00.00S",
			TimeActual: time.Date(2024, 10, 22, 23, 31, 0, 0, time.UTC), ActionType: "jumpball",
			Location: "h", Description: "Jump Ball",
		}},
		Leaders: []nbaetl.GameLeader{{GameID: "0022400001", TeamID: 1, PlayerID: 10, StatType: "points", Value: 30}},
	}
}

// tableOf extracts the target table of a DELETE or INSERT statement.
func tableOf(sql string) string {
	fields := strings.Fields(sql)
	for i, f := range fields {
		if (f == "FROM" || f == "INTO") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

func sequence(calls []execCall) []string {
	var out []string
	for _, c := range calls {
		if strings.HasPrefix(c.sql, "DELETE") {
			out = append(out, "delete "+tableOf(c.sql))
		}
		if strings.HasPrefix(c.sql, "INSERT") {
			out = append(out, "insert "+tableOf(c.sql))
		}
	}
	return out
}

func newMockOrchestrator(t *testing.T, mode nbaetl.LoadMode, tx *mockTx, opts ...Option) *Orchestrator {
	t.Helper()
	store := &mockStore{tx: tx, dialect: mockDialect{name: "sqlite", limit: 999}}
	o, err := New(store, nbaetl.LoadConfig{Mode: mode}, logging.NewNullLogger(), opts...)
	require.NoError(t, err)
	return o
}

func TestRun_UpsertStatementOrder(t *testing.T) {
	tx := &mockTx{}
	o := newMockOrchestrator(t, nbaetl.LoadModeUpsert, tx)

	report, err := o.Run(context.Background(), smallBatch())
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	assert.Equal(t, []string{
		"delete dim_teams", "insert dim_teams",
		"delete dim_players", "insert dim_players",
		"delete dim_arenas", "insert dim_arenas",
		"delete dim_dates", "insert dim_dates",
		"delete fact_game_leaders",
		"delete fact_play_by_play",
		"delete fact_player_game_stats",
		"delete fact_team_game_stats",
		"delete fact_games",
		"delete fact_player_roster",
		"insert fact_player_roster",
		"insert fact_games",
		"insert fact_team_game_stats",
		"insert fact_player_game_stats",
		"insert fact_play_by_play",
		"insert fact_game_leaders",
	}, sequence(tx.calls))

	for _, c := range tx.statements("DELETE FROM fact_") {
		if tableOf(c.sql) == nbaetl.TableRoster {
			assert.Equal(t, []any{int64(10), int64(1), "2024-25"}, c.args)
			continue
		}
		assert.Equal(t, []any{"0022400001"}, c.args, c.sql)
	}

	require.Len(t, report.Tables, 10)
	assert.Equal(t, nbaetl.TableTeams, report.Tables[0].Table)
	teams, ok := report.Table(nbaetl.TableTeams)
	require.True(t, ok)
	assert.Equal(t, int64(2), teams.Inserted)
	assert.Equal(t, 2, teams.Statements)
	assert.Equal(t, nbaetl.LoadModeUpsert, report.Mode)
}

func TestRun_FullRefreshRecreatesAndInserts(t *testing.T) {
	tx := &mockTx{}
	o := newMockOrchestrator(t, nbaetl.LoadModeFullRefresh, tx)

	_, err := o.Run(context.Background(), smallBatch())
	require.NoError(t, err)

	drops := tx.statements("DROP TABLE")
	require.Len(t, drops, 10)
	assert.Equal(t, "DROP TABLE IF EXISTS fact_game_leaders", drops[0].sql)
	assert.Equal(t, "DROP TABLE IF EXISTS dim_teams", drops[9].sql)

	assert.Empty(t, tx.statements("DELETE"))
	assert.Equal(t, []string{
		"insert dim_teams", "insert dim_players", "insert dim_arenas", "insert dim_dates",
		"insert fact_player_roster", "insert fact_games", "insert fact_team_game_stats",
		"insert fact_player_game_stats", "insert fact_play_by_play", "insert fact_game_leaders",
	}, sequence(tx.calls))
}

func TestRun_EmptyFactsLeaveFactTablesUntouched(t *testing.T) {
	tx := &mockTx{}
	o := newMockOrchestrator(t, nbaetl.LoadModeUpsert, tx)

	b := smallBatch()
	b.Rosters, b.Games, b.TeamStats, b.PlayerStats, b.PlayByPlay, b.Leaders = nil, nil, nil, nil, nil, nil

	report, err := o.Run(context.Background(), b)
	require.NoError(t, err)
	for _, step := range sequence(tx.calls) {
		assert.NotContains(t, step, "fact_")
	}
	assert.Equal(t, []string{
		"delete dim_teams", "insert dim_teams",
		"delete dim_players", "insert dim_players",
		"delete dim_arenas", "insert dim_arenas",
		"delete dim_dates", "insert dim_dates",
	}, sequence(tx.calls))
	games, _ := report.Table(nbaetl.TableGames)
	assert.Zero(t, games.Statements)
}

func TestRun_NilBatch(t *testing.T) {
	tx := &mockTx{}
	o := newMockOrchestrator(t, nbaetl.LoadModeUpsert, tx)

	report, err := o.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.TotalInserted())
	assert.Empty(t, sequence(tx.calls))
	assert.True(t, tx.committed)
}

func TestRun_DuplicateDimensionKeysDeletedOnce(t *testing.T) {
	tx := &mockTx{}
	o := newMockOrchestrator(t, nbaetl.LoadModeUpsert, tx)

	b := &nbaetl.Batch{Teams: []nbaetl.Team{{TeamID: 1}, {TeamID: 1}, {TeamID: 2}}}
	_, err := o.Run(context.Background(), b)
	require.NoError(t, err)

	deletes := tx.statements("DELETE")
	require.Len(t, deletes, 1)
	assert.Equal(t, []any{int64(1), int64(2)}, deletes[0].args)
}

func TestRun_WriteFailureRollsBack(t *testing.T) {
	boom := errors.New("FOREIGN KEY constraint failed")
	tx := &mockTx{failErr: boom}
	metrics := &recordingMetrics{}
	o := newMockOrchestrator(t, nbaetl.LoadModeFullRefresh, tx, WithMetrics(metrics))

	// 10 drops, 10 creates and 12 indexes, then the sixth insert (fact_games) fails.
	tx.failOn = 10 + 10 + 12 + 6

	report, err := o.Run(context.Background(), smallBatch())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, nbaetl.ErrWrite)
	assert.ErrorIs(t, err, boom)

	var we *nbaetl.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, nbaetl.TableGames, we.Table)

	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	assert.Empty(t, metrics.rows, "rows of a rolled back run are not counted")
	require.Len(t, metrics.finished, 1)
	assert.Error(t, metrics.finished[0])
}

func TestRun_BeginFailure(t *testing.T) {
	store := &mockStore{beginErr: nbaetl.ErrConnectionFailed, dialect: mockDialect{name: "sqlite", limit: 999}}
	o, err := New(store, nbaetl.LoadConfig{Mode: nbaetl.LoadModeUpsert}, logging.NewNullLogger())
	require.NoError(t, err)

	_, err = o.Run(context.Background(), smallBatch())
	assert.ErrorIs(t, err, nbaetl.ErrConnectionFailed)
}

func TestRun_RecordsMetricsAndClock(t *testing.T) {
	tx := &mockTx{}
	metrics := &recordingMetrics{}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := 0
	clock := func() time.Time {
		ticks++
		return start.Add(time.Duration(ticks) * time.Second)
	}
	o := newMockOrchestrator(t, nbaetl.LoadModeUpsert, tx, WithMetrics(metrics), WithClock(clock))

	report, err := o.Run(context.Background(), smallBatch())
	require.NoError(t, err)
	assert.Equal(t, time.Second, report.Duration())
	assert.Equal(t, int64(2), metrics.rows["fact_team_game_stats/insert"])
	require.Len(t, metrics.finished, 1)
	assert.NoError(t, metrics.finished[0])
}

func TestNew_InvalidConfig(t *testing.T) {
	store := &mockStore{tx: &mockTx{}, dialect: mockDialect{name: "sqlite", limit: 999}}
	_, err := New(store, nbaetl.LoadConfig{}, logging.NewNullLogger())
	assert.ErrorIs(t, err, nbaetl.ErrInvalidConfig)
}

func TestNew_PanicsOnNilDependencies(t *testing.T) {
	store := &mockStore{tx: &mockTx{}, dialect: mockDialect{name: "sqlite", limit: 999}}
	cfg := nbaetl.LoadConfig{Mode: nbaetl.LoadModeUpsert}
	assert.Panics(t, func() { New(nil, cfg, logging.NewNullLogger()) }) //nolint:errcheck
	assert.Panics(t, func() { New(store, cfg, nil) })                  //nolint:errcheck
}

func TestEffectiveLimit(t *testing.T) {
	d := mockDialect{limit: 999}
	assert.Equal(t, 999, EffectiveLimit(0, d))
	assert.Equal(t, 100, EffectiveLimit(100, d))
	assert.Equal(t, 999, EffectiveLimit(5000, d))
}
