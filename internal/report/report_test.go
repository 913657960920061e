package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

var checkedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleValidation() *nbaetl.ValidationReport {
	return nbaetl.Summarize([]nbaetl.RuleResult{
		{
			Name:      "duplicate_play_by_play",
			Category:  nbaetl.CategoryDuplicates,
			Severity:  nbaetl.SeverityError,
			Outcome:   nbaetl.OutcomeError,
			Message:   "Found 5 play-by-play rows sharing (game_id, action_number)",
			Offending: 5,
			Columns:   []string{"game_id", "action_number"},
			Examples:  [][]any{{"0022400001", int64(4)}, {"0022400001", int64(4)}},
		},
		{
			Name:     "games_unknown_team",
			Category: nbaetl.CategoryReferentialIntegrity,
			Severity: nbaetl.SeverityInfo,
			Outcome:  nbaetl.OutcomePass,
			Message:  "All games reference valid teams",
		},
		{
			Name:      "games_missing_scores",
			Category:  nbaetl.CategoryMissingOrMalformed,
			Severity:  nbaetl.SeverityWarning,
			Outcome:   nbaetl.OutcomeWarning,
			Message:   "Found 1 games with missing scores (may be future games)",
			Offending: 1,
			Columns:   []string{"game_id", "home_score"},
			Examples:  [][]any{{"0022400009", nil}},
		},
	}, checkedAt)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, nbaetl.ErrInvalidConfig)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteLoadSummary(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	r := &nbaetl.LoadReport{
		RunID: uuid.MustParse("6f1c2a8e-0b7d-4c55-9a43-1d2e3f4a5b6c"),
		Mode:  nbaetl.LoadModeUpsert,
		Tables: []nbaetl.TableCount{
			{Table: nbaetl.TableTeams, Deleted: 30, Inserted: 30, Statements: 2},
			{Table: nbaetl.TablePlayByPlay, Deleted: 200, Inserted: 180, Statements: 3},
		},
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLoadSummary(&buf, r, false))
	out := buf.String()

	assert.Contains(t, out, "UPSERT load committed in 1.5s")
	assert.Contains(t, out, "run 6f1c2a8e-0b7d-4c55-9a43-1d2e3f4a5b6c")
	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "fact_play_by_play")
	assert.Contains(t, out, "230")
	assert.Contains(t, out, "210")
	assert.Less(t, strings.Index(out, "dim_teams"), strings.Index(out, "fact_play_by_play"))
	assert.Less(t, strings.Index(out, "fact_play_by_play"), strings.Index(out, "total"))
}

func TestWriteValidation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteValidation(&buf, sampleValidation(), false))
	out := buf.String()

	assert.Contains(t, out, "(2025-03-01 12:00:00 UTC)")
	assert.Contains(t, out, "✗ duplicate_play_by_play")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "→ game_id=0022400001, action_number=4")
	assert.Contains(t, out, "... and 3 more")
	assert.Contains(t, out, "• games_missing_scores")
	assert.Contains(t, out, "home_score=NULL")
	assert.Contains(t, out, "✓ games_unknown_team")
	assert.Contains(t, out, "Summary: 3 checks, 1 passed, 1 warnings, 1 errors")
	assert.Contains(t, out, "Verdict: ✗ FAIL")
	assert.NotContains(t, out, "Consistency", "empty categories are skipped")

	dup := strings.Index(out, "Duplicates")
	ri := strings.Index(out, "Referential Integrity")
	mm := strings.Index(out, "Missing/Malformed Data")
	assert.True(t, dup < ri && ri < mm, "categories render in report order")
}

func TestWriteValidation_Verdicts(t *testing.T) {
	pass := nbaetl.Summarize([]nbaetl.RuleResult{{Name: "a", Category: nbaetl.CategoryConsistency, Outcome: nbaetl.OutcomePass}}, checkedAt)
	warn := nbaetl.Summarize([]nbaetl.RuleResult{{Name: "a", Category: nbaetl.CategoryConsistency, Outcome: nbaetl.OutcomeWarning}}, checkedAt)

	var buf bytes.Buffer
	require.NoError(t, WriteValidation(&buf, pass, true))
	assert.Contains(t, buf.String(), "PASS")

	buf.Reset()
	require.NoError(t, WriteValidation(&buf, warn, false))
	assert.Contains(t, buf.String(), "Verdict: • PASS_WITH_WARNINGS")
}

func TestWriteJSON_ValidationReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleValidation()))

	var decoded struct {
		Verdict string `json:"verdict"`
		Errors  int    `json:"errors"`
		Results []struct {
			Name     string  `json:"name"`
			Category string  `json:"category"`
			Severity string  `json:"severity"`
			Outcome  string  `json:"outcome"`
			Examples [][]any `json:"examples"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "FAIL", decoded.Verdict)
	assert.Equal(t, 1, decoded.Errors)
	require.Len(t, decoded.Results, 3)
	assert.Equal(t, "Duplicates", decoded.Results[0].Category)
	assert.Equal(t, "ERROR", decoded.Results[0].Severity)
	assert.Equal(t, "error", decoded.Results[0].Outcome)
	assert.Len(t, decoded.Results[0].Examples, 2)
	assert.Nil(t, decoded.Results[2].Examples[0][1])
	assert.Empty(t, decoded.Results[1].Examples)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteJSON_Error(t *testing.T) {
	err := WriteJSON(failingWriter{}, sampleValidation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "2024-10-22 19:30:00", formatValue(time.Date(2024, 10, 22, 19, 30, 0, 0, time.UTC)))
	assert.Equal(t, "abc", formatValue([]byte("abc")))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "col2=x", formatExample([]string{}, []any{nil, "x"})[len("col1=NULL, "):])
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout))

	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "")
	assert.False(t, ColorEnabled(nil))
}

func TestIsInteractive(t *testing.T) {
	t.Setenv(EnvNonInteractive, "1")
	assert.False(t, IsInteractive())

	t.Setenv(EnvNonInteractive, "")
	t.Setenv("CI", "true")
	assert.False(t, IsInteractive())

	// stdin is not a terminal under go test
	t.Setenv("CI", "")
	assert.False(t, IsInteractive())
}
