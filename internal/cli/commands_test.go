package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/nbaetl/internal/batchfile"
	"github.com/vvka-141/nbaetl/internal/config"
	"github.com/vvka-141/nbaetl/internal/report"
	"github.com/vvka-141/nbaetl/internal/testing/fixtures"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// newProject switches to an empty working directory with a clean environment
// and, when games > 0, a synthetic batch under ./batch. It returns a SQLite
// DSN inside that directory.
func newProject(t *testing.T, games int) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	for _, env := range []string{config.EnvDSN, config.EnvStore, config.EnvLoadMode, config.EnvDatabaseURL} {
		t.Setenv(env, "")
	}
	t.Setenv(report.EnvNonInteractive, "1")

	if games > 0 {
		batch := fixtures.NewBatchBuilder().Games(games).PlayByPlayTotal(games * 20).Build()
		require.NoError(t, batchfile.Write(context.Background(), filepath.Join(dir, config.DefaultInput), batch))
	}
	return filepath.Join(dir, "nba.db")
}

func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return &buf
}

func resetLoadFlags() {
	loadFlags = loadFlagValues{
		store:  storeFlags{timeout: time.Minute},
		format: report.FormatText,
	}
}

func resetValidateFlags() {
	validateFlags = validateFlagValues{
		store:  storeFlags{timeout: time.Minute},
		format: report.FormatText,
	}
}

func resetSchemaFlags() {
	schemaFlags = schemaFlagValues{store: storeFlags{timeout: time.Minute}}
}

func TestLoadCmd_ArgsValidation_TooMany(t *testing.T) {
	err := loadCmd.Args(loadCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for too many args")
	}
	if code := nbaetl.ExitCodeForError(err); code != nbaetl.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", nbaetl.ExitUsageError, code, err)
	}
}

func TestValidateCmd_RejectsArgs(t *testing.T) {
	err := validateCmd.Args(validateCmd, []string{"extra"})
	if err == nil {
		t.Fatal("Expected error for positional argument")
	}
	if code := nbaetl.ExitCodeForError(err); code != nbaetl.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", nbaetl.ExitUsageError, code, err)
	}
}

func TestInitCmd_ArgsValidation(t *testing.T) {
	err := initCmd.Args(initCmd, []string{})
	if err == nil {
		t.Fatal("Expected error for missing args")
	}
	if code := nbaetl.ExitCodeForError(err); code != nbaetl.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", nbaetl.ExitUsageError, code, err)
	}
}

func TestLoadCmd_InvalidFormat(t *testing.T) {
	newProject(t, 0)
	resetLoadFlags()
	loadFlags.format = "xml"

	err := runLoad(loadCmd, nil)
	require.Error(t, err)
	assert.Equal(t, nbaetl.ExitConfigError, nbaetl.ExitCodeForError(err))
}

func TestLoadCmd_InvalidMode(t *testing.T) {
	dsn := newProject(t, 0)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	loadFlags.mode = "append"

	err := runLoad(loadCmd, nil)
	require.Error(t, err)
	assert.Equal(t, nbaetl.ExitConfigError, nbaetl.ExitCodeForError(err))
}

func TestLoadCmd_MissingBatchDir(t *testing.T) {
	dsn := newProject(t, 0)
	resetLoadFlags()
	loadFlags.store.dsn = dsn

	err := runLoad(loadCmd, []string{"/nonexistent/batch/abc123"})
	require.Error(t, err)
	assert.Equal(t, nbaetl.ExitBatchFileError, nbaetl.ExitCodeForError(err))
}

func TestLoadCmd_LoadsAndValidates(t *testing.T) {
	dsn := newProject(t, 4)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	out := captureOutput(t, loadCmd)

	require.NoError(t, runLoad(loadCmd, nil))

	text := out.String()
	assert.Contains(t, text, "UPSERT load committed")
	assert.Contains(t, text, nbaetl.TablePlayByPlay)
	assert.Contains(t, text, "Verdict: ✓ PASS")
}

func TestLoadCmd_JSONWithoutValidation(t *testing.T) {
	dsn := newProject(t, 2)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	loadFlags.format = report.FormatJSON
	loadFlags.noValidate = true
	out := captureOutput(t, loadCmd)

	require.NoError(t, runLoad(loadCmd, nil))

	var doc struct {
		BatchChecksum string `json:"batch_checksum"`
		Load          struct {
			Mode   string `json:"mode"`
			Tables []struct {
				Table    string `json:"table"`
				Inserted int64  `json:"inserted"`
			} `json:"tables"`
		} `json:"load"`
		Validation json.RawMessage `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Len(t, doc.BatchChecksum, 64)
	assert.Equal(t, "UPSERT", doc.Load.Mode)
	assert.Len(t, doc.Load.Tables, 10)
	assert.Nil(t, doc.Validation)

	for _, tc := range doc.Load.Tables {
		if tc.Table == nbaetl.TableGames {
			assert.Equal(t, int64(2), tc.Inserted)
		}
	}
}

func TestLoadCmd_UpsertTwiceReplacesRows(t *testing.T) {
	dsn := newProject(t, 3)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	loadFlags.noValidate = true
	loadFlags.format = report.FormatJSON
	captureOutput(t, loadCmd)
	require.NoError(t, runLoad(loadCmd, nil))

	out := captureOutput(t, loadCmd)
	require.NoError(t, runLoad(loadCmd, nil))

	var doc struct {
		Load struct {
			Tables []nbaetl.TableCount `json:"tables"`
		} `json:"load"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	lr := &nbaetl.LoadReport{Tables: doc.Load.Tables}
	games, ok := lr.Table(nbaetl.TableGames)
	require.True(t, ok)
	assert.Equal(t, int64(3), games.Deleted)
	assert.Equal(t, int64(3), games.Inserted)
}

func TestLoadCmd_FullRefreshRequiresForceWithoutTerminal(t *testing.T) {
	dsn := newProject(t, 1)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	loadFlags.mode = "full-refresh"

	err := runLoad(loadCmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, nbaetl.ErrApprovalDenied)
	assert.Equal(t, nbaetl.ExitApprovalDenied, nbaetl.ExitCodeForError(err))
}

func TestValidateCmd_MissingSchema(t *testing.T) {
	dsn := newProject(t, 0)
	resetValidateFlags()
	validateFlags.store.dsn = dsn

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Equal(t, nbaetl.ExitSchemaError, nbaetl.ExitCodeForError(err))
}

func TestValidateCmd_JSONAfterLoad(t *testing.T) {
	dsn := newProject(t, 2)
	resetLoadFlags()
	loadFlags.store.dsn = dsn
	loadFlags.noValidate = true
	captureOutput(t, loadCmd)
	require.NoError(t, runLoad(loadCmd, nil))

	resetValidateFlags()
	validateFlags.store.dsn = dsn
	validateFlags.format = report.FormatJSON
	validateFlags.extended = true
	out := captureOutput(t, validateCmd)

	require.NoError(t, runValidate(validateCmd, nil))

	var doc struct {
		Total   int    `json:"total"`
		Verdict string `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "PASS", doc.Verdict)
	assert.Equal(t, 16, doc.Total)
}

func TestSchemaCmd_CreatesTables(t *testing.T) {
	dsn := newProject(t, 0)
	resetSchemaFlags()
	schemaFlags.store.dsn = dsn
	out := captureOutput(t, schemaCmd)

	require.NoError(t, runSchema(schemaCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, out.String(), nbaetl.TableTeams)
	assert.Contains(t, out.String(), nbaetl.TableLeaders)

	// A second run is a no-op on a complete schema.
	require.NoError(t, runSchema(schemaCmd, nil))

	resetValidateFlags()
	validateFlags.store.dsn = dsn
	captureOutput(t, validateCmd)
	assert.NoError(t, runValidate(validateCmd, nil))
}

func TestSchemaCmd_RecreateRequiresForceWithoutTerminal(t *testing.T) {
	dsn := newProject(t, 0)
	resetSchemaFlags()
	schemaFlags.store.dsn = dsn
	schemaFlags.recreate = true

	err := runSchema(schemaCmd, nil)
	require.Error(t, err)
	assert.Equal(t, nbaetl.ExitApprovalDenied, nbaetl.ExitCodeForError(err))
}
