// Package batchfile reads and writes a batch as a directory of parquet files,
// one file per star-schema table.
package batchfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Extension is the suffix of every table file.
const Extension = ".parquet"

// maxConcurrentWrites bounds the files written at once.
const maxConcurrentWrites = 4

// FileName returns the file a table's rows are stored in.
func FileName(table string) string {
	return table + Extension
}

// Read loads every table file found in dir. A missing file yields an empty
// collection, so a directory with only dimension files is a valid batch.
func Read(ctx context.Context, dir string) (*nbaetl.Batch, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch directory: %v: %w", err, nbaetl.ErrBatchFile)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("batch path %s is not a directory: %w", dir, nbaetl.ErrBatchFile)
	}

	batch := &nbaetl.Batch{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableTeams, &batch.Teams) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TablePlayers, &batch.Players) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableArenas, &batch.Arenas) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableDates, &batch.Dates) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableRoster, &batch.Rosters) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableGames, &batch.Games) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableTeamStats, &batch.TeamStats) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TablePlayerStats, &batch.PlayerStats) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TablePlayByPlay, &batch.PlayByPlay) })
	g.Go(func() error { return readTable(ctx, dir, nbaetl.TableLeaders, &batch.Leaders) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

func readTable[T any](ctx context.Context, dir, table string, dst *[]T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(dir, FileName(table))
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v: %w", path, err, nbaetl.ErrBatchFile)
	}
	*dst = rows
	return nil
}

// Write stores every non-empty collection of batch under dir, creating the
// directory if needed. Existing table files are overwritten.
func Write(ctx context.Context, dir string, batch *nbaetl.Batch) error {
	if batch == nil {
		batch = &nbaetl.Batch{}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create batch directory: %v: %w", err, nbaetl.ErrBatchFile)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableTeams, batch.Teams) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TablePlayers, batch.Players) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableArenas, batch.Arenas) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableDates, batch.Dates) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableRoster, batch.Rosters) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableGames, batch.Games) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableTeamStats, batch.TeamStats) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TablePlayerStats, batch.PlayerStats) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TablePlayByPlay, batch.PlayByPlay) })
	g.Go(func() error { return writeTable(ctx, dir, nbaetl.TableLeaders, batch.Leaders) })
	return g.Wait()
}

func writeTable[T any](ctx context.Context, dir, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(dir, FileName(table))
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %v: %w", path, err, nbaetl.ErrBatchFile)
	}
	return nil
}

// Files lists the table files present in dir, in load order.
func Files(dir string) ([]string, error) {
	var found []string
	for _, table := range []string{
		nbaetl.TableTeams, nbaetl.TablePlayers, nbaetl.TableArenas, nbaetl.TableDates,
		nbaetl.TableRoster, nbaetl.TableGames, nbaetl.TableTeamStats,
		nbaetl.TablePlayerStats, nbaetl.TablePlayByPlay, nbaetl.TableLeaders,
	} {
		path := filepath.Join(dir, FileName(table))
		_, err := os.Stat(path)
		switch {
		case err == nil:
			found = append(found, path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to stat %s: %v: %w", path, err, nbaetl.ErrBatchFile)
		}
	}
	return found, nil
}
