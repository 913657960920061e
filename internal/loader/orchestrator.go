package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/nbaetl/internal/metrics"
	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSchemaManager replaces the default schema manager.
func WithSchemaManager(m *schema.Manager) Option {
	return func(o *Orchestrator) { o.schema = m }
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithMetrics records row counts and run durations.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// Orchestrator sequences schema management, deletes and inserts for one load.
// Not safe for concurrent Run calls.
type Orchestrator struct {
	store   nbaetl.Store
	cfg     nbaetl.LoadConfig
	logger  nbaetl.Logger
	schema  *schema.Manager
	metrics metrics.Recorder
	now     func() time.Time

	writer  *Writer
	deleter *Deleter
}

// New validates cfg and returns an Orchestrator bound to store.
// Panics on nil store or logger.
func New(store nbaetl.Store, cfg nbaetl.LoadConfig, logger nbaetl.Logger, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.Nop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.schema == nil {
		o.schema = schema.NewManager(store.Dialect(), logger)
	}

	limit := EffectiveLimit(cfg.MaxParametersPerStatement, store.Dialect())
	o.writer = NewWriter(limit, logger)
	o.deleter = NewDeleter(limit, logger)
	return o, nil
}

// EffectiveLimit returns the configured parameter limit capped at the
// dialect ceiling. Zero selects the ceiling.
func EffectiveLimit(configured int, dialect nbaetl.Dialect) int {
	ceiling := dialect.MaxParameters()
	if configured <= 0 || configured > ceiling {
		return ceiling
	}
	return configured
}

// Run loads batch in one transaction and returns per-table counts.
// On error the transaction is rolled back and no report is returned.
func (o *Orchestrator) Run(ctx context.Context, batch *nbaetl.Batch) (_ *nbaetl.LoadReport, err error) {
	if batch == nil {
		batch = &nbaetl.Batch{}
	}

	report := &nbaetl.LoadReport{
		RunID:     uuid.New(),
		Mode:      o.cfg.Mode,
		StartedAt: o.now(),
	}
	defer func() {
		o.metrics.LoadFinished(o.cfg.Mode.String(), err, o.now().Sub(report.StartedAt))
	}()

	o.logger.Info("Starting %s load %s (%d fact rows)", o.cfg.Mode, report.RunID, batch.FactRows())

	tx, err := o.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			o.logger.Error("Rollback of load %s failed: %v", report.RunID, rbErr)
			return
		}
		o.logger.Info("Load %s rolled back", report.RunID)
	}()

	counts := make(map[string]*nbaetl.TableCount)
	for _, t := range o.schema.Tables() {
		counts[t.Name] = &nbaetl.TableCount{Table: t.Name}
	}

	switch o.cfg.Mode {
	case nbaetl.LoadModeFullRefresh:
		err = o.schema.Recreate(ctx, tx)
	default:
		err = o.schema.Ensure(ctx, tx)
	}
	if err != nil {
		return nil, err
	}

	if err := o.loadDimensions(ctx, tx, batch, counts); err != nil {
		return nil, err
	}
	if err := o.loadFacts(ctx, tx, batch, counts); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit load %s: %v: %w", report.RunID, err, nbaetl.ErrWrite)
	}
	committed = true

	for _, t := range o.schema.Tables() {
		c := counts[t.Name]
		report.Tables = append(report.Tables, *c)
		if c.Deleted > 0 {
			o.metrics.RowsWritten(c.Table, metrics.OpDelete, c.Deleted)
		}
		if c.Inserted > 0 {
			o.metrics.RowsWritten(c.Table, metrics.OpInsert, c.Inserted)
		}
	}
	report.FinishedAt = o.now()
	o.logSummary(report)
	return report, nil
}

func (o *Orchestrator) loadDimensions(ctx context.Context, tx nbaetl.Tx, batch *nbaetl.Batch, counts map[string]*nbaetl.TableCount) error {
	for _, t := range o.schema.Tables() {
		if t.Kind != schema.Dimension {
			continue
		}
		rows := batch.Rows(t.Name)
		if len(rows) == 0 {
			continue
		}
		if o.cfg.Mode == nbaetl.LoadModeUpsert {
			keys, err := projectKeys(t, rows)
			if err != nil {
				return err
			}
			if err := o.delete(ctx, tx, t, t.ReplaceKey, keys, counts); err != nil {
				return err
			}
		}
		if err := o.insert(ctx, tx, t, rows, counts); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) loadFacts(ctx context.Context, tx nbaetl.Tx, batch *nbaetl.Batch, counts map[string]*nbaetl.TableCount) error {
	if batch.FactRows() == 0 {
		o.logger.Verbose("No fact rows in batch, fact tables untouched")
		return nil
	}

	var facts []schema.Table
	for _, t := range o.schema.Tables() {
		if t.Kind == schema.Fact {
			facts = append(facts, t)
		}
	}

	if o.cfg.Mode == nbaetl.LoadModeUpsert {
		gameKeys := make([][]any, 0)
		for _, id := range batch.GameIDs() {
			gameKeys = append(gameKeys, []any{id})
		}
		for i := len(facts) - 1; i >= 0; i-- {
			t := facts[i]
			keys := gameKeys
			if !t.KeyedByGame() {
				var err error
				if keys, err = projectKeys(t, batch.Rows(t.Name)); err != nil {
					return err
				}
			}
			if err := o.delete(ctx, tx, t, t.ReplaceKey, keys, counts); err != nil {
				return err
			}
		}
	}

	for _, t := range facts {
		if err := o.insert(ctx, tx, t, batch.Rows(t.Name), counts); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) delete(ctx context.Context, tx nbaetl.Tx, t schema.Table, keyColumns []string, keys [][]any, counts map[string]*nbaetl.TableCount) error {
	stats, err := o.deleter.DeleteByKeys(ctx, tx, t, keyColumns, keys)
	c := counts[t.Name]
	c.Deleted += stats.Rows
	c.Statements += stats.Statements
	return err
}

func (o *Orchestrator) insert(ctx context.Context, tx nbaetl.Tx, t schema.Table, rows [][]any, counts map[string]*nbaetl.TableCount) error {
	stats, err := o.writer.WriteBatch(ctx, tx, t, rows)
	c := counts[t.Name]
	c.Inserted += stats.Rows
	c.Statements += stats.Statements
	return err
}

// projectKeys extracts the distinct ReplaceKey tuples of rows, first seen first.
func projectKeys(t schema.Table, rows [][]any) ([][]any, error) {
	idx := make([]int, len(t.ReplaceKey))
	for i, col := range t.ReplaceKey {
		idx[i] = t.ColumnIndex(col)
		if idx[i] < 0 {
			return nil, fmt.Errorf("table %s has no key column %s: %w", t.Name, col, nbaetl.ErrSchema)
		}
	}

	seen := make(map[string]struct{}, len(rows))
	keys := make([][]any, 0, len(rows))
	for _, row := range rows {
		key := make([]any, len(idx))
		for i, j := range idx {
			if j >= len(row) {
				return nil, &nbaetl.WriteError{Table: t.Name, Op: "delete", Rows: 1,
					Err: fmt.Errorf("row has %d values, key column %s is at %d", len(row), t.ReplaceKey[i], j)}
			}
			key[i] = row[j]
		}
		fp := fmt.Sprintf("%#v", key)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

func (o *Orchestrator) logSummary(r *nbaetl.LoadReport) {
	o.logger.Info("Load %s committed in %s", r.RunID, r.Duration().Round(time.Millisecond))
	for _, c := range r.Tables {
		o.logger.Info("  %-24s deleted %7d  inserted %7d  statements %4d", c.Table, c.Deleted, c.Inserted, c.Statements)
	}
	o.logger.Info("  %-24s deleted %7d  inserted %7d", "total", r.TotalDeleted(), r.TotalInserted())
}
