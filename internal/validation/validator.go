package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/nbaetl/internal/metrics"
	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Option customizes a Validator.
type Option func(*Validator)

// WithRules replaces the rule battery.
func WithRules(rules []Rule) Option {
	return func(v *Validator) { v.rules = rules }
}

// WithMetrics records per-rule findings.
func WithMetrics(r metrics.Recorder) Option {
	return func(v *Validator) { v.metrics = r }
}

// WithClock replaces time.Now for the report timestamp and the date rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// Validator executes rules against a store.
type Validator struct {
	store   nbaetl.Store
	cfg     nbaetl.ValidationConfig
	logger  nbaetl.Logger
	schema  *schema.Manager
	rules   []Rule
	metrics metrics.Recorder
	now     func() time.Time
}

// New returns a Validator with the default rules, plus ExtendedRules when
// cfg.IncludeExtended is set. Panics on nil store or logger.
func New(store nbaetl.Store, cfg nbaetl.ValidationConfig, logger nbaetl.Logger, opts ...Option) (*Validator, error) {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules := Rules()
	if cfg.IncludeExtended {
		rules = append(rules, ExtendedRules()...)
	}

	v := &Validator{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		schema:  schema.NewManager(store.Dialect(), logger),
		rules:   rules,
		metrics: metrics.Nop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Rules returns the rules the validator runs, in order.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Run evaluates every rule. A query failure aborts the run with an error and
// no report; findings never do.
func (v *Validator) Run(ctx context.Context) (*nbaetl.ValidationReport, error) {
	env := Env{Now: v.cfg.Now}
	if env.Now.IsZero() {
		env.Now = v.now()
	}

	tx, err := v.store.BeginReadOnly(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin validation: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			v.logger.Error("Rollback of validation session failed: %v", rbErr)
		}
	}()

	if err := v.schema.Verify(ctx, tx); err != nil {
		return nil, err
	}

	limit := v.cfg.EffectiveExampleLimit()
	results := make([]nbaetl.RuleResult, 0, len(v.rules))
	for _, rule := range v.rules {
		start := time.Now()
		result, err := evaluate(ctx, tx, rule, env, limit)
		if err != nil {
			return nil, err
		}
		v.logger.Verbose("Rule %s: %d offending rows (%s)", rule.Name, result.Offending, time.Since(start).Round(time.Millisecond))
		v.metrics.RuleEvaluated(rule.Name, result.Outcome.String(), result.Offending)
		results = append(results, result)
	}

	report := nbaetl.Summarize(results, env.Now)
	v.logger.Info("Validation %s: %d checks, %d passed, %d warnings, %d errors",
		report.Verdict, report.Total, report.Passed, report.Warnings, report.Errors)
	return report, nil
}

func evaluate(ctx context.Context, tx nbaetl.Tx, rule Rule, env Env, limit int) (nbaetl.RuleResult, error) {
	query, args := rule.Query(env)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nbaetl.RuleResult{}, fmt.Errorf("rule %s: %w", rule.Name, err)
	}
	defer rows.Close()

	offending := 0
	var examples [][]any
	for rows.Next() {
		offending++
		if offending > limit {
			continue
		}
		values := make([]any, len(rule.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nbaetl.RuleResult{}, fmt.Errorf("rule %s: scan example: %w", rule.Name, err)
		}
		examples = append(examples, normalize(values))
	}
	if err := rows.Err(); err != nil {
		return nbaetl.RuleResult{}, fmt.Errorf("rule %s: %w", rule.Name, err)
	}

	result := nbaetl.RuleResult{
		Name:      rule.Name,
		Category:  rule.Category,
		Severity:  nbaetl.SeverityInfo,
		Outcome:   nbaetl.OutcomeFor(rule.Severity, offending),
		Offending: offending,
		Message:   rule.PassMessage,
	}
	if offending > 0 {
		result.Severity = rule.Severity
		result.Message = fmt.Sprintf("Found %d %s", offending, rule.Finding)
		result.Columns = rule.Columns
		result.Examples = examples
	}
	return result, nil
}

// normalize turns driver byte slices into strings so examples print and
// encode readably.
func normalize(values []any) []any {
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values
}
