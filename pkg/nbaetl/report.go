package nbaetl

import (
	"time"

	"github.com/google/uuid"
)

// TableCount is the write summary of one table in a load run.
type TableCount struct {
	Table      string `json:"table"`
	Deleted    int64  `json:"deleted"`
	Inserted   int64  `json:"inserted"`
	Statements int    `json:"statements"`
}

// LoadReport is returned by a successful load run.
type LoadReport struct {
	RunID      uuid.UUID    `json:"run_id"`
	Mode       LoadMode     `json:"mode"`
	Tables     []TableCount `json:"tables"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Duration returns the wall time of the run.
func (r *LoadReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TotalInserted sums inserted rows over all tables.
func (r *LoadReport) TotalInserted() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Inserted
	}
	return n
}

// TotalDeleted sums deleted rows over all tables.
func (r *LoadReport) TotalDeleted() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Deleted
	}
	return n
}

// Table looks up the count for a table by name.
func (r *LoadReport) Table(name string) (TableCount, bool) {
	for _, t := range r.Tables {
		if t.Table == name {
			return t, true
		}
	}
	return TableCount{}, false
}

// RuleResult is the outcome of one validation rule.
type RuleResult struct {
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Severity  Severity `json:"severity"`
	Outcome   Outcome  `json:"outcome"`
	Message   string   `json:"message"`
	Offending int      `json:"offending"`
	Columns   []string `json:"columns,omitempty"`
	Examples  [][]any  `json:"examples,omitempty"`
}

// Passed reports whether the rule found no offending rows.
func (r RuleResult) Passed() bool {
	return r.Outcome == OutcomePass
}

// ValidationReport aggregates every rule result of one run.
type ValidationReport struct {
	Results   []RuleResult `json:"results"`
	Total     int          `json:"total"`
	Passed    int          `json:"passed"`
	Warnings  int          `json:"warnings"`
	Errors    int          `json:"errors"`
	Verdict   Verdict      `json:"verdict"`
	CheckedAt time.Time    `json:"checked_at"`
}

// Summarize computes totals and the verdict from results.
// FAIL if any ERROR-severity rule found rows, otherwise PASS_WITH_WARNINGS
// if any warning was raised, otherwise PASS.
func Summarize(results []RuleResult, checkedAt time.Time) *ValidationReport {
	report := &ValidationReport{
		Results:   results,
		Total:     len(results),
		CheckedAt: checkedAt,
	}
	for _, r := range results {
		switch r.Outcome {
		case OutcomePass:
			report.Passed++
		case OutcomeWarning:
			report.Warnings++
		case OutcomeError:
			report.Errors++
		}
	}

	switch {
	case report.Errors > 0:
		report.Verdict = VerdictFail
	case report.Warnings > 0:
		report.Verdict = VerdictPassWithWarnings
	default:
		report.Verdict = VerdictPass
	}
	return report
}

// ExitCode maps the verdict to a process exit status.
func (r *ValidationReport) ExitCode() int {
	if r.Verdict == VerdictFail {
		return ExitValidationFailed
	}
	return ExitSuccess
}

// Err returns ErrValidationFailed when the verdict is FAIL.
func (r *ValidationReport) Err() error {
	if r.Verdict == VerdictFail {
		return ErrValidationFailed
	}
	return nil
}
