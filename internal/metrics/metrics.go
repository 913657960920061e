// Package metrics records load and validation counters.
//
// The engines depend only on Recorder. Nop is the default; Prometheus keeps
// its collectors on a private registry and pushes them to a Pushgateway on
// Flush, which suits a batch job that exits before any scrape.
package metrics

import "time"

// Recorder receives engine events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RowsWritten counts rows affected by op ("insert" or "delete") on table.
	RowsWritten(table, op string, n int64)

	// LoadFinished observes one load run. A nil err is recorded as success.
	LoadFinished(mode string, err error, d time.Duration)

	// RuleEvaluated records the offending row count of one validation rule.
	RuleEvaluated(rule, outcome string, offending int)

	// Flush publishes what was recorded so far.
	Flush() error
}

// Operation labels.
const (
	OpInsert = "insert"
	OpDelete = "delete"
)

// Status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusOf maps an error to its status label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// Nop discards everything.
type Nop struct{}

func (Nop) RowsWritten(string, string, int64)         {}
func (Nop) LoadFinished(string, error, time.Duration) {}
func (Nop) RuleEvaluated(string, string, int)         {}
func (Nop) Flush() error                              { return nil }

var _ Recorder = Nop{}
