package retry

import (
	"context"
	"time"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Executor runs an operation until it succeeds, fails permanently, or the
// backoff runs out of retries.
type Executor struct {
	transient func(error) bool
	backoff   *Backoff
	logger    nbaetl.Logger
}

// NewExecutor returns an Executor. Panics if any argument is nil.
func NewExecutor(transient func(error) bool, backoff *Backoff, logger nbaetl.Logger) *Executor {
	if transient == nil {
		panic("transient cannot be nil")
	}
	if backoff == nil {
		panic("backoff cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Executor{transient: transient, backoff: backoff, logger: logger}
}

// Do runs op, retrying transient failures. what names the operation in log
// lines. The last error is returned unchanged.
func (e *Executor) Do(ctx context.Context, what string, op func(ctx context.Context) error) error {
	err := op(ctx)
	for n := 0; err != nil && e.transient(err) && n < e.backoff.Retries(); n++ {
		delay := e.backoff.Delay(n)
		e.logger.Info("%s failed (%v), retrying in %v [%d/%d]", what, err, delay.Round(time.Millisecond), n+1, e.backoff.Retries())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = op(ctx)
	}
	return err
}
