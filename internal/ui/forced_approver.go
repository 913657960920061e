package ui

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

//go:embed assets/danger.txt
var dangerBanner string

// ForcedApprover implements nbaetl.Approver for --force runs. It prints a
// warning and approves after a countdown that Ctrl+C can interrupt.
type ForcedApprover struct {
	verbose   bool
	output    io.Writer
	countdown time.Duration
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) nbaetl.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		output:    os.Stderr,
		countdown: nbaetl.DefaultForceApprovalCountdown,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval displays the warning and approves once the countdown ends.
func (a *ForcedApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprint(a.output, strings.ReplaceAll(dangerBanner, "${target}", target))
	fmt.Fprintln(a.output)

	seconds := int(a.countdown.Seconds())
	for i := seconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with full refresh of %s...                      \n", target)
	return true, nil
}

var _ nbaetl.Approver = (*ForcedApprover)(nil)
