package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/config"
	"github.com/vvka-141/nbaetl/internal/metrics"
	"github.com/vvka-141/nbaetl/internal/report"
	"github.com/vvka-141/nbaetl/internal/store"
	"github.com/vvka-141/nbaetl/internal/ui"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// storeFlags holds the flags every store-backed command shares.
type storeFlags struct {
	configPath string
	dsn        string
	kind       string
	timeout    time.Duration
}

func registerStoreFlags(cmd *cobra.Command, f *storeFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to nbaetl.yaml (default: ./nbaetl.yaml when present)")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Store DSN: a SQLite file path or a postgres:// URL\n"+
		"Precedence: --dsn > $NBAETL_DSN > nbaetl.yaml > $DATABASE_URL > nba.db")
	cmd.Flags().StringVar(&f.kind, "store", "", "Store kind: sqlite or postgres (default: inferred from the DSN)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Minute, "Abort the run after this duration")

	_ = cmd.RegisterFlagCompletionFunc("store", completeStoreKinds)
}

// loadProjectConfig loads .env and nbaetl.yaml, applies environment overrides,
// then the command line flags.
func loadProjectConfig(f storeFlags) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Resolve(f.configPath, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load nbaetl.yaml: %w", err)
	}

	if f.dsn != "" {
		cfg.Store.DSN = f.dsn
	}
	if f.kind != "" {
		cfg.Store.Kind = f.kind
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.ProjectConfig, logger nbaetl.Logger) (nbaetl.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Kind, cfg.Store.DSN, logger, store.WithRetries(cfg.Store.ConnectRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", redactDSN(cfg.Store.DSN), err)
	}
	return st, nil
}

// newRecorder returns a Pushgateway-backed recorder when one is configured.
func newRecorder(cfg *config.ProjectConfig) (metrics.Recorder, error) {
	if cfg.Metrics.PushgatewayURL == "" {
		return metrics.Nop{}, nil
	}
	r, err := metrics.NewPrometheus(cfg.Metrics.Job, cfg.Metrics.PushgatewayURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure metrics: %w", err)
	}
	return r, nil
}

// flushMetrics pushes collected metrics. A failed push never fails the run.
func flushMetrics(r metrics.Recorder, logger nbaetl.Logger) {
	if err := r.Flush(); err != nil {
		logger.Error("Failed to push metrics: %v", err)
	}
}

// signalContext returns a context cancelled on timeout, Ctrl+C or SIGTERM.
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// selectApprover picks how a destructive operation is confirmed: --force
// counts down, a terminal prompts, anything else is refused.
func selectApprover(force, verbose bool) (nbaetl.Approver, error) {
	switch {
	case force:
		return ui.NewForcedApprover(verbose), nil
	case report.IsInteractive():
		return ui.NewInteractiveApprover(verbose), nil
	default:
		return nil, fmt.Errorf("refusing to drop tables without a terminal; rerun with --force: %w", nbaetl.ErrApprovalDenied)
	}
}

// requestApproval asks before a FULL_REFRESH or schema recreate.
func requestApproval(ctx context.Context, force, verbose bool, target string) error {
	approver, err := selectApprover(force, verbose)
	if err != nil {
		return err
	}

	approved, err := approver.RequestApproval(ctx, target)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("drop of %s not confirmed: %w", target, nbaetl.ErrApprovalDenied)
	}
	return nil
}

// approvalTarget is the name the user must type to confirm a destructive run.
func approvalTarget(dsn string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.Path != "" {
		return u.Path[1:]
	}
	return dsn
}

// redactDSN hides the password of URL DSNs.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn
	}
	return u.Redacted()
}

// styledOutput reports whether cmd writes to a terminal that accepts color.
func styledOutput(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && report.ColorEnabled(f)
}

func logConfigVerbose(logger nbaetl.Logger, cfg *config.ProjectConfig) {
	kind := cfg.Store.Kind
	if kind == "" {
		kind = store.DetectKind(cfg.Store.DSN)
	}
	logger.Verbose("Store: %s (%s)", redactDSN(cfg.Store.DSN), kind)
	logger.Verbose("Load mode: %s, max parameters: %d", cfg.Load.Mode, cfg.Load.MaxParametersPerStatement)
	if cfg.Metrics.PushgatewayURL != "" {
		logger.Verbose("Metrics: pushing job %q to %s", cfg.Metrics.Job, cfg.Metrics.PushgatewayURL)
	}
}
