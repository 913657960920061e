package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/batchfile"
	"github.com/vvka-141/nbaetl/internal/loader"
	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/internal/report"
	"github.com/vvka-141/nbaetl/internal/validation"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

var loadCmd = &cobra.Command{
	Use:   "load [batch_dir]",
	Short: "Load a batch into the star schema",
	Long: `Load a directory of Parquet batch files into the ten star-schema tables.

Every statement of a run shares one transaction: either the whole batch is
committed or nothing is. Dimensions are written before facts.

Modes:
  UPSERT        Replace only the keys present in the batch (default)
  FULL_REFRESH  Drop and recreate every table first (asks for confirmation)

The batch directory defaults to load.input from nbaetl.yaml (./batch).
After a committed load the validation battery runs unless --no-validate
is given; a FAIL verdict exits with code 14.

Examples:
  nbaetl load                              # ./batch into nba.db
  nbaetl load ./batch --dsn postgres://etl@localhost/nba
  nbaetl load --mode full-refresh --force  # CI, no prompt
  nbaetl load --format json > report.json`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirectories,
	RunE:              runLoad,
}

type loadFlagValues struct {
	store      storeFlags
	mode       string
	maxParams  int
	noValidate bool
	force      bool
	format     string
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	registerStoreFlags(loadCmd, &loadFlags.store)
	loadCmd.Flags().StringVarP(&loadFlags.mode, "mode", "m", "", "Load mode: UPSERT or FULL_REFRESH (default from nbaetl.yaml, else UPSERT)")
	loadCmd.Flags().IntVar(&loadFlags.maxParams, "max-params", 0, "Bound-parameter ceiling per statement (0 = store default)")
	loadCmd.Flags().BoolVar(&loadFlags.noValidate, "no-validate", false, "Skip the validation battery after the load")
	loadCmd.Flags().BoolVarP(&loadFlags.force, "force", "f", false, "Skip the FULL_REFRESH prompt (countdown instead)")
	loadCmd.Flags().StringVar(&loadFlags.format, "format", report.FormatText, "Output format: text or json")

	_ = loadCmd.RegisterFlagCompletionFunc("mode", completeLoadModes)
	_ = loadCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// loadOutput is the JSON document printed by load --format json.
type loadOutput struct {
	BatchChecksum string                   `json:"batch_checksum"`
	Load          *nbaetl.LoadReport       `json:"load"`
	Validation    *nbaetl.ValidationReport `json:"validation,omitempty"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	format, err := report.ParseFormat(loadFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig(loadFlags.store)
	if err != nil {
		return err
	}
	if loadFlags.mode != "" {
		cfg.Load.Mode = loadFlags.mode
	}
	if cmd.Flags().Changed("max-params") {
		cfg.Load.MaxParametersPerStatement = loadFlags.maxParams
	}
	if loadFlags.noValidate {
		cfg.Load.RunValidation = false
	}
	if len(args) == 1 {
		cfg.Load.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	loadCfg, err := cfg.LoadConfig()
	if err != nil {
		return err
	}
	logConfigVerbose(logger, cfg)

	ctx, cancel := signalContext(loadFlags.store.timeout)
	defer cancel()

	logger.Verbose("Reading batch from %s", cfg.Load.Input)
	batch, err := batchfile.Read(ctx, cfg.Load.Input)
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}
	checksum, err := batchfile.Checksum(cfg.Load.Input)
	if err != nil {
		return err
	}
	logger.Verbose("Batch checksum: %s", checksum)

	if loadCfg.Mode == nbaetl.LoadModeFullRefresh {
		if err := requestApproval(ctx, loadFlags.force, verbose, approvalTarget(cfg.Store.DSN)); err != nil {
			return err
		}
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	recorder, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer flushMetrics(recorder, logger)

	orchestrator, err := loader.New(st, loadCfg, logger, loader.WithMetrics(recorder))
	if err != nil {
		return err
	}

	loadReport, err := orchestrator.Run(ctx, batch)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	var validationReport *nbaetl.ValidationReport
	if cfg.Load.RunValidation {
		validator, err := validation.New(st, cfg.ValidationConfig(), logger, validation.WithMetrics(recorder))
		if err != nil {
			return err
		}
		validationReport, err = validator.Run(ctx)
		if err != nil {
			return fmt.Errorf("validation could not run: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if format == report.FormatJSON {
		if err := report.WriteJSON(out, loadOutput{BatchChecksum: checksum, Load: loadReport, Validation: validationReport}); err != nil {
			return err
		}
	} else {
		styled := styledOutput(cmd)
		if err := report.WriteLoadSummary(out, loadReport, styled); err != nil {
			return err
		}
		if validationReport != nil {
			fmt.Fprintln(out)
			if err := report.WriteValidation(out, validationReport, styled); err != nil {
				return err
			}
		}
	}

	if validationReport != nil {
		return validationReport.Err()
	}
	return nil
}
