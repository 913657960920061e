package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/internal/report"
	"github.com/vvka-141/nbaetl/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the data-quality rules against the loaded tables",
	Long: `Run the validation battery against the star schema without changing it.

Rules are grouped into duplicates, referential integrity, missing or
malformed data, and consistency. Every rule runs even when earlier rules
find problems. The verdict is FAIL when any ERROR rule finds rows,
PASS_WITH_WARNINGS when only WARNING rules do, and PASS otherwise.

Exit code 14 signals a FAIL verdict.

Examples:
  nbaetl validate
  nbaetl validate --dsn postgres://etl@localhost/nba --extended
  nbaetl validate --format json --examples 10`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

type validateFlagValues struct {
	store        storeFlags
	format       string
	exampleLimit int
	extended     bool
}

var validateFlags validateFlagValues

func init() {
	rootCmd.AddCommand(validateCmd)

	registerStoreFlags(validateCmd, &validateFlags.store)
	validateCmd.Flags().StringVar(&validateFlags.format, "format", report.FormatText, "Output format: text or json")
	validateCmd.Flags().IntVar(&validateFlags.exampleLimit, "examples", 0, "Example rows kept per failing rule (default from nbaetl.yaml, else 5)")
	validateCmd.Flags().BoolVar(&validateFlags.extended, "extended", false, "Also run the opt-in rules")

	_ = validateCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runValidate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	format, err := report.ParseFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig(validateFlags.store)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("examples") {
		cfg.Validation.ExampleLimit = validateFlags.exampleLimit
	}
	if validateFlags.extended {
		cfg.Validation.ExtendedRules = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logConfigVerbose(logger, cfg)

	ctx, cancel := signalContext(validateFlags.store.timeout)
	defer cancel()

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

	validator, err := validation.New(st, cfg.ValidationConfig(), logger, validation.WithMetrics(recorder))
	if err != nil {
		return err
	}

	result, err := validator.Run(ctx)
	if err != nil {
		return fmt.Errorf("validation could not run: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == report.FormatJSON {
		err = report.WriteJSON(out, result)
	} else {
		err = report.WriteValidation(out, result, styledOutput(cmd))
	}
	if err != nil {
		return err
	}
	return result.Err()
}
