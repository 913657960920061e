package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/internal/schema"
	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the star-schema tables",
	Long: `Create any missing star-schema table and index without loading data.

With --recreate every table is dropped first; this deletes all loaded rows
and asks for confirmation unless --force is given.

Examples:
  nbaetl schema
  nbaetl schema --dsn postgres://etl@localhost/nba
  nbaetl schema --recreate --force`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

type schemaFlagValues struct {
	store    storeFlags
	recreate bool
	force    bool
}

var schemaFlags schemaFlagValues

func init() {
	rootCmd.AddCommand(schemaCmd)

	registerStoreFlags(schemaCmd, &schemaFlags.store)
	schemaCmd.Flags().BoolVar(&schemaFlags.recreate, "recreate", false, "Drop and recreate every table")
	schemaCmd.Flags().BoolVarP(&schemaFlags.force, "force", "f", false, "Skip the --recreate prompt (countdown instead)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	cfg, err := loadProjectConfig(schemaFlags.store)
	if err != nil {
		return err
	}
	logConfigVerbose(logger, cfg)

	ctx, cancel := signalContext(schemaFlags.store.timeout)
	defer cancel()

	if schemaFlags.recreate {
		if err := requestApproval(ctx, schemaFlags.force, verbose, approvalTarget(cfg.Store.DSN)); err != nil {
			return err
		}
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	manager := schema.NewManager(st.Dialect(), logger)
	if err := applySchema(ctx, st, manager, schemaFlags.recreate); err != nil {
		return err
	}

	writeSchemaSummary(cmd.OutOrStdout(), manager.Tables())
	return nil
}

// applySchema runs Ensure or Recreate in its own transaction.
func applySchema(ctx context.Context, st nbaetl.Store, manager *schema.Manager, recreate bool) (err error) {
	tx, err := st.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	if recreate {
		err = manager.Recreate(ctx, tx)
	} else {
		err = manager.Ensure(ctx, tx)
	}
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %v: %w", err, nbaetl.ErrSchema)
	}
	return nil
}

func writeSchemaSummary(w io.Writer, tables []schema.Table) {
	for _, t := range tables {
		kind := "dimension"
		if t.Kind == schema.Fact {
			kind = "fact"
		}
		fmt.Fprintf(w, "✓ %-28s %-9s %2d columns, %d indexes\n", t.Name, kind, len(t.Columns), len(t.Indexes))
	}
}
