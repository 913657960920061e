package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/logging"
	"github.com/vvka-141/nbaetl/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new nbaetl project",
	Long: `Initialize an nbaetl project into the specified directory.

The project contains:
- nbaetl.yaml with store, load and validation settings
- .env.example for the DSN
- README with usage instructions
- optionally a synthetic sample batch under batch/

Target directory must be empty or non-existent.

Examples:
  nbaetl init .                               # SQLite project here
  nbaetl init ./warehouse --template postgres
  nbaetl init ./demo --sample-games 20        # with 20 synthetic games

Available templates:
  sqlite   - Local file store (nba.db)
  postgres - PostgreSQL warehouse via NBAETL_DSN`,
	Args:              RequireTargetPath,
	ValidArgsFunction: completeDirectories,
	RunE:              runInit,
}

var (
	initTemplate     string
	initList         bool
	initSampleGames  int
	initSampleEvents int
)

// sampleEventsPerGame sizes the sample play-by-play when --sample-events is unset.
const sampleEventsPerGame = 20

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "sqlite", "Template to use (sqlite, postgres)")
	initCmd.Flags().BoolVar(&initList, "list", false, "List available templates")
	initCmd.Flags().IntVar(&initSampleGames, "sample-games", 0, "Write a synthetic batch with this many games")
	initCmd.Flags().IntVar(&initSampleEvents, "sample-events", 0, "Total play-by-play events in the sample batch (default 20 per game)")

	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initList {
		return listTemplates(cmd)
	}

	targetPath := args[0]

	projectName := filepath.Base(targetPath)
	if projectName == "." || projectName == ".." {
		cwd, err := os.Getwd()
		if err == nil {
			projectName = filepath.Base(cwd)
		} else {
			projectName = "nba"
		}
	}
	verbose := getVerboseFlag(cmd)

	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if !slices.Contains(templates, initTemplate) {
		return fmt.Errorf("invalid template '%s'. Available templates: %v", initTemplate, templates)
	}

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))

	if err := scaffolder.CreateProject(projectName, initTemplate, targetPath); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	events := initSampleEvents
	if events == 0 {
		events = sampleEventsPerGame * initSampleGames
	}
	if err := scaffolder.WriteSampleBatch(context.Background(), targetPath, initSampleGames, events); err != nil {
		return fmt.Errorf("failed to write sample batch: %w", err)
	}

	tree, err := scaffold.BuildFileTree(targetPath)
	if err != nil {
		// Non-fatal - just skip tree display
		fmt.Fprintf(os.Stderr, "\n✓ Project initialized successfully in '%s' using template '%s'\n\n", targetPath, initTemplate)
	} else {
		fmt.Fprintf(os.Stderr, "\n✓ Project initialized successfully using template '%s'\n\n", initTemplate)
		fmt.Fprintln(os.Stderr, "Created structure:")
		fmt.Fprint(os.Stderr, tree)
	}

	fmt.Fprintln(os.Stderr, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(os.Stderr, "  cd %s\n", targetPath)
	}
	if initSampleGames > 0 {
		fmt.Fprintln(os.Stderr, "  nbaetl load")
	} else {
		fmt.Fprintf(os.Stderr, "  # write the transformed batch into ./%s, then:\n", scaffold.SampleDir)
		fmt.Fprintln(os.Stderr, "  nbaetl load")
	}
	fmt.Fprintln(os.Stderr, "  nbaetl validate")

	return nil
}

func listTemplates(cmd *cobra.Command) error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	for _, t := range templates {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
