package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/nbaetl/internal/report"
	"github.com/vvka-141/nbaetl/internal/scaffold"
	"github.com/vvka-141/nbaetl/internal/store"
)

// loadModes contains valid --mode values for shell completion.
var loadModes = []string{"UPSERT", "FULL_REFRESH"}

var outputFormats = []string{report.FormatText, report.FormatJSON}

var storeKinds = []string{store.KindSQLite, store.KindPostgres}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return filterPrefix(templates, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeLoadModes provides shell completion for load mode flag values.
func completeLoadModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(loadModes, strings.ToUpper(toComplete)), cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(outputFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeStoreKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return filterPrefix(storeKinds, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}

func filterPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
