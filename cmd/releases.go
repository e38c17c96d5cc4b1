package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuro1999/isw2-dataset/core"
	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// releasesCmd prints the releases a build would use.
var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Show the releases selected for each project.",
	Long: `Intersect Jira versions with repository tags and print the releases a
build would label, without building any dataset.

When no tag matches a Jira version the build falls back to the working tree,
reported here as the single release HEAD.

Examples:
  # Print the releases of one project
  isw2 releases --owner apache --repo openjpa --jira-key OPENJPA

  # Save the selection of every configured project as JSON
  isw2 releases --json-file releases.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReleases(rootCtx, cfg, cacheManager, viper.GetString("json-file")); err != nil {
			contract.LogFatal("Cannot select releases", err)
		}
	},
}
