package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kuro1999/isw2-dataset/core"
	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// buildCmd builds the dataset of every configured project.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the method-level defect dataset of each project.",
	Long: `Fetch the Jira bug tickets of each project, find the commits that fix them
and label every Java method of every release as buggy or clean.

For each project the build:
- Clones the repository into <work-dir>/<repo>_repo when it is missing
- Intersects Jira versions with repository tags to pick the releases
- Measures the change history of methods touched by fix commits
- Writes dataset_<repo>.csv and the post-processed <repo>_dataset_finale.csv

Projects come from the 'projects' list of the config file, or from the
--owner, --repo and --jira-key flags for a single project.

Examples:
  # Build one project
  isw2 build --owner apache --repo bookkeeper --jira-key BOOKKEEPER

  # Build every project of the config file with a Parquet copy
  isw2 build --config isw2.yaml --output-format parquet

  # Use local git archives instead of GitHub zipballs
  isw2 build --snapshot-source git`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Dataset build failed", err)
		}
	},
}
