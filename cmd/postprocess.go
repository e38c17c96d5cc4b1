package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuro1999/isw2-dataset/core"
	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// consoleSetup loads the config file for commands that only need logging settings.
func consoleSetup(_ *cobra.Command, _ []string) error {
	return loadConfigFile()
}

// postprocessCmd groups the standalone dataset post-processing passes.
var postprocessCmd = &cobra.Command{
	Use:   "postprocess",
	Short: "Re-run post-processing passes on a dataset CSV",
	Long: `Run the passes that turn a raw dataset into the final one on any CSV.

Subcommands:
  dedup  - Drop exact duplicate rows, optionally cutting later releases
  reduce - Collapse rows that only differ by release into the oldest one

Examples:
  isw2 postprocess dedup dataset_zookeeper.csv dedup.csv --cut 3.5.0
  isw2 postprocess reduce dedup.csv final.csv`,
}

// dedupCmd removes duplicate dataset rows.
var dedupCmd = &cobra.Command{
	Use:   "dedup <input.csv> <output.csv>",
	Short: "Drop duplicate rows of a dataset CSV",
	Long: `Copy a dataset CSV keeping the first occurrence of every identical row.

With --cut, rows whose Version compares greater than the cut are dropped too.
Versions compare numerically component by component after removing a leading
"v" or "release-".`,
	Args:    cobra.ExactArgs(2),
	PreRunE: consoleSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteDedup(args[0], args[1], viper.GetString("cut")); err != nil {
			contract.LogFatal("Cannot deduplicate dataset", err)
		}
	},
}

// reduceCmd collapses rows repeated across releases.
var reduceCmd = &cobra.Command{
	Use:   "reduce <input.csv> <output.csv>",
	Short: "Keep each unchanged method only in its oldest release",
	Long: `Collapse rows that are equal on every column except Version into the row
of the oldest release. Rows keep the order in which each method first appears.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: consoleSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteReduce(args[0], args[1]); err != nil {
			contract.LogFatal("Cannot reduce dataset", err)
		}
	},
}
