package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kuro1999/isw2-dataset/core"
	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// exportCmd converts a dataset CSV to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export <input.csv> <output.parquet>",
	Short: "Convert a dataset CSV to Parquet",
	Long: `Read a dataset CSV written by 'isw2 build' and write the same rows as a
Parquet file, ready for pandas, DuckDB or Spark.

Examples:
  isw2 export bookkeeper_dataset_finale.csv bookkeeper.parquet
  duckdb -c "SELECT Version, count(*) FROM read_parquet('bookkeeper.parquet') GROUP BY 1"`,
	Args:    cobra.ExactArgs(2),
	PreRunE: consoleSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteDatasetExport(args[0], args[1]); err != nil {
			contract.LogFatal("Cannot export dataset", err)
		}
	},
}
