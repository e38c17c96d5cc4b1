package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/internal/parquet"
)

// ExecuteRunsExport writes the run history of store to two Parquet files
// named after outputPrefix.
func ExecuteRunsExport(w io.Writer, store contract.RunStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	stats, err := store.GetAllReleaseStats()
	if err != nil {
		return fmt.Errorf("failed to retrieve release stats: %w", err)
	}

	runsFile := outputPrefix + ".runs.parquet"
	if err := parquet.WriteBuildRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	statsFile := outputPrefix + ".release_stats.parquet"
	if err := parquet.WriteReleaseStatsParquet(parquet.ConvertReleaseStatRecords(stats), statsFile); err != nil {
		return fmt.Errorf("failed to write release stats: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d release stats to: %s\n", len(stats), statsFile)
	return nil
}
