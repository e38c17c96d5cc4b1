package iocache

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/kuro1999/isw2-dataset/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints fetch cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Entries", humanize.Comma(int64(status.TotalEntries))})
		if status.TotalEntries > 0 {
			rows = append(rows,
				[]string{"Last Entry", fmt.Sprintf("%s (%s)", status.LastEntryTime.Format(statusTimeFormat), humanize.Time(status.LastEntryTime))},
				[]string{"Oldest Entry", fmt.Sprintf("%s (%s)", status.OldestEntryTime.Format(statusTimeFormat), humanize.Time(status.OldestEntryTime))},
			)
		}
		rows = append(rows, []string{"Table Size", humanize.Bytes(uint64(max(status.TableSizeBytes, 0)))})
	}
	return renderKeyValues(w, "Fetch Cache", rows)
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) error {
	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		rows = append(rows, []string{"Total Runs", humanize.Comma(int64(status.TotalRuns))})
		if status.TotalRuns > 0 {
			rows = append(rows,
				[]string{"Last Run ID", strconv.FormatInt(status.LastRunID, 10)},
				[]string{"Last Run", status.LastRunTime.Format(statusTimeFormat)},
				[]string{"Oldest Run", status.OldestRunTime.Format(statusTimeFormat)},
				[]string{"Total Rows", humanize.Comma(status.TotalRows)},
			)
		}
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			rows = append(rows, []string{table, humanize.Comma(status.TableSizes[table]) + " rows"})
		}
	}
	return renderKeyValues(w, "Run History", rows)
}

func renderKeyValues(w io.Writer, title string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, ""})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
