// Package outwriter writes the dataset CSV, post-processes it and renders
// console summaries.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// OutWriter provides a unified interface for all console output.
type OutWriter struct {
	w io.Writer
}

// NewOutWriter creates an output writer printing to w, or stdout when w is nil.
func NewOutWriter(w io.Writer) *OutWriter {
	if w == nil {
		w = os.Stdout
	}
	return &OutWriter{w: w}
}

// WriteBuildSummary prints one row per release with its buggy share.
func (ow *OutWriter) WriteBuildSummary(s schema.BuildSummary) error {
	table := tablewriter.NewWriter(ow.w)
	table.Header([]string{"Release", "Files", "Methods", "Buggy", "Clean", "Buggy %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range s.Releases {
		data = append(data, []string{
			contract.TruncatePath(r.Release, maxReleaseWidth()),
			strconv.Itoa(r.Files),
			humanize.Comma(int64(r.Methods)),
			contract.BuggyColor.Sprint(r.Buggy),
			contract.CleanColor.Sprint(r.Methods - r.Buggy),
			formatShare(r.Buggy, r.Methods),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totals := s.Totals()
	source := "computed"
	if s.FromCache {
		source = "cached"
	}
	if _, err := fmt.Fprintf(ow.w, "%s: %s methods over %d releases, %s buggy (%s labels, %d fix commits)\n",
		s.Project, humanize.Comma(int64(totals.Rows)), totals.Releases,
		humanize.Comma(int64(totals.BuggyRows)), source, s.FixCommits); err != nil {
		return err
	}
	_, err := fmt.Fprintf(ow.w, "Final dataset %s (%s rows) written in %v\n",
		s.FinalCSV, humanize.Comma(int64(s.FinalRows)), s.Duration.Round(time.Millisecond))
	return err
}

// WriteReleases prints the releases selected for a project.
func (ow *OutWriter) WriteReleases(sel schema.ReleaseSelection) error {
	table := tablewriter.NewWriter(ow.w)
	table.Header([]string{"#", "Release"})
	var data [][]string
	for i, r := range sel.Releases {
		data = append(data, []string{strconv.Itoa(i + 1), r})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	note := ""
	if sel.FallbackToHead {
		note = contract.InfoColor.Sprint(" (no tag matches a tracker version, using the working tree)")
	}
	_, err := fmt.Fprintf(ow.w, "%s: %d tracker versions, %d forge tags, %d releases%s\n",
		sel.Project, len(sel.TrackerNames), len(sel.ForgeTags), len(sel.Releases), note)
	return err
}

// WriteReleasesJSON prints the release selections as JSON to outputFile or stdout.
func WriteReleasesJSON(sels []schema.ReleaseSelection, outputFile string) error {
	return writeJSONOutput(outputFile, sels)
}

// maxReleaseWidth bounds the release column by the terminal width.
func maxReleaseWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80 // Conservative default for narrow terminals and CI
	}
	available := width - 60
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
