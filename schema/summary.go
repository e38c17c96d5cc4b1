package schema

import "time"

// BuildSummary describes the outcome of one project build.
type BuildSummary struct {
	Project    string        `json:"project"`
	Repo       string        `json:"repo"`
	Releases   []ReleaseStat `json:"releases"`
	FixCommits int           `json:"fixCommits"`
	FromCache  bool          `json:"fromCache"`
	RawCSV     string        `json:"rawCsv"`
	FinalCSV   string        `json:"finalCsv"`
	FinalRows  int           `json:"finalRows"`
	Duration   time.Duration `json:"duration"`
}

// Totals sums the per-release stats of the build.
func (s BuildSummary) Totals() RunTotals {
	t := RunTotals{Releases: len(s.Releases), FixCommits: s.FixCommits}
	for _, r := range s.Releases {
		t.Rows += r.Methods
		t.BuggyRows += r.Buggy
	}
	return t
}
