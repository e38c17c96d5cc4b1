package schema

import "time"

// RunTotals are the completion counters of one project build.
type RunTotals struct {
	Releases   int
	Rows       int
	BuggyRows  int
	FixCommits int
}

// ReleaseStat counts the dataset rows of one release.
type ReleaseStat struct {
	Release string
	Files   int
	Methods int
	Buggy   int
}

// RunRecord represents a row from the isw2_dataset_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	Project       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Releases      int32
	Rows          int32
	BuggyRows     int32
	FixCommits    int32
	ConfigParams  *string
}

// ReleaseStatRecord represents a row from the isw2_release_stats table.
type ReleaseStatRecord struct {
	RunID   int64
	Release string
	Files   int32
	Methods int32
	Buggy   int32
}
