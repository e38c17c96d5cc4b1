// Package schema has the plain data types shared by every part of the dataset builder.
package schema

// DatasetRow is one method at one release, in DatasetHeader column order.
type DatasetRow struct {
	Version              string
	FileName             string
	MethodName           string
	LOC                  int
	CognitiveComplexity  int
	CyclomaticComplexity int
	CodeSmells           int
	NestingDepth         int
	ParameterCount       int
	ChurnTotal           int
	AvgAdded             float64
	MaxAdded             int
	AvgDeleted           float64
	MaxDeleted           int
	AvgChurn             float64
	MaxChurn             int
	ElseAdded            int
	ElseDeleted          int
	CondChanges          int
	DecisionPoints       int
	Histories            int
	Authors              int
	Buggy                bool
}

// ReleaseSelection is the outcome of intersecting tracker versions with forge tags.
type ReleaseSelection struct {
	Project        string   `json:"project"`
	TrackerNames   []string `json:"trackerVersions"`
	ForgeTags      []string `json:"forgeTags"`
	Releases       []string `json:"releases"`
	FallbackToHead bool     `json:"fallbackToHead"`
}
