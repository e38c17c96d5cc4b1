package schema

import "time"

// MethodDecl is one method declaration in a parsed compilation unit.
// Begin and End are 1-based inclusive source lines.
type MethodDecl struct {
	Signature  string
	Name       string
	ReturnType string
	ParamTypes []string
	Begin      int
	End        int
	Body       string
}

// MethodFeatures are the static metrics of one method at one release.
type MethodFeatures struct {
	Signature            string
	LOC                  int
	ParameterCount       int
	NestingDepth         int
	DecisionPoints       int
	CyclomaticComplexity int
	CognitiveComplexity  int
	CodeSmells           int
}

// Attribution is the contribution of one diff edit to one method.
type Attribution struct {
	MethodID    string
	Added       int
	Deleted     int
	Churn       int
	ElseAdded   int
	ElseDeleted int
	CondChanges int
	Author      string
	Timestamp   time.Time
}

// FileOutcome is everything one diff entry of a fix commit contributes.
type FileOutcome struct {
	Path         string
	Attributions []Attribution
	Buggy        []string // method ids whose normalized body changed
	ParseFailed  bool
}
