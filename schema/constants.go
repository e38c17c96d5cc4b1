package schema

// Custom string types for type safety.
type (
	// OutputFormat represents the format of the final dataset copy.
	OutputFormat string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// SnapshotSource selects how a release source tree is materialized.
	SnapshotSource string

	// ChangeType is the kind of a diff entry, as reported by git diff-tree.
	ChangeType string
)

// All output formats supported.
const (
	CSVOut     OutputFormat = "csv" // default
	ParquetOut OutputFormat = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All snapshot sources supported.
const (
	ForgeSnapshot SnapshotSource = "forge" // default, GitHub zipball
	GitSnapshot   SnapshotSource = "git"   // local git archive
)

// Diff entry kinds.
const (
	ChangeAdd      ChangeType = "A"
	ChangeModify   ChangeType = "M"
	ChangeDelete   ChangeType = "D"
	ChangeRename   ChangeType = "R"
	ChangeCopy     ChangeType = "C"
	ChangeTypeFlip ChangeType = "T" // regular file to symlink and similar
)

// HeadRelease is the synthetic release used when no tracker version matches a tag.
const HeadRelease = "HEAD"

// ZeroID is the object id git reports for the absent side of a diff entry.
const ZeroID = "0000000000000000000000000000000000000000"

// Buggy label values.
const (
	BuggyYes = "Yes"
	BuggyNo  = "No"
)

// DatasetHeader lists the dataset CSV columns in order.
var DatasetHeader = []string{
	"Version", "File Name", "Method Name",
	"LOC", "CognitiveComplexity", "CyclomaticComplexity",
	"CodeSmells", "NestingDepth", "ParameterCount",
	"ChurnTotal", "AvgAdded", "MaxAdded", "AvgDeleted", "MaxDeleted",
	"AvgChurn", "MaxChurn", "ElseAdded", "ElseDeleted", "CondChanges",
	"DecisionPoints", "Histories", "Authors", "Buggy",
}

// ValidOutputFormats lists all valid output formats.
var ValidOutputFormats = map[OutputFormat]struct{}{
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSnapshotSources lists all valid snapshot sources.
var ValidSnapshotSources = map[SnapshotSource]struct{}{
	ForgeSnapshot: {},
	GitSnapshot:   {},
}
