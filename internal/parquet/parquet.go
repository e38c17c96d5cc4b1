// Package parquet provides data structures and functions for exporting the
// method dataset and the build history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kuro1999/isw2-dataset/schema"
)

// DatasetRecord is one method of one release. Columns follow the dataset CSV.
type DatasetRecord struct {
	Version              string  `parquet:"version,snappy,dict"`
	FileName             string  `parquet:"file_name,snappy,dict"`
	MethodName           string  `parquet:"method_name,snappy"`
	LOC                  int32   `parquet:"loc,snappy"`
	CognitiveComplexity  int32   `parquet:"cognitive_complexity,snappy"`
	CyclomaticComplexity int32   `parquet:"cyclomatic_complexity,snappy"`
	CodeSmells           int32   `parquet:"code_smells,snappy"`
	NestingDepth         int32   `parquet:"nesting_depth,snappy"`
	ParameterCount       int32   `parquet:"parameter_count,snappy"`
	ChurnTotal           int32   `parquet:"churn_total,snappy"`
	AvgAdded             float64 `parquet:"avg_added,snappy"`
	MaxAdded             int32   `parquet:"max_added,snappy"`
	AvgDeleted           float64 `parquet:"avg_deleted,snappy"`
	MaxDeleted           int32   `parquet:"max_deleted,snappy"`
	AvgChurn             float64 `parquet:"avg_churn,snappy"`
	MaxChurn             int32   `parquet:"max_churn,snappy"`
	ElseAdded            int32   `parquet:"else_added,snappy"`
	ElseDeleted          int32   `parquet:"else_deleted,snappy"`
	CondChanges          int32   `parquet:"cond_changes,snappy"`
	DecisionPoints       int32   `parquet:"decision_points,snappy"`
	Histories            int32   `parquet:"histories,snappy"`
	Authors              int32   `parquet:"authors,snappy"`
	Buggy                bool    `parquet:"buggy"`
}

// BuildRun represents a single dataset build of a project.
// This struct maps to the isw2_dataset_runs database table.
type BuildRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID correlates the run with log output
	RunUUID string `parquet:"run_uuid,snappy"`

	// Project is the tracker key of the project that was built
	Project string `parquet:"project,snappy,dict"`

	// StartTime is when the build began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the build completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Releases   int32 `parquet:"releases,snappy"`
	Rows       int32 `parquet:"rows,snappy"`
	BuggyRows  int32 `parquet:"buggy_rows,snappy"`
	FixCommits int32 `parquet:"fix_commits,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ReleaseStat is the per-release row count of a run.
// This struct maps to the isw2_release_stats database table.
type ReleaseStat struct {
	RunID   int64  `parquet:"run_id,snappy"`
	Release string `parquet:"release,snappy,dict"`
	Files   int32  `parquet:"files,snappy"`
	Methods int32  `parquet:"methods,snappy"`
	Buggy   int32  `parquet:"buggy,snappy"`
}

// writeParquet writes records to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteDatasetParquet writes dataset rows to a Parquet file.
func WriteDatasetParquet(rows []schema.DatasetRow, outputPath string) error {
	return writeParquet(ConvertDatasetRows(rows), outputPath)
}

// WriteBuildRunsParquet writes a slice of BuildRun structs to a Parquet file.
func WriteBuildRunsParquet(data []BuildRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReleaseStatsParquet writes a slice of ReleaseStat structs to a Parquet file.
func WriteReleaseStatsParquet(data []ReleaseStat, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ReadDatasetParquet reads back every record of a dataset Parquet file.
func ReadDatasetParquet(path string) ([]DatasetRecord, error) {
	rows, err := parquet.ReadFile[DatasetRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// ConvertDatasetRows converts schema.DatasetRow to DatasetRecord for Parquet export.
func ConvertDatasetRows(rows []schema.DatasetRow) []DatasetRecord {
	result := make([]DatasetRecord, len(rows))
	for i, r := range rows {
		result[i] = DatasetRecord{
			Version:              r.Version,
			FileName:             r.FileName,
			MethodName:           r.MethodName,
			LOC:                  int32(r.LOC),
			CognitiveComplexity:  int32(r.CognitiveComplexity),
			CyclomaticComplexity: int32(r.CyclomaticComplexity),
			CodeSmells:           int32(r.CodeSmells),
			NestingDepth:         int32(r.NestingDepth),
			ParameterCount:       int32(r.ParameterCount),
			ChurnTotal:           int32(r.ChurnTotal),
			AvgAdded:             r.AvgAdded,
			MaxAdded:             int32(r.MaxAdded),
			AvgDeleted:           r.AvgDeleted,
			MaxDeleted:           int32(r.MaxDeleted),
			AvgChurn:             r.AvgChurn,
			MaxChurn:             int32(r.MaxChurn),
			ElseAdded:            int32(r.ElseAdded),
			ElseDeleted:          int32(r.ElseDeleted),
			CondChanges:          int32(r.CondChanges),
			DecisionPoints:       int32(r.DecisionPoints),
			Histories:            int32(r.Histories),
			Authors:              int32(r.Authors),
			Buggy:                r.Buggy,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to BuildRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []BuildRun {
	result := make([]BuildRun, len(records))
	for i, record := range records {
		result[i] = BuildRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			Project:       record.Project,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Releases:      record.Releases,
			Rows:          record.Rows,
			BuggyRows:     record.BuggyRows,
			FixCommits:    record.FixCommits,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertReleaseStatRecords converts schema.ReleaseStatRecord to ReleaseStat for Parquet export.
func ConvertReleaseStatRecords(records []schema.ReleaseStatRecord) []ReleaseStat {
	result := make([]ReleaseStat, len(records))
	for i, record := range records {
		result[i] = ReleaseStat(record)
	}
	return result
}
