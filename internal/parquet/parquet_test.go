package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuro1999/isw2-dataset/schema"
)

func TestDatasetRecordStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(DatasetRecord))
	require.NotNil(t, s)

	expectedColumns := []string{
		"version", "file_name", "method_name", "loc",
		"cognitive_complexity", "cyclomatic_complexity", "code_smells",
		"nesting_depth", "parameter_count", "churn_total",
		"avg_added", "max_added", "avg_deleted", "max_deleted",
		"avg_churn", "max_churn", "else_added", "else_deleted",
		"cond_changes", "decision_points", "histories", "authors", "buggy",
	}
	assert.Len(t, s.Fields(), len(schema.DatasetHeader), "one column per dataset column")
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestBuildRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(BuildRun))
	for _, colName := range []string{
		"run_id", "run_uuid", "project", "start_time", "end_time", "run_duration_ms",
		"releases", "rows", "buggy_rows", "fix_commits", "config_params",
	} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteDatasetParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "dataset.parquet")
	rows := []schema.DatasetRow{
		{Version: "1.0.0", FileName: "A.java", MethodName: "int f()", LOC: 3, CyclomaticComplexity: 1, Buggy: true, AvgAdded: 1.5},
		{Version: "1.0.0", FileName: "B.java", MethodName: "void g(int, String)", LOC: 10, ParameterCount: 2},
	}

	require.NoError(t, WriteDatasetParquet(rows, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	read, err := ReadDatasetParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, "int f()", read[0].MethodName)
	assert.True(t, read[0].Buggy)
	assert.InDelta(t, 1.5, read[0].AvgAdded, 1e-9)
	assert.Equal(t, int32(2), read[1].ParameterCount)
	assert.False(t, read[1].Buggy)
}

func TestWriteBuildRunsParquet_Nullable(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	end := time.Now()
	duration := int32(1500)
	params := `{"workers":4}`
	records := []schema.RunRecord{
		{RunID: 1, RunUUID: "a", Project: "BOOKKEEPER", StartTime: end.Add(-time.Minute), EndTime: &end, RunDurationMs: &duration, Releases: 3, Rows: 100, BuggyRows: 7, ConfigParams: &params},
		{RunID: 2, RunUUID: "b", Project: "OPENJPA", StartTime: end},
	}

	require.NoError(t, WriteBuildRunsParquet(ConvertRunRecords(records), outputPath))

	read, err := parquet.ReadFile[BuildRun](outputPath)
	require.NoError(t, err)
	require.Len(t, read, 2)
	require.NotNil(t, read[0].RunDurationMs)
	assert.Equal(t, int32(1500), *read[0].RunDurationMs)
	assert.Nil(t, read[1].EndTime)
	assert.Nil(t, read[1].ConfigParams)
}

func TestConvertReleaseStatRecords(t *testing.T) {
	out := ConvertReleaseStatRecords([]schema.ReleaseStatRecord{{RunID: 4, Release: "4.0.0", Files: 2, Methods: 9, Buggy: 1}})
	assert.Equal(t, []ReleaseStat{{RunID: 4, Release: "4.0.0", Files: 2, Methods: 9, Buggy: 1}}, out)

	path := filepath.Join(t.TempDir(), "stats.parquet")
	require.NoError(t, WriteReleaseStatsParquet(out, path))
}

func TestWriteParquet_BadPath(t *testing.T) {
	err := WriteDatasetParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
}
