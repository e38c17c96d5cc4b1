package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuro1999/isw2-dataset/schema"
)

func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestCaching(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals()
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		runsPath := filepath.Join(dir, "runs.db")

		err := InitCaching(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runsPath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetFetchStore())
		assert.NotNil(t, Manager.GetRunStore())
		CloseCaching()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "cache database file should be created")
		_, err = os.Stat(runsPath)
		assert.NoError(t, err, "runs database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		path := filepath.Join(t.TempDir(), "cache.db")

		assert.NoError(t, InitCaching(schema.SQLiteBackend, path, "", ""))
		assert.NoError(t, InitCaching(schema.SQLiteBackend, path, "", ""))

		CloseCaching()
		CloseCaching()
	})

	t.Run("disabled runs get a no-op store", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitCaching(schema.NoneBackend, "", "", ""))
		defer CloseCaching()

		runs := Manager.GetRunStore()
		require.NotNil(t, runs)
		id, err := runs.BeginRun("ZOOKEEPER", time.Now(), nil)
		assert.NoError(t, err)
		assert.Zero(t, id)

		status, err := runs.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("bad backend fails", func(t *testing.T) {
		resetGlobals()
		err := InitCaching("oracle", "", "", "")
		assert.ErrorContains(t, err, "failed to initialize fetch cache")
	})
}

func TestNoneCacheStore(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("k", []byte("v"), 1, 123))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows, "set is a no-op")
	assert.NoError(t, store.Close())
}

func TestSQLiteCacheStore(t *testing.T) {
	store, err := NewCacheStore("fetch_test", schema.SQLiteBackend, filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("tickets", []byte(`[{"key":"ZOOKEEPER-1"}]`), 1, now-60))
	require.NoError(t, store.Set("tickets", []byte(`[]`), 2, now))
	require.NoError(t, store.Set("versions", []byte(`[]`), 1, now-3600))

	value, version, ts, err := store.Get("tickets")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value, "upsert replaces the value")
	assert.Equal(t, 2, version)
	assert.Equal(t, now, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, now, status.LastEntryTime.Unix())
	assert.Equal(t, now-3600, status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestRunStoreSQLite(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := store.BeginRun("BOOKKEEPER", start, map[string]any{"workers": 4})
	require.NoError(t, err)
	assert.Positive(t, id)

	require.NoError(t, store.RecordRelease(id, schema.ReleaseStat{Release: "4.0.0", Files: 10, Methods: 120, Buggy: 7}))
	require.NoError(t, store.RecordRelease(id, schema.ReleaseStat{Release: "4.1.0", Files: 11, Methods: 130, Buggy: 3}))
	require.NoError(t, store.EndRun(id, start.Add(90*time.Second), schema.RunTotals{Releases: 2, Rows: 250, BuggyRows: 10, FixCommits: 5}))

	second, err := store.BeginRun("OPENJPA", start.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Greater(t, second, id)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	first := runs[0]
	assert.Equal(t, "BOOKKEEPER", first.Project)
	assert.Len(t, first.RunUUID, 36)
	assert.True(t, start.Equal(first.StartTime))
	require.NotNil(t, first.EndTime)
	require.NotNil(t, first.RunDurationMs)
	assert.Equal(t, int32(90000), *first.RunDurationMs)
	assert.Equal(t, int32(250), first.Rows)
	assert.Equal(t, int32(10), first.BuggyRows)
	require.NotNil(t, first.ConfigParams)
	assert.JSONEq(t, `{"workers":4}`, *first.ConfigParams)

	assert.Nil(t, runs[1].EndTime, "unfinished run has no end time")

	stats, err := store.GetAllReleaseStats()
	require.NoError(t, err)
	assert.Equal(t, []schema.ReleaseStatRecord{
		{RunID: id, Release: "4.0.0", Files: 10, Methods: 120, Buggy: 7},
		{RunID: id, Release: "4.1.0", Files: 11, Methods: 130, Buggy: 3},
	}, stats)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.Equal(t, int64(250), status.TotalRows)
	assert.Equal(t, int64(2), status.TableSizes[releaseStatsTable])

	var buf bytes.Buffer
	require.NoError(t, PrintRunStatus(&buf, status))
	assert.Contains(t, buf.String(), "isw2_release_stats")
}

func TestEndRunUnknownID(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.EndRun(42, time.Now(), schema.RunTotals{})
	assert.ErrorContains(t, err, "run 42")
}

func TestClearBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(fetchTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""), "missing file is fine")
	assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache("oracle", "", ""))
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"}))
	assert.Contains(t, buf.String(), "none")
	assert.NotContains(t, buf.String(), "Total Entries")

	buf.Reset()
	require.NoError(t, PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 1200, TableSizeBytes: 2048,
		LastEntryTime: time.Now(), OldestEntryTime: time.Now().Add(-time.Hour),
	}))
	assert.Contains(t, buf.String(), "1,200")
	assert.Contains(t, buf.String(), "2.0 kB")
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "test_table", false},
		{"valid name with numbers", "test_table_123", false},
		{"valid name starting with underscore", "_test_table", false},
		{"valid mixed case", "TestTable_123", false},
		{"empty name", "", true},
		{"starts with number", "123_table", true},
		{"contains dash", "test-table", true},
		{"contains space", "test table", true},
		{"sql injection attempt", "test'; DROP TABLE users; --", true},
		{"contains dot", "test.table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}
