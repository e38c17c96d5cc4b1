package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuro1999/isw2-dataset/schema"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRuns_UnknownBackend(t *testing.T) {
	assert.Error(t, MigrateRuns("oracle", "", -1))
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1), "second up is a no-op")
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1), "step down to version 1")
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0), "roll back everything")
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 2))

	// Tables created by migrations are usable by the store
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.GetAllReleaseStats()
	assert.NoError(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	for backend, dir := range migrationDirs {
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 4, "up and down for each migration of %s", backend)
	}
}
