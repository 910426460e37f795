package iocache

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/locviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRunsUnsupported(t *testing.T) {
	_, err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "not supported")

	_, err = MigrateRuns(schema.BoltBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	res, err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uint(2), res.To)

	res, err = MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Contains(t, res.String(), "already at version 2")

	res, err = MigrateRuns(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), res.To)

	res, err = MigrateRuns(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	res, err = MigrateRuns(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), res.To)
	assert.Contains(t, res.String(), "to version 2")
}

func TestMigratedStoreIsUsable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	_, err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalRuns)
}
