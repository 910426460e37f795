package iocache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/locviz/internal/parquet"
	"github.com/huangsam/locviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

var sampleSummary = schema.Summary{
	NumCommits:    2,
	NumFiles:      3,
	LongestFile:   "src/app.js",
	MaxFileLength: 3,
	TimeOfDay:     schema.Morning,
	DayOfWeek:     "Monday",
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteRunStore(t)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(start, "loc.csv")
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)

	info := schema.LoadInfo{Source: "loc.csv", Hash: "abc123", Fallback: true}
	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), info, 5, sampleSummary))

	runs, err = store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, runID, r.RunID)
	assert.True(t, start.Equal(r.StartTime))
	require.NotNil(t, r.EndTime)
	require.NotNil(t, r.RunDurationMs)
	assert.Equal(t, int32(1500), *r.RunDurationMs)
	assert.Equal(t, "loc.csv", r.Source)
	assert.Equal(t, "abc123", r.SourceHash)
	assert.True(t, r.Fallback)
	assert.Equal(t, int32(5), r.NumRows)
	assert.Equal(t, int32(2), r.NumCommits)
	assert.Equal(t, int32(3), r.NumFiles)
	assert.Equal(t, "src/app.js", r.LongestFile)
	assert.Equal(t, schema.Morning, r.ActiveTime)
	assert.Equal(t, "Monday", r.ActiveDay)
}

func TestRunStoreStatus(t *testing.T) {
	store := newSQLiteRunStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)

	first := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	id1, err := store.BeginRun(first, "a.csv")
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id1, first.Add(time.Second), schema.LoadInfo{}, 5, sampleSummary))
	id2, err := store.BeginRun(second, "b.csv")
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id2, second.Add(time.Second), schema.LoadInfo{}, 7, sampleSummary))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, id2, status.LastRunID)
	assert.True(t, second.Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, int64(12), status.TotalRows)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
}

func TestRunStoreEndUnknownRun(t *testing.T) {
	store := newSQLiteRunStore(t)
	err := store.EndRun(42, time.Now(), schema.LoadInfo{}, 0, schema.Summary{})
	assert.Error(t, err)
}

func TestRunStoreNone(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginRun(time.Now(), "loc.csv")
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, store.EndRun(id, time.Now(), schema.LoadInfo{}, 0, schema.Summary{}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestRunStoreBoltRejected(t *testing.T) {
	_, err := NewRunStore(schema.BoltBackend, "")
	assert.Error(t, err)
}

func TestClearRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, path))
	assert.NoError(t, ClearRuns(schema.NoneBackend, ""))
	assert.Error(t, ClearRuns(schema.BoltBackend, ""))
}

func TestExportRuns(t *testing.T) {
	store := newSQLiteRunStore(t)
	var out bytes.Buffer
	target := filepath.Join(t.TempDir(), "export")

	err := ExportRuns(&out, store, target)
	assert.ErrorContains(t, err, "no run data")

	assert.Error(t, ExportRuns(&out, store, ""))

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := store.BeginRun(start, "loc.csv")
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id, start.Add(time.Second), schema.LoadInfo{Hash: "ff"}, 5, sampleSummary))

	out.Reset()
	require.NoError(t, ExportRuns(&out, store, target))
	assert.Contains(t, out.String(), "Exported 1 runs")

	records, err := parquet.ReadLoadRunsFile(target + ".runs.parquet")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "loc.csv", records[0].Source)
	assert.Equal(t, "ff", records[0].SourceHash)
}
