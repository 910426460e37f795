package iocache

import (
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// runsTable holds one row per dataset load.
const runsTable = "locviz_runs"

// runColumns is the column list read back by GetAllRuns.
const runColumns = `run_id, start_time, end_time, run_duration_ms, source, source_hash, fallback,
	num_rows, num_commits, num_files, longest_file, max_file_length, active_time, active_day`

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
// The table is created from the first embedded migration when missing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}
	if backend == schema.BoltBackend {
		return nil, fmt.Errorf("unsupported runs backend: %s", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	query, err := fs.ReadFile(migrationsFS, fmt.Sprintf("migrations/%s/000001_create_runs.up.sql", backend))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("missing runs schema for %s: %w", backend, err)
	}
	if _, err := db.Exec(string(query)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

func (rs *RunStoreImpl) table() string {
	return quoteTableName(runsTable, rs.backend)
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, source string) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source) VALUES ($1, $2) RETURNING run_id`, rs.table())
		err = rs.db.QueryRow(query, startTime, source).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, source) VALUES (?, ?)`, rs.table())
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), source)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun records the outcome of the load and the corpus statistics.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, info schema.LoadInfo, numRows int, summary schema.Summary) error {
	if rs.disabled() {
		return nil
	}

	startTime, err := rs.startTime(runID)
	if err != nil {
		return err
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	p := func(n int) string { return placeholder(rs.backend, n) }
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, source_hash = %s, fallback = %s,
		num_rows = %s, num_commits = %s, num_files = %s, longest_file = %s, max_file_length = %s,
		active_time = %s, active_day = %s WHERE run_id = %s`,
		rs.table(), p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9), p(10), p(11), p(12))

	_, err = rs.db.Exec(query,
		formatTime(endTime, rs.backend), durationMs, info.Hash, info.Fallback,
		numRows, summary.NumCommits, summary.NumFiles, summary.LongestFile, summary.MaxFileLength,
		summary.TimeOfDay, summary.DayOfWeek, runID)
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

func (rs *RunStoreImpl) startTime(runID int64) (time.Time, error) {
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, rs.table(), placeholder(rs.backend, 1))
	row := rs.db.QueryRow(query, runID)
	t, err := scanTime(row, rs.backend)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	return t, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(num_rows), 0) FROM %s", rs.table()))
	if err := row.Scan(&status.TotalRuns, &status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	status.TableSizes[runsTable] = int64(status.TotalRuns)

	if status.TotalRuns == 0 {
		return status, nil
	}

	row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", rs.table()))
	if err := row.Scan(&status.LastRunID); err != nil {
		return status, fmt.Errorf("failed to get last run id: %w", err)
	}

	var err error
	row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", rs.table()))
	if status.LastRunTime, err = scanTime(row, rs.backend); err != nil {
		return status, fmt.Errorf("failed to get last run time: %w", err)
	}
	row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", rs.table()))
	if status.OldestRunTime, err = scanTime(row, rs.backend); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	rows, err := rs.db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id", runColumns, rs.table()))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		rest := []any{
			&r.RunDurationMs, &r.Source, &r.SourceHash, &r.Fallback,
			&r.NumRows, &r.NumCommits, &r.NumFiles, &r.LongestFile, &r.MaxFileLength, &r.ActiveTime, &r.ActiveDay,
		}

		switch rs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(append([]any{&r.RunID, &startStr, &endStr}, rest...)...); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if r.StartTime, err = time.Parse(time.RFC3339Nano, startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				end, err := time.Parse(time.RFC3339Nano, *endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				r.EndTime = &end
			}
		default: // MySQL and PostgreSQL store native datetimes
			if err := rows.Scan(append([]any{&r.RunID, &r.StartTime, &r.EndTime}, rest...)...); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// scanTime reads one timestamp column, which SQLite stores as RFC3339 text.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}
