package schema

import "time"

// CacheStatus represents the status of the row cache store.
type CacheStatus struct {
	Backend         string    `json:"backend" yaml:"backend"`
	Connected       bool      `json:"connected" yaml:"connected"`
	TotalEntries    int       `json:"total_entries" yaml:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time" yaml:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time" yaml:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes" yaml:"table_size_bytes"`
}

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend       string           `json:"backend" yaml:"backend"`
	Connected     bool             `json:"connected" yaml:"connected"`
	TotalRuns     int              `json:"total_runs" yaml:"total_runs"`
	LastRunID     int64            `json:"last_run_id" yaml:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time" yaml:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time" yaml:"oldest_run_time"`
	TotalRows     int64            `json:"total_rows" yaml:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes" yaml:"table_sizes"`
}

// LoadInfo describes where a dataset came from.
type LoadInfo struct {
	Source   string        `json:"source" yaml:"source"`
	Hash     string        `json:"hash" yaml:"hash"`
	Fallback bool          `json:"fallback" yaml:"fallback"`
	Cached   bool          `json:"cached" yaml:"cached"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunRecord represents a row from the locviz_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Source        string
	SourceHash    string
	Fallback      bool
	NumRows       int32
	NumCommits    int32
	NumFiles      int32
	LongestFile   string
	MaxFileLength int32
	ActiveTime    string
	ActiveDay     string
}
