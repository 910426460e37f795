// Package parquet provides the columnar records locviz reads and writes with
// github.com/parquet-go/parquet-go: change-log rows and tracked load runs.
package parquet

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/locviz/schema"
	"github.com/parquet-go/parquet-go"
)

// RowRecord is one change-log line in columnar form.
// Time columns stay as raw strings so that CSV and Parquet inputs share one parser.
type RowRecord struct {
	Commit   string `parquet:"commit,snappy"`
	File     string `parquet:"file,snappy"`
	Type     string `parquet:"type,snappy"`
	Line     int64  `parquet:"line,snappy"`
	Depth    int64  `parquet:"depth,snappy"`
	Length   int64  `parquet:"length,snappy"`
	Author   string `parquet:"author,snappy"`
	Date     string `parquet:"date,snappy"`
	Time     string `parquet:"time,snappy"`
	Timezone string `parquet:"timezone,snappy"`
	Datetime string `parquet:"datetime,snappy"`
}

// Columns returns the record as column name to raw string value.
func (r RowRecord) Columns() map[string]string {
	return map[string]string{
		"commit":   r.Commit,
		"file":     r.File,
		"type":     r.Type,
		"line":     strconv.FormatInt(r.Line, 10),
		"depth":    strconv.FormatInt(r.Depth, 10),
		"length":   strconv.FormatInt(r.Length, 10),
		"author":   r.Author,
		"date":     r.Date,
		"time":     r.Time,
		"timezone": r.Timezone,
		"datetime": r.Datetime,
	}
}

// LoadRun is one tracked dataset load. It maps to the locviz_runs table.
type LoadRun struct {
	// RunID is the unique identifier of the run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the load began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the load completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the load duration in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Source        string `parquet:"source,snappy"`
	SourceHash    string `parquet:"source_hash,snappy"`
	Fallback      bool   `parquet:"fallback"`
	NumRows       int32  `parquet:"num_rows,snappy"`
	NumCommits    int32  `parquet:"num_commits,snappy"`
	NumFiles      int32  `parquet:"num_files,snappy"`
	LongestFile   string `parquet:"longest_file,snappy"`
	MaxFileLength int32  `parquet:"max_file_length,snappy"`
	ActiveTime    string `parquet:"active_time,snappy"`
	ActiveDay     string `parquet:"active_day,snappy"`
}

// ReadRowsFile reads every change-log record from a Parquet file.
func ReadRowsFile(path string) ([]RowRecord, error) {
	records, err := parquet.ReadFile[RowRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return records, nil
}

// ReadLoadRunsFile reads exported runs back from a Parquet file.
func ReadLoadRunsFile(path string) ([]LoadRun, error) {
	records, err := parquet.ReadFile[LoadRun](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return records, nil
}

// WriteRowsParquet writes change-log records to a Parquet file.
func WriteRowsParquet(data []RowRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLoadRunsParquet writes tracked runs to a Parquet file.
func WriteLoadRunsParquet(data []LoadRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRows converts parsed rows back to columnar records.
func ConvertRows(rows []schema.Row) []RowRecord {
	result := make([]RowRecord, len(rows))
	for i, r := range rows {
		result[i] = RowRecord{
			Commit:   r.Commit,
			File:     r.File,
			Type:     r.Type,
			Line:     int64(r.Line),
			Depth:    int64(r.Depth),
			Length:   int64(r.Length),
			Author:   r.Author,
			Date:     r.Date.Format(time.DateOnly),
			Time:     r.Time,
			Timezone: r.Timezone,
			Datetime: r.Datetime.Format(time.RFC3339),
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to LoadRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []LoadRun {
	result := make([]LoadRun, len(records))
	for i, record := range records {
		result[i] = LoadRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Source:        record.Source,
			SourceHash:    record.SourceHash,
			Fallback:      record.Fallback,
			NumRows:       record.NumRows,
			NumCommits:    record.NumCommits,
			NumFiles:      record.NumFiles,
			LongestFile:   record.LongestFile,
			MaxFileLength: record.MaxFileLength,
			ActiveTime:    record.ActiveTime,
			ActiveDay:     record.ActiveDay,
		}
	}
	return result
}
