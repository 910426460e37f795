package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/locviz/schema"
)

// ReadCSVFile opens and parses a CSV change log.
func ReadCSVFile(path string, opts Options) ([]schema.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, opts)
}

// ReadCSV parses a CSV change log with a header row.
// The header must name commit, file (or path) and datetime; other columns are optional.
func ReadCSV(r io.Reader, opts Options) ([]schema.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := headerIndex(header)
	if err := checkHeader(index); err != nil {
		return nil, err
	}

	var rows []schema.Row
	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		cols := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(record) {
				cols[name] = record[i]
			}
		}
		row, err := ParseRow(cols, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// headerIndex maps lowercased column names to their positions. The first occurrence wins.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return index
}

func checkHeader(index map[string]int) error {
	if _, ok := index["commit"]; !ok {
		return fmt.Errorf("%w: commit", ErrMissingColumn)
	}
	_, hasFile := index["file"]
	_, hasPath := index["path"]
	if !hasFile && !hasPath {
		return fmt.Errorf("%w: file", ErrMissingColumn)
	}
	if _, ok := index["datetime"]; !ok {
		return fmt.Errorf("%w: datetime", ErrMissingColumn)
	}
	return nil
}
