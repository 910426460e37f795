// Package ingest parses the per-line change log into typed rows.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locviz/internal/parquet"
	"github.com/huangsam/locviz/schema"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Options control how raw columns are turned into typed rows.
type Options struct {
	// Location is used for timestamps that carry no offset. Nil means UTC.
	Location *time.Location
	// Convert moves every parsed timestamp into Location.
	Convert bool
	// TypeMode decides how an empty type column is filled in.
	TypeMode schema.TypeMode
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// LoadFile reads rows from a CSV or Parquet file, chosen by extension.
func LoadFile(ctx context.Context, path string, opts Options) ([]schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		records, err := parquet.ReadRowsFile(path)
		if err != nil {
			return nil, err
		}
		return FromRecords(records, opts)
	default:
		return ReadCSVFile(path, opts)
	}
}

// FromRecords converts Parquet records to rows.
func FromRecords(records []parquet.RowRecord, opts Options) ([]schema.Row, error) {
	rows := make([]schema.Row, 0, len(records))
	for i, rec := range records {
		row, err := ParseRow(rec.Columns(), opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRow builds a typed row from column name to raw value.
// The file column may be named either "file" or "path".
func ParseRow(cols map[string]string, opts Options) (schema.Row, error) {
	row := schema.Row{
		Commit:   cols["commit"],
		File:     cols["file"],
		Type:     cols["type"],
		Author:   cols["author"],
		Time:     cols["time"],
		Timezone: cols["timezone"],
	}
	if row.File == "" {
		row.File = cols["path"]
	}

	var err error
	if row.Line, err = parseInt("line", cols["line"]); err != nil {
		return schema.Row{}, err
	}
	if row.Depth, err = parseInt("depth", cols["depth"]); err != nil {
		return schema.Row{}, err
	}
	if row.Length, err = parseInt("length", cols["length"]); err != nil {
		return schema.Row{}, err
	}

	if row.Datetime, err = ParseTimestamp(cols["datetime"], opts.location()); err != nil {
		return schema.Row{}, fmt.Errorf("invalid datetime: %w", err)
	}
	if opts.Convert {
		row.Datetime = row.Datetime.In(opts.location())
	}

	if row.Date, err = parseDate(cols["date"], row.Timezone, row.Datetime, opts); err != nil {
		return schema.Row{}, fmt.Errorf("invalid date: %w", err)
	}

	if row.Type == "" {
		row.Type = ResolveType(row.File, opts.TypeMode)
	}
	return row, nil
}

// parseInt coerces a numeric column. Empty values become zero.
func parseInt(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
		}
		n = int(f)
	}
	return n, nil
}

// timestampLayouts are tried in order. Layouts without an offset are parsed in the fallback location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateTime,
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 style timestamp.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseDate combines the date column with midnight and the timezone column.
// An empty date is derived from the datetime.
func parseDate(date, tz string, datetime time.Time, opts Options) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		y, m, d := datetime.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, datetime.Location()), nil
	}
	tz = strings.TrimSpace(tz)
	var (
		t   time.Time
		err error
	)
	if tz != "" {
		t, err = time.Parse("2006-01-02T15:04Z07:00", date+"T00:00"+tz)
	} else {
		t, err = time.ParseInLocation(time.DateOnly, date, opts.location())
	}
	if err != nil {
		return time.Time{}, err
	}
	if opts.Convert {
		t = t.In(opts.location())
	}
	return t, nil
}
