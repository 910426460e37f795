package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// rowHeader is the column order of the change-log table.
var rowHeader = []string{"commit", "file", "type", "line", "depth", "length", "author", "date", "time", "timezone", "datetime"}

// WriteRows writes a change log. Text and CSV modes both produce the CSV table that the
// other commands read back.
func WriteRows(rows []schema.Row, cfg *contract.Config) error {
	if ok, err := writeStructured(cfg, rows); ok {
		return err
	}
	if cfg.Output == schema.ParquetOut {
		return writeRowsParquet(rows, cfg)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRowsCSV(w, rows)
	}, "Wrote CSV")
}

// WriteRowsCSV writes rows in the change-log CSV format.
func WriteRowsCSV(w io.Writer, rows []schema.Row) error {
	return writeCSVWithHeader(w, rowHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.Commit,
				r.File,
				r.Type,
				strconv.Itoa(r.Line),
				strconv.Itoa(r.Depth),
				strconv.Itoa(r.Length),
				r.Author,
				r.Date.Format(time.DateOnly),
				r.Time,
				r.Timezone,
				r.Datetime.Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
