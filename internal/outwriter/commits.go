package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/locviz/core/agg"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/parquet"
	"github.com/huangsam/locviz/schema"
)

// commitRecord is the flat, serializable view of a commit.
type commitRecord struct {
	ID         string    `json:"id" yaml:"id"`
	URL        string    `json:"url" yaml:"url"`
	Author     string    `json:"author" yaml:"author"`
	Datetime   time.Time `json:"datetime" yaml:"datetime"`
	HourFrac   float64   `json:"hour_frac" yaml:"hour_frac"`
	TotalLines int       `json:"total_lines" yaml:"total_lines"`
	NumFiles   int       `json:"num_files" yaml:"num_files"`
}

// selectionDocument is the structured form of a selection.
type selectionDocument struct {
	schema.SelectionResult `yaml:",inline"`
	CountText              string         `json:"count_text" yaml:"count_text"`
	Details                []commitRecord `json:"commits" yaml:"commits"`
}

func toCommitRecords(commits []schema.Commit) []commitRecord {
	records := make([]commitRecord, len(commits))
	for i, c := range commits {
		records[i] = commitRecord{
			ID:         c.ID,
			URL:        c.URL,
			Author:     c.Author,
			Datetime:   c.Datetime,
			HourFrac:   c.HourFrac,
			TotalLines: c.TotalLines,
			NumFiles:   c.NumFiles(),
		}
	}
	return records
}

// WriteCommits outputs a commit listing, dispatching based on the output format configured.
// Parquet output writes the underlying rows of the listed commits.
func WriteCommits(commits []schema.Commit, cfg *contract.Config) error {
	records := toCommitRecords(commits)
	if ok, err := writeStructured(cfg, records); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitsCSV(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeRowsParquet(agg.FlattenLines(commits), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeCommitTable(w, records, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d commits\n", len(records))
			return err
		}, "Wrote table")
	}
}

// WriteSelection outputs the filter state, its breakdown and the effective commits.
func WriteSelection(result schema.SelectionResult, commits []schema.Commit, cfg *contract.Config) error {
	countText := fmt.Sprintf("%d commits selected", result.Selected)
	doc := selectionDocument{SelectionResult: result, CountText: countText, Details: toCommitRecords(commits)}
	if ok, err := writeStructured(cfg, doc); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBreakdownCSV(w, result.Breakdown)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeRowsParquet(agg.FlattenLines(commits), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSelectionText(w, result, countText, doc.Details, cfg)
		}, "Wrote selection")
	}
}

func writeSelectionText(w io.Writer, result schema.SelectionResult, countText string, records []commitRecord, cfg *contract.Config) error {
	timeLabel := schema.AnyTimeLabel
	if result.Cutoff != nil {
		timeLabel = result.Cutoff.Format(schema.SliderTimeLayout)
	}
	if _, err := fmt.Fprintf(w, "%s %s (%d visible)\n%s\n\n",
		contract.Colorize(contract.LabelColor, "Commits by time of day up to", cfg.UseColors),
		contract.Colorize(contract.ValueColor, timeLabel, cfg.UseColors),
		result.Visible,
		contract.Colorize(contract.AccentColor, countText, cfg.UseColors),
	); err != nil {
		return err
	}

	var data [][]string
	for _, e := range result.Breakdown {
		data = append(data, []string{e.Type, strconv.Itoa(e.Count), e.Formatted})
	}
	if len(data) > 0 {
		if err := renderTable(w, []string{"Type", "Lines", "Share"}, data); err != nil {
			return err
		}
	}
	if len(records) == 0 {
		return nil
	}
	return writeCommitTable(w, records, cfg)
}

func writeCommitTable(w io.Writer, records []commitRecord, cfg *contract.Config) error {
	idWidth := getMaxTablePathWidth(cfg, 55)
	data := make([][]string, 0, len(records))
	for i, r := range records {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.ID, idWidth),
			r.Datetime.Format(time.DateTime),
			r.Author,
			strconv.Itoa(r.TotalLines),
			strconv.Itoa(r.NumFiles),
		})
	}
	return renderTable(w, []string{"#", "Commit", "Datetime", "Author", "Lines", "Files"}, data)
}

func writeCommitsCSV(w io.Writer, records []commitRecord) error {
	header := []string{"commit", "url", "author", "datetime", "hour_frac", "total_lines", "num_files"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.ID,
				r.URL,
				r.Author,
				r.Datetime.Format(contract.DateTimeFormat),
				strconv.FormatFloat(r.HourFrac, 'f', 4, 64),
				strconv.Itoa(r.TotalLines),
				strconv.Itoa(r.NumFiles),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBreakdownCSV(w io.Writer, entries []schema.BreakdownEntry) error {
	return writeCSVWithHeader(w, []string{"type", "lines", "fraction", "formatted"}, func(cw *csv.Writer) error {
		for _, e := range entries {
			rec := []string{e.Type, strconv.Itoa(e.Count), strconv.FormatFloat(e.Fraction, 'f', 4, 64), e.Formatted}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRowsParquet(rows []schema.Row, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if err := parquet.WriteRowsParquet(parquet.ConvertRows(rows), cfg.OutputFile); err != nil {
		return err
	}
	contract.LogInfo("Wrote parquet", map[string]any{"file": cfg.OutputFile, "rows": len(rows)})
	return nil
}
