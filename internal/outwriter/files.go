package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// maxUnitsPerFile caps the dots drawn for one file in the text view.
const maxUnitsPerFile = 40

// fileRecord is the structured form of one file of the composition panel.
type fileRecord struct {
	Name   string         `json:"name" yaml:"name"`
	Lines  int            `json:"lines" yaml:"lines"`
	ByType map[string]int `json:"by_type" yaml:"by_type"`
	Units  []string       `json:"units" yaml:"units"`
}

func toFileRecords(files []schema.FileGroup) []fileRecord {
	records := make([]fileRecord, len(files))
	for i, f := range files {
		rec := fileRecord{Name: f.Name, Lines: f.Lines, ByType: map[string]int{}, Units: make([]string, len(f.Units))}
		for j, u := range f.Units {
			rec.ByType[u.Type]++
			rec.Units[j] = u.Color
		}
		records[i] = rec
	}
	return records
}

// WriteFiles outputs the file composition panel, dispatching based on the output format configured.
func WriteFiles(files []schema.FileGroup, cfg *contract.Config) error {
	if ok, err := writeStructured(cfg, toFileRecords(files)); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFilesCSV(w, files)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedOutput(cfg, "files")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFilesText(w, files, cfg)
		}, "Wrote files")
	}
}

// writeFilesText prints each file with its line count and one colored dot per line.
func writeFilesText(w io.Writer, files []schema.FileGroup, cfg *contract.Config) error {
	nameWidth := getMaxTablePathWidth(cfg, maxUnitsPerFile+12)
	for _, f := range files {
		name := contract.TruncatePath(f.Name, nameWidth)
		var dots strings.Builder
		for i, u := range f.Units {
			if i == maxUnitsPerFile {
				dots.WriteString(contract.Colorize(contract.MutedColor, "…", cfg.UseColors))
				break
			}
			dots.WriteString(contract.Colorize(typeColor(u.Color), "•", cfg.UseColors))
		}
		if _, err := fmt.Fprintf(w, "%-*s %s %s\n",
			nameWidth,
			name,
			contract.Colorize(contract.MutedColor, fmt.Sprintf("%5d lines", f.Lines), cfg.UseColors),
			dots.String(),
		); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Showing %d files\n", len(files))
	return err
}

func writeFilesCSV(w io.Writer, files []schema.FileGroup) error {
	return writeCSVWithHeader(w, []string{"file", "type", "lines", "color"}, func(cw *csv.Writer) error {
		for _, f := range files {
			counts := map[string]int{}
			var order []string
			colors := map[string]string{}
			for _, u := range f.Units {
				if _, ok := counts[u.Type]; !ok {
					order = append(order, u.Type)
					colors[u.Type] = u.Color
				}
				counts[u.Type]++
			}
			for _, typ := range order {
				if err := cw.Write([]string{f.Name, typ, strconv.Itoa(counts[typ]), colors[typ]}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
