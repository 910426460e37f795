package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// statsDocument is the structured form of the statistics panel.
type statsDocument struct {
	Source  schema.LoadInfo    `json:"source" yaml:"source"`
	Summary schema.Summary     `json:"summary" yaml:"summary"`
	Entries []schema.StatEntry `json:"entries" yaml:"entries"`
}

// WriteStats outputs the statistics panel, dispatching based on the output format configured.
func WriteStats(summary schema.Summary, info schema.LoadInfo, cfg *contract.Config) error {
	entries := summary.Entries()
	doc := statsDocument{Source: info, Summary: summary, Entries: entries}
	if ok, err := writeStructured(cfg, doc); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"label", "value"}, func(cw *csv.Writer) error {
				for _, e := range entries {
					if err := cw.Write([]string{e.Label, e.Value}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedOutput(cfg, "stats")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsText(w, entries, cfg)
		}, "Wrote stats")
	}
}

// writeStatsText prints one labeled line per statistic.
func writeStatsText(w io.Writer, entries []schema.StatEntry, cfg *contract.Config) error {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Label))
	}
	for _, e := range entries {
		label := fmt.Sprintf("%-*s", width, e.Label)
		if _, err := fmt.Fprintf(w, "%s  %s\n",
			contract.Colorize(contract.LabelColor, label, cfg.UseColors),
			contract.Colorize(contract.ValueColor, e.Value, cfg.UseColors),
		); err != nil {
			return err
		}
	}
	return nil
}
