package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

// WriteStory outputs the scroll narrative, dispatching based on the output format configured.
func WriteStory(steps []schema.Step, cfg *contract.Config) error {
	if ok, err := writeStructured(cfg, steps); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"index", "commit", "url", "datetime", "lines", "files", "text"}, func(cw *csv.Writer) error {
				for _, s := range steps {
					rec := []string{
						strconv.Itoa(s.Index),
						s.CommitID,
						s.URL,
						s.Datetime.Format(contract.DateTimeFormat),
						strconv.Itoa(s.TotalLines),
						strconv.Itoa(s.NumFiles),
						s.Text,
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedOutput(cfg, "story")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, s := range steps {
				if _, err := fmt.Fprintf(w, "%s\n%s\n\n",
					s.Text,
					contract.Colorize(contract.MutedColor, s.URL, cfg.UseColors),
				); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote story")
	}
}
