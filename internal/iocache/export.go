package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/parquet"
)

// ExportRuns writes every recorded run to outputFile + ".runs.parquet".
func ExportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteLoadRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)
	return nil
}
