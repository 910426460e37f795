package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/locviz/schema"
)

// PrintCacheStatus prints row cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %s\n", humanize.Comma(int64(status.TotalEntries)))
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s (%s)\n", status.LastEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastEntryTime))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s (%s)\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestEntryTime))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Runs Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %s\n", humanize.Comma(int64(status.TotalRuns)))
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s (%s)\n", status.LastRunTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastRunTime))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s (%s)\n", status.OldestRunTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestRunTime))
		_, _ = fmt.Fprintf(w, "Total Rows Loaded: %s\n", humanize.Comma(status.TotalRows))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %s rows\n", table, humanize.Comma(status.TableSizes[table]))
	}
}
