package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/gitmine/schema"
)

// PrintCacheStatus prints snapshot cache status information.
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

// PrintAnalysisStatus prints report run status information.
func PrintAnalysisStatus(w io.Writer, status schema.AnalysisStatus) {
	_, _ = fmt.Fprintf(w, "Analysis Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %s\n", humanize.Comma(int64(status.TotalRuns)))
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s (%s)\n", status.LastRunTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastRunTime))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Total Files Recorded: %s\n", humanize.Comma(int64(status.TotalFiles)))
	}
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %s rows\n", table, humanize.Comma(status.TableSizes[table]))
	}
}
