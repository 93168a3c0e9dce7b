package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/internal/parquet"
)

// ExecuteAnalysisExport exports every recorded run and file churn row to two Parquet files
// named after outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total file records: %d\n", status.TableSizes[fileChurnTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	churn, err := store.GetAllFileChurn()
	if err != nil {
		return fmt.Errorf("failed to retrieve file churn: %w", err)
	}

	runsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquet.ConvertReportRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(runs), runsFile)

	churnFile := outputFile + ".file_churn.parquet"
	if err := parquet.WriteFileChurnRecordsParquet(parquet.ConvertFileChurnRecords(churn), churnFile); err != nil {
		return fmt.Errorf("failed to write file churn: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d file churn records to: %s\n", len(churn), churnFile)

	return nil
}
