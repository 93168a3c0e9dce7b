package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/internal/parquet"
	"github.com/huangsam/gitmine/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeBundle dispatches on the configured output mode.
func writeBundle(bundle *schema.ReportBundle, kinds []schema.ReportKind, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reportDocument(bundle, kinds))
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, reportDocument(bundle, kinds))
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeBundleCSV(bundle, kinds, cfg)
	case schema.ParquetOut:
		return writeBundleParquet(bundle, kinds, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBundleTables(w, bundle, kinds, cfg, duration)
		}, "Wrote tables")
	}
}

// reportDocument keys each requested report by its kind. A single report is emitted as a bare list.
func reportDocument(bundle *schema.ReportBundle, kinds []schema.ReportKind) any {
	if len(kinds) == 1 {
		return reportRows(kinds[0], bundle)
	}
	doc := make(map[schema.ReportKind]any, len(kinds))
	for _, kind := range kinds {
		doc[kind] = reportRows(kind, bundle)
	}
	return doc
}

// reportRows returns the rows of one report, never nil so empty reports encode as [].
func reportRows(kind schema.ReportKind, bundle *schema.ReportBundle) any {
	switch kind {
	case schema.AuthorsReport:
		return nonNil(bundle.Authors)
	case schema.FilesReport:
		return nonNil(bundle.Files)
	case schema.FileAuthorsReport:
		return nonNil(bundle.FileAuthors)
	case schema.CouplingReport:
		return nonNil(bundle.Coupling)
	case schema.ModulesReport:
		return nonNil(bundle.Modules)
	case schema.BranchesReport:
		return nonNil(bundle.Branches)
	}
	return []any{}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// writeBundleCSV writes one CSV per report. With an output file and several
// reports, each report gets its own file; on stdout they follow each other.
func writeBundleCSV(bundle *schema.ReportBundle, kinds []schema.ReportKind, cfg *contract.Config) error {
	perKind := len(kinds) > 1 && cfg.OutputFile != ""
	if perKind {
		for _, kind := range kinds {
			t, err := toTabular(kind, bundle, cfg.Precision)
			if err != nil {
				return err
			}
			target := reportFileName(cfg.OutputFile, string(kind), ".csv")
			if err := writeWithFile(target, func(w io.Writer) error {
				return writeCSVWithHeader(w, t.csvHeader, t.rows)
			}, "Wrote CSV"); err != nil {
				return err
			}
		}
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		for i, kind := range kinds {
			t, err := toTabular(kind, bundle, cfg.Precision)
			if err != nil {
				return err
			}
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeCSVWithHeader(w, t.csvHeader, t.rows); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote CSV")
}

// writeBundleParquet writes one parquet file per report.
func writeBundleParquet(bundle *schema.ReportBundle, kinds []schema.ReportKind, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	for _, kind := range kinds {
		target := cfg.OutputFile
		if len(kinds) > 1 {
			target = reportFileName(cfg.OutputFile, string(kind), ".parquet")
		}
		if err := parquet.WriteReportParquet(kind, bundle, target); err != nil {
			return fmt.Errorf("failed to write %s parquet: %w", kind, err)
		}
		_, _ = contract.NoticeColor.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", target)
	}
	return nil
}

// writeBundleTables renders each report as a titled table followed by a summary line.
func writeBundleTables(w io.Writer, bundle *schema.ReportBundle, kinds []schema.ReportKind, cfg *contract.Config, duration time.Duration) error {
	for i, kind := range kinds {
		t, err := toTabular(kind, bundle, cfg.Precision)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if len(kinds) > 1 {
			if _, err := contract.HeaderColor.Fprintf(w, "%s\n", t.title); err != nil {
				return err
			}
		}
		if err := writeTable(w, t, kind, cfg); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeTable generates and writes one human-readable table.
func writeTable(w io.Writer, t tabular, kind schema.ReportKind, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header(t.headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg, t.fixedCols)
	if len(t.pathCols) > 1 {
		pathWidth = max(15, pathWidth/len(t.pathCols))
	}
	if err := table.Bulk(t.tableRows(kind, pathWidth)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.summary)
	return err
}
