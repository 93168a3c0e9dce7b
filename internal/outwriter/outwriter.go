// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
)

// OutWriter provides a unified interface for all report output.
// It encapsulates the output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAuthors prints the authors report using the configured output format.
func (ow *OutWriter) WriteAuthors(rows []schema.AuthorChurn, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{Authors: rows}, []schema.ReportKind{schema.AuthorsReport}, cfg, duration)
}

// WriteFiles prints the files report using the configured output format.
func (ow *OutWriter) WriteFiles(rows []schema.FileChurn, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{Files: rows}, []schema.ReportKind{schema.FilesReport}, cfg, duration)
}

// WriteFileAuthors prints the file-authors report using the configured output format.
func (ow *OutWriter) WriteFileAuthors(rows []schema.FileAuthors, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{FileAuthors: rows}, []schema.ReportKind{schema.FileAuthorsReport}, cfg, duration)
}

// WriteCoupling prints the coupling report using the configured output format.
func (ow *OutWriter) WriteCoupling(rows []schema.CouplingEntry, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{Coupling: rows}, []schema.ReportKind{schema.CouplingReport}, cfg, duration)
}

// WriteModules prints the modules report using the configured output format.
func (ow *OutWriter) WriteModules(rows []schema.ModuleChurn, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{Modules: rows}, []schema.ReportKind{schema.ModulesReport}, cfg, duration)
}

// WriteBranches prints the branches report using the configured output format.
func (ow *OutWriter) WriteBranches(rows []schema.DailyBranchSummary, cfg *contract.Config, duration time.Duration) error {
	return ow.WriteBundle(&schema.ReportBundle{Branches: rows}, []schema.ReportKind{schema.BranchesReport}, cfg, duration)
}

// WriteBundle prints the given reports of a bundle in order.
func (ow *OutWriter) WriteBundle(bundle *schema.ReportBundle, kinds []schema.ReportKind, cfg *contract.Config, duration time.Duration) error {
	return writeBundle(bundle, kinds, cfg, duration)
}
