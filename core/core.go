// Package core wires the commit source, snapshot cache and aggregators into report runs.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/internal/outwriter"
	"github.com/huangsam/gitmine/schema"
)

// ExecutorFunc defines the function signature shared by the report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Clients bundles the external tools a run shells out to.
type Clients struct {
	Git  contract.GitClient
	Cloc contract.ClocClient
}

// LocalClients returns clients backed by the git and cloc binaries on PATH.
func LocalClients() Clients {
	return Clients{Git: contract.NewLocalGitClient(), Cloc: contract.NewLocalClocClient()}
}

// ExecuteAuthors prints the author churn report.
func ExecuteAuthors(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.AuthorsReport)
}

// ExecuteFiles prints the file churn report.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.FilesReport)
}

// ExecuteFileAuthors prints the per-file author count report.
func ExecuteFileAuthors(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.FileAuthorsReport)
}

// ExecuteCoupling prints the file coupling report.
func ExecuteCoupling(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.CouplingReport)
}

// ExecuteModules prints the module churn report.
func ExecuteModules(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.ModulesReport)
}

// ExecuteBranches prints the daily branch tips report.
func ExecuteBranches(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, schema.BranchesReport)
}

// ExecuteReport computes every report in cfg.Reports concurrently, prints them in order and
// records the run in the analysis store.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeKinds(ctx, cfg, mgr, cfg.Reports...)
}

func executeKinds(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, kinds ...schema.ReportKind) error {
	start := time.Now()
	logHeader(ctx, cfg)

	runCfg := cfg.Clone()
	runCfg.Reports = kinds
	bundle, err := GetReportBundle(ctx, runCfg, mgr, LocalClients())
	if err != nil {
		return err
	}

	recordRun(mgr, runCfg, start, bundle)
	return outwriter.NewOutWriter().WriteBundle(bundle, kinds, runCfg, time.Since(start))
}

// GetReportBundle loads the repository snapshot and computes the reports named in cfg.Reports.
// It does not print anything and is shared with the MCP server.
func GetReportBundle(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, clients Clients) (*schema.ReportBundle, error) {
	if len(cfg.Reports) == 0 {
		return nil, fmt.Errorf("no reports requested")
	}
	src, err := LoadSource(ctx, cfg, clients.Git, clients.Cloc, mgr)
	if err != nil {
		return nil, err
	}
	return RunReports(ctx, src, OptionsFromConfig(cfg))
}

// recordRun stores the run and its file churn rows. Tracking failures never fail the run.
func recordRun(mgr contract.CacheManager, cfg *contract.Config, start time.Time, bundle *schema.ReportBundle) {
	if mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}

	runID, err := store.BeginRun(start, cfg.Params())
	if err != nil {
		logTrackingError("BeginRun", err)
		return
	}
	for _, row := range bundle.Files {
		if err := store.RecordFileChurn(runID, row); err != nil {
			logTrackingError("RecordFileChurn", err)
			break
		}
	}
	if err := store.EndRun(runID, time.Now(), len(bundle.Files)); err != nil {
		logTrackingError("EndRun", err)
	}
}

// logTrackingError logs database tracking errors without disrupting the run.
func logTrackingError(operation string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s", operation), err)
}

// logHeader prints a concise, 2-line header on stderr unless the context suppresses it.
func logHeader(ctx context.Context, cfg *contract.Config) {
	if shouldSuppressHeader(ctx) {
		return
	}
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	w := os.Stderr
	_, _ = contract.HeaderColor.Fprintf(w, "🔎 Repo: %s", repoName)
	if cfg.PathFilter != "" {
		_, _ = fmt.Fprintf(w, " (filter: %s)", cfg.PathFilter)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "📅 Range: %s → %s\n", formatBound(cfg.StartTime, "beginning"), formatBound(cfg.EndTime, "now"))
}

func formatBound(t time.Time, unset string) string {
	if t.IsZero() {
		return unset
	}
	return t.Format(contract.DateTimeFormat)
}
