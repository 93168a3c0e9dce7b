package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gitmine/core/agg"
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ReportOptions carries the per-run knobs of the aggregators.
type ReportOptions struct {
	Kinds []schema.ReportKind
	After time.Time
	Depth int
	Limit int // applies to ranked reports, 0 keeps everything
}

// OptionsFromConfig derives report options from a validated config.
func OptionsFromConfig(cfg *contract.Config) ReportOptions {
	return ReportOptions{
		Kinds: cfg.Reports,
		After: cfg.After,
		Depth: cfg.Depth,
		Limit: cfg.ResultLimit,
	}
}

// RunReports computes the requested reports concurrently, each one replaying src on its own.
// The first failure cancels the others and no partial bundle is returned.
func RunReports(ctx context.Context, src *Source, opts ReportOptions) (*schema.ReportBundle, error) {
	bundle := &schema.ReportBundle{}
	g, gctx := errgroup.WithContext(ctx)

	// Each goroutine owns exactly one field of bundle
	seen := make(map[schema.ReportKind]bool, len(opts.Kinds))
	for _, kind := range opts.Kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		g.Go(func() error {
			if err := runReport(gctx, src, kind, opts, bundle); err != nil {
				return fmt.Errorf("%s report: %w", kind, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	applyLimit(bundle, opts.Limit)
	return bundle, nil
}

func runReport(ctx context.Context, src *Source, kind schema.ReportKind, opts ReportOptions, bundle *schema.ReportBundle) error {
	var err error
	switch kind {
	case schema.AuthorsReport:
		bundle.Authors, err = agg.AuthorChurn(src.Commits(ctx), opts.After)
	case schema.FilesReport:
		bundle.Files, err = agg.FileChurn(src.Records(ctx), opts.After)
	case schema.FileAuthorsReport:
		bundle.FileAuthors, err = agg.FileAuthors(src.Records(ctx), opts.After)
	case schema.CouplingReport:
		bundle.Coupling, err = agg.FileCoupling(src.Commits(ctx), opts.After, opts.Depth)
	case schema.ModulesReport:
		var files []schema.FileChurn
		files, err = agg.FileChurn(src.Records(ctx), opts.After)
		if err == nil {
			bundle.Modules = agg.ModuleChurn(files)
		}
	case schema.BranchesReport:
		bundle.Branches, err = agg.BranchTips(src.Commits(ctx))
	default:
		return fmt.Errorf("unknown report %q", kind)
	}
	if err == nil {
		contract.Logger().WithFields(logrus.Fields{"report": kind}).Debug("report computed")
	}
	return err
}

// applyLimit truncates the ranked reports. Branch days form a timeline and are never cut.
func applyLimit(bundle *schema.ReportBundle, limit int) {
	if limit <= 0 {
		return
	}
	bundle.Authors = truncate(bundle.Authors, limit)
	bundle.Files = truncate(bundle.Files, limit)
	bundle.FileAuthors = truncate(bundle.FileAuthors, limit)
	bundle.Coupling = truncate(bundle.Coupling, limit)
	bundle.Modules = truncate(bundle.Modules, limit)
}

func truncate[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
