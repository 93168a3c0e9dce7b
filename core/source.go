package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/huangsam/gitmine/core/agg"
	"github.com/huangsam/gitmine/core/cloc"
	"github.com/huangsam/gitmine/core/gitlog"
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
)

// Source holds one snapshot of a repository: the raw commit log and the line count table.
// It is read-only after LoadSource, so every report can replay it independently.
type Source struct {
	Log       []byte
	Cloc      schema.ClocTable
	Separator string

	filter   string
	excludes []string
}

// NewSource wraps an in-memory log and cloc table.
func NewSource(log []byte, table schema.ClocTable, cfg *contract.Config) *Source {
	if table == nil {
		table = schema.ClocTable{}
	}
	return &Source{
		Log:       log,
		Cloc:      table,
		Separator: cfg.Separator,
		filter:    cfg.PathFilter,
		excludes:  cfg.Excludes,
	}
}

// LoadSource fetches the commit log and cloc report for cfg.RepoPath, going through the
// snapshot cache when one is configured.
func LoadSource(ctx context.Context, cfg *contract.Config, git contract.GitClient, clocClient contract.ClocClient, mgr contract.CacheManager) (*Source, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetSnapshotStore()
	}

	log, err := cachedSnapshot(store, cacheKey(ctx, cfg, git, store, logSnapshot), cfg.CacheTTL, func() ([]byte, error) {
		return git.GetCommitLog(ctx, cfg.RepoPath, gitlog.LogFormat(cfg.Separator), cfg.StartTime, cfg.EndTime)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	table, err := loadClocTable(ctx, cfg, git, clocClient, store)
	if err != nil {
		return nil, err
	}

	return NewSource(log, table, cfg), nil
}

// loadClocTable reads the cloc report from --cloc-file, or runs cloc unless disabled.
// A missing cloc binary degrades to an empty table.
func loadClocTable(ctx context.Context, cfg *contract.Config, git contract.GitClient, clocClient contract.ClocClient, store contract.CacheStore) (schema.ClocTable, error) {
	switch {
	case cfg.NoCloc:
		return schema.ClocTable{}, nil
	case cfg.ClocFile != "":
		table, err := cloc.LoadTable(cfg.ClocFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", cfg.ClocFile, err)
		}
		return table, nil
	case clocClient == nil:
		return schema.ClocTable{}, nil
	}

	report, err := cachedSnapshot(store, cacheKey(ctx, cfg, git, store, clocSnapshot), cfg.CacheTTL, func() ([]byte, error) {
		return clocClient.CountByFile(ctx, cfg.RepoPath)
	})
	if errors.Is(err, contract.ErrClocNotInstalled) {
		contract.LogWarn("Line counts unavailable, continuing without them", err)
		return schema.ClocTable{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(report)) == 0 {
		return schema.ClocTable{}, nil // cloc prints nothing for an empty tree
	}

	table, err := cloc.ParseReader(bytes.NewReader(report))
	if err != nil {
		return nil, fmt.Errorf("failed to parse cloc report: %w", err)
	}
	return table, nil
}

// Commits replays the log into enriched commits. Files outside the path filter or matching an
// exclude are dropped before enrichment; the commit itself is kept.
func (s *Source) Commits(ctx context.Context) iter.Seq2[schema.Commit, error] {
	lines := gitlog.ScanLines(ctx, bytes.NewReader(s.Log))
	parsed := gitlog.ParseCommits(lines, s.Separator, nil)
	return cloc.EnrichCommits(s.selectFiles(parsed), s.Cloc)
}

// Records replays the log into one enriched record per touched file.
func (s *Source) Records(ctx context.Context) iter.Seq2[schema.EnrichedFileRecord, error] {
	return agg.NewFlattener(contract.Logger()).Flatten(s.Commits(ctx))
}

func (s *Source) selectFiles(seq iter.Seq2[schema.Commit, error]) iter.Seq2[schema.Commit, error] {
	if s.filter == "" && len(s.excludes) == 0 {
		return seq
	}
	return func(yield func(schema.Commit, error) bool) {
		for commit, err := range seq {
			if err != nil {
				yield(schema.Commit{}, err)
				return
			}
			kept := make([]schema.FileNumstat, 0, len(commit.Files))
			for _, f := range commit.Files {
				if s.keep(gitlog.FilePathFromCommitPath(f.Path)) {
					kept = append(kept, f)
				}
			}
			commit.Files = kept
			if !yield(commit, nil) {
				return
			}
		}
	}
}

func (s *Source) keep(path string) bool {
	if s.filter != "" && !strings.HasPrefix(path, s.filter) {
		return false
	}
	return !contract.ShouldIgnore(path, s.excludes)
}
