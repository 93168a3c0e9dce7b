// Package contract provides interfaces and shared utilities for gitmine's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// GitClient defines the git operations gitmine needs.
// This allows the core mining logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns the oldest-first `git log --numstat` output of every ref, printed with
	// the given pretty format. Zero start or end times leave that side unbounded.
	GetCommitLog(ctx context.Context, repoPath string, format string, startTime, endTime time.Time) ([]byte, error)
}

// ClocClient produces a `cloc --by-file --csv` report for a repository.
type ClocClient interface {
	CountByFile(ctx context.Context, repoPath string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking report runs and their file churn rows.
type AnalysisStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int) error

	// RecordFileChurn stores one file churn row for a run
	RecordFileChurn(runID int64, churn schema.FileChurn) error

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllFileChurn returns every recorded file churn row
	GetAllFileChurn() ([]schema.FileChurnRecord, error)

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
