package cmd

import (
	"github.com/huangsam/gitmine/core"
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/spf13/cobra"
)

// newReportCommand builds a report command sharing the common setup and error handling.
func newReportCommand(use, short, long, failure string, exec core.ExecutorFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, _ []string) {
			if err := exec(rootCtx, cfg, cacheManager); err != nil {
				contract.LogFatal(failure, err)
			}
		},
	}
}

// authorsCmd ranks authors by churn.
var authorsCmd = newReportCommand(
	"authors [repo-path]",
	"Rank authors by lines added plus deleted.",
	`Sum commits and line churn per author name.

Commits that touch no files (e.g. empty merges) are ignored. With --after, only
commits strictly newer than the cutoff count.

Examples:
  # Top authors of the last year
  gitmine authors --after "1 year ago"

  # Export to CSV
  gitmine authors --output csv --output-file authors.csv`,
	"Cannot run authors report",
	core.ExecuteAuthors,
)

// filesCmd ranks files by churn.
var filesCmd = newReportCommand(
	"files [repo-path]",
	"Rank files by churn, with line counts and creation dates.",
	`Sum commits and line churn per file, joined with cloc line counts.

Renames are followed through the rename syntax of git log, so a file keeps one
identity under its new name. Created is the first commit that touched the path.

Examples:
  # Top 50 files under src/
  gitmine files --filter src/ --limit 50

  # Use a saved cloc report instead of running cloc
  gitmine files --cloc-file cloc.csv`,
	"Cannot run files report",
	core.ExecuteFiles,
)

// fileAuthorsCmd ranks files by number of distinct authors.
var fileAuthorsCmd = newReportCommand(
	"file-authors [repo-path]",
	"Rank files by the number of distinct authors.",
	`Count distinct authors per file along with the summed activity.

Files touched by many authors are often coordination hotspots.

Examples:
  gitmine file-authors --after 2024-01-01`,
	"Cannot run file-authors report",
	core.ExecuteFileAuthors,
)

// couplingCmd finds files that change together.
var couplingCmd = newReportCommand(
	"coupling [repo-path]",
	"Find pairs of files that change in the same commits.",
	`Count how often two files change in the same commit.

Only files whose commit count reaches the --depth largest count take part.
The ratio is the share of the coupled file's commits that also touched the file.

Examples:
  # Coupling among the 20 most changed files
  gitmine coupling --depth 20

  # Consider every file
  gitmine coupling --depth 0`,
	"Cannot run coupling report",
	core.ExecuteCoupling,
)

// modulesCmd rolls churn up into folders.
var modulesCmd = newReportCommand(
	"modules [repo-path]",
	"Roll file churn up into every folder.",
	`Aggregate file churn and line counts into each ancestor folder of every file.

The repository root is reported as ".", a file at a/b/c.go counts toward ".", "./a"
and "./a/b".

Examples:
  gitmine modules --output json`,
	"Cannot run modules report",
	core.ExecuteModules,
)

// branchesCmd summarizes live branch tips per day.
var branchesCmd = newReportCommand(
	"branches [repo-path]",
	"Summarize live branch tips and merges per day.",
	`Replay the commit graph oldest-first and track which commits are branch tips.

For every day with commits, shows the tips alive at the end of the day, how the
count changed, how many commits were merges and how many tips get children later.
The day list is a timeline and is not cut by --limit.

Examples:
  gitmine branches --output csv --output-file branches.csv`,
	"Cannot run branches report",
	core.ExecuteBranches,
)

// reportCmd computes several reports at once.
var reportCmd = newReportCommand(
	"report [repo-path]",
	"Compute several reports concurrently and record the run.",
	`Parse the repository once and compute the requested reports concurrently.

When run tracking is enabled (--analysis-backend), the run and its file churn
rows are stored for later export.

Examples:
  # Every report as one JSON document
  gitmine report --output json

  # Two reports, one CSV per report (out.files.csv, out.coupling.csv)
  gitmine report --reports files,coupling --output csv --output-file out.csv`,
	"Cannot run report",
	core.ExecuteReport,
)
