package outwriter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
)

// tabular is a report flattened into string cells.
type tabular struct {
	title     string
	headers   []string // table headers
	csvHeader []string
	rows      [][]string
	pathCols  []int // columns truncated to the terminal in table output
	fixedCols int   // approximate width of the other columns
	summary   string
}

// toTabular flattens one report of the bundle.
func toTabular(kind schema.ReportKind, bundle *schema.ReportBundle, precision int) (tabular, error) {
	fmtFloat, fmtInt := createFormatters(precision)
	date := func(t time.Time) string { return t.Format(contract.DateTimeFormat) }

	switch kind {
	case schema.AuthorsReport:
		t := tabular{
			title:     "Author churn",
			headers:   []string{"Rank", "Author", "Commits", "Added", "Deleted", "Add+Del", "First", "Last"},
			csvHeader: []string{"rank", "author_name", "commits", "lines_added", "lines_deleted", "lines_add_del", "first_commit", "last_commit"},
			fixedCols: 100,
		}
		total := 0
		for i, r := range bundle.Authors {
			t.rows = append(t.rows, []string{
				strconv.Itoa(i + 1), r.AuthorName, fmtInt(r.Commits), fmtInt(r.LinesAdded),
				fmtInt(r.LinesDeleted), fmtInt(r.LinesAddDel), date(r.FirstCommit), date(r.LastCommit),
			})
			total += r.Commits
		}
		t.summary = fmt.Sprintf("Showing %d authors (total commits: %d)", len(bundle.Authors), total)
		return t, nil

	case schema.FilesReport:
		t := tabular{
			title:     "File churn",
			headers:   []string{"Rank", "Path", "Commits", "Added", "Deleted", "Add+Del", "LOC", "Created"},
			csvHeader: []string{"rank", "path", "commits", "lines_added", "lines_deleted", "lines_add_del", "cloc", "created"},
			pathCols:  []int{1},
			fixedCols: 75,
		}
		churn := 0
		for i, r := range bundle.Files {
			t.rows = append(t.rows, []string{
				strconv.Itoa(i + 1), r.Path, fmtInt(r.Commits), fmtInt(r.LinesAdded),
				fmtInt(r.LinesDeleted), fmtInt(r.LinesAddDel), fmtInt(r.Cloc), date(r.Created),
			})
			churn += r.LinesAddDel
		}
		t.summary = fmt.Sprintf("Showing %d files (total churn: %d)", len(bundle.Files), churn)
		return t, nil

	case schema.FileAuthorsReport:
		t := tabular{
			title:     "File authors",
			headers:   []string{"Rank", "Path", "Authors", "Commits", "Added", "Deleted", "Add+Del", "Created"},
			csvHeader: []string{"rank", "path", "authors_count", "commits", "lines_added", "lines_deleted", "lines_add_del", "created"},
			pathCols:  []int{1},
			fixedCols: 75,
		}
		for i, r := range bundle.FileAuthors {
			t.rows = append(t.rows, []string{
				strconv.Itoa(i + 1), r.Path, fmtInt(r.AuthorsCount), fmtInt(r.Commits), fmtInt(r.LinesAdded),
				fmtInt(r.LinesDeleted), fmtInt(r.LinesAddDel), date(r.Created),
			})
		}
		t.summary = fmt.Sprintf("Showing %d files", len(bundle.FileAuthors))
		return t, nil

	case schema.CouplingReport:
		t := tabular{
			title:     "File coupling",
			headers:   []string{"Rank", "File", "Coupled", "File Commits", "Coupled Commits", "Together", "Ratio %"},
			csvHeader: []string{"rank", "file", "coupled_file", "tot_commits_for_file", "tot_commits_for_coupled_file", "how_many_times", "how_many_times_vs_tot_commits", "tot_number_of_commits"},
			pathCols:  []int{1, 2},
			fixedCols: 60,
		}
		totalCommits := 0
		for i, r := range bundle.Coupling {
			t.rows = append(t.rows, []string{
				strconv.Itoa(i + 1), r.File, r.CoupledFile, fmtInt(r.TotCommitsForFile),
				fmtInt(r.TotCommitsForCoupledFile), fmtInt(r.HowManyTimes), fmtFloat(r.HowManyTimesVsTotCommits),
				fmtInt(r.TotNumberOfCommits),
			})
			totalCommits = r.TotNumberOfCommits
		}
		t.summary = fmt.Sprintf("Showing %d couplings across %d commits", len(bundle.Coupling), totalCommits)
		return t, nil

	case schema.ModulesReport:
		t := tabular{
			title:     "Module churn",
			headers:   []string{"Rank", "Module", "Files", "LOC", "Added", "Deleted", "Add+Del", "Created"},
			csvHeader: []string{"rank", "module", "num_files", "cloc", "lines_added", "lines_deleted", "lines_add_del", "created"},
			pathCols:  []int{1},
			fixedCols: 75,
		}
		for i, r := range bundle.Modules {
			t.rows = append(t.rows, []string{
				strconv.Itoa(i + 1), r.Module, fmtInt(r.NumFiles), fmtInt(r.Cloc), fmtInt(r.LinesAdded),
				fmtInt(r.LinesDeleted), fmtInt(r.LinesAddDel), date(r.Created),
			})
		}
		t.summary = fmt.Sprintf("Showing %d modules", len(bundle.Modules))
		return t, nil

	case schema.BranchesReport:
		t := tabular{
			title:     "Daily branch tips",
			headers:   []string{"Day", "Commits", "Tips", "Delta", "Merged", "No Future Children", "Tips With Children", "Add+Del"},
			csvHeader: []string{"day", "commits", "branch_tips", "delta_branch_tips", "number_of_commits_merged_in_the_day", "number_of_commits_with_no_future_children", "number_of_branch_tips_which_will_have_children", "lines_added", "lines_deleted", "lines_add_del"},
		}
		for _, r := range bundle.Branches {
			t.rows = append(t.rows, []string{
				r.Day, fmtInt(r.Commits), strings.Join(r.BranchTips, "|"), fmtInt(r.DeltaBranchTips),
				fmtInt(r.NumberOfCommitsMergedInTheDay), fmtInt(r.NumberOfCommitsWithNoFutureChildren),
				fmtInt(r.NumberOfBranchTipsWhichWillHaveChildren), fmtInt(r.LinesAdded),
				fmtInt(r.LinesDeleted), fmtInt(r.LinesAddDel),
			})
		}
		t.summary = fmt.Sprintf("Showing %d days", len(bundle.Branches))
		return t, nil

	default:
		return tabular{}, fmt.Errorf("unknown report: %s", kind)
	}
}

// tableRows adapts the csv-shaped rows for terminal display.
func (t tabular) tableRows(kind schema.ReportKind, pathWidth int) [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := append([]string(nil), row...)
		for _, c := range t.pathCols {
			cells[c] = contract.TruncatePath(cells[c], pathWidth)
		}
		switch kind {
		case schema.CouplingReport:
			cells = cells[:len(t.headers)] // total commits goes to the summary
		case schema.BranchesReport:
			// Show the tip count; the hashes only fit in csv/json
			cells[2] = strconv.Itoa(len(strings.FieldsFunc(cells[2], func(r rune) bool { return r == '|' })))
			cells = append(cells[:7], cells[9])
		}
		out[i] = cells
	}
	return out
}
