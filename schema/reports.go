package schema

import "time"

// AuthorChurn aggregates the activity of one author.
type AuthorChurn struct {
	AuthorName   string    `json:"author_name" yaml:"author_name"`
	Commits      int       `json:"commits" yaml:"commits"`
	LinesAdded   int       `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int       `json:"lines_deleted" yaml:"lines_deleted"`
	LinesAddDel  int       `json:"lines_add_del" yaml:"lines_add_del"`
	FirstCommit  time.Time `json:"first_commit" yaml:"first_commit"`
	LastCommit   time.Time `json:"last_commit" yaml:"last_commit"`
}

// FileChurn aggregates the activity of one file path.
type FileChurn struct {
	Path         string    `json:"path" yaml:"path"`
	Commits      int       `json:"commits" yaml:"commits"`
	LinesAdded   int       `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int       `json:"lines_deleted" yaml:"lines_deleted"`
	LinesAddDel  int       `json:"lines_add_del" yaml:"lines_add_del"`
	Cloc         int       `json:"cloc" yaml:"cloc"`
	Created      time.Time `json:"created" yaml:"created"`
}

// FileAuthors collapses the per-author activity of one file path.
type FileAuthors struct {
	Path         string    `json:"path" yaml:"path"`
	AuthorsCount int       `json:"authors_count" yaml:"authors_count"`
	Commits      int       `json:"commits" yaml:"commits"`
	LinesAdded   int       `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int       `json:"lines_deleted" yaml:"lines_deleted"`
	LinesAddDel  int       `json:"lines_add_del" yaml:"lines_add_del"`
	Created      time.Time `json:"created" yaml:"created"`
}

// ModuleChurn rolls up file churn into one ancestor folder.
type ModuleChurn struct {
	Module       string    `json:"module" yaml:"module"`
	NumFiles     int       `json:"num_files" yaml:"num_files"`
	Cloc         int       `json:"cloc" yaml:"cloc"`
	LinesAdded   int       `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int       `json:"lines_deleted" yaml:"lines_deleted"`
	LinesAddDel  int       `json:"lines_add_del" yaml:"lines_add_del"`
	Created      time.Time `json:"created" yaml:"created"`
}

// CouplingEntry is a directed relationship between a file and a file it was committed with.
// The ratio uses the coupled file's commit count as denominator, so (A,B) and (B,A) differ.
type CouplingEntry struct {
	File                     string  `json:"file" yaml:"file"`
	CoupledFile              string  `json:"coupled_file" yaml:"coupled_file"`
	TotCommitsForFile        int     `json:"tot_commits_for_file" yaml:"tot_commits_for_file"`
	TotCommitsForCoupledFile int     `json:"tot_commits_for_coupled_file" yaml:"tot_commits_for_coupled_file"`
	HowManyTimes             int     `json:"how_many_times" yaml:"how_many_times"`
	HowManyTimesVsTotCommits float64 `json:"how_many_times_vs_tot_commits" yaml:"how_many_times_vs_tot_commits"`
	TotNumberOfCommits       int     `json:"tot_number_of_commits" yaml:"tot_number_of_commits"`
}

// DailyBranchSummary is the finalized branch-tip snapshot of one calendar day.
type DailyBranchSummary struct {
	Day                                     string   `json:"day" yaml:"day"`
	Commits                                 int      `json:"commits" yaml:"commits"`
	BranchTips                              []string `json:"branch_tips" yaml:"branch_tips"`
	DeltaBranchTips                         int      `json:"delta_branch_tips" yaml:"delta_branch_tips"`
	NumberOfCommitsMergedInTheDay           int      `json:"number_of_commits_merged_in_the_day" yaml:"number_of_commits_merged_in_the_day"`
	NumberOfCommitsWithNoFutureChildren     int      `json:"number_of_commits_with_no_future_children" yaml:"number_of_commits_with_no_future_children"`
	NumberOfBranchTipsWhichWillHaveChildren int      `json:"number_of_branch_tips_which_will_have_children" yaml:"number_of_branch_tips_which_will_have_children"`
	LinesAdded                              int      `json:"lines_added" yaml:"lines_added"`
	LinesDeleted                            int      `json:"lines_deleted" yaml:"lines_deleted"`
	LinesAddDel                             int      `json:"lines_add_del" yaml:"lines_add_del"`
}

// ReportBundle holds the output of a multi-report run. Reports not requested stay nil.
type ReportBundle struct {
	Authors     []AuthorChurn        `json:"authors,omitempty" yaml:"authors,omitempty"`
	Files       []FileChurn          `json:"files,omitempty" yaml:"files,omitempty"`
	FileAuthors []FileAuthors        `json:"file_authors,omitempty" yaml:"file_authors,omitempty"`
	Coupling    []CouplingEntry      `json:"coupling,omitempty" yaml:"coupling,omitempty"`
	Modules     []ModuleChurn        `json:"modules,omitempty" yaml:"modules,omitempty"`
	Branches    []DailyBranchSummary `json:"branches,omitempty" yaml:"branches,omitempty"`
}
