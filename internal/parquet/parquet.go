// Package parquet exports report rows and recorded runs to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gitmine/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun maps to the gitmine_report_runs database table.
type ReportRun struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalFiles    *int32     `parquet:"total_files,optional,snappy"`

	// ConfigParams contains the JSON-encoded run parameters
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileChurnRecord maps to the gitmine_file_churn database table.
type FileChurnRecord struct {
	RunID        int64     `parquet:"run_id,snappy"`
	Path         string    `parquet:"path,snappy"`
	Commits      int32     `parquet:"commits,snappy"`
	LinesAdded   int32     `parquet:"lines_added,snappy"`
	LinesDeleted int32     `parquet:"lines_deleted,snappy"`
	LinesAddDel  int32     `parquet:"lines_add_del,snappy"`
	Cloc         int32     `parquet:"cloc,snappy"`
	Created      time.Time `parquet:"created,snappy"`
}

// AuthorChurnRow is one row of the authors report.
type AuthorChurnRow struct {
	AuthorName   string    `parquet:"author_name,snappy"`
	Commits      int64     `parquet:"commits,snappy"`
	LinesAdded   int64     `parquet:"lines_added,snappy"`
	LinesDeleted int64     `parquet:"lines_deleted,snappy"`
	LinesAddDel  int64     `parquet:"lines_add_del,snappy"`
	FirstCommit  time.Time `parquet:"first_commit,snappy"`
	LastCommit   time.Time `parquet:"last_commit,snappy"`
}

// FileChurnRow is one row of the files report.
type FileChurnRow struct {
	Path         string    `parquet:"path,snappy"`
	Commits      int64     `parquet:"commits,snappy"`
	LinesAdded   int64     `parquet:"lines_added,snappy"`
	LinesDeleted int64     `parquet:"lines_deleted,snappy"`
	LinesAddDel  int64     `parquet:"lines_add_del,snappy"`
	Cloc         int64     `parquet:"cloc,snappy"`
	Created      time.Time `parquet:"created,snappy"`
}

// FileAuthorsRow is one row of the file-authors report.
type FileAuthorsRow struct {
	Path         string    `parquet:"path,snappy"`
	AuthorsCount int64     `parquet:"authors_count,snappy"`
	Commits      int64     `parquet:"commits,snappy"`
	LinesAdded   int64     `parquet:"lines_added,snappy"`
	LinesDeleted int64     `parquet:"lines_deleted,snappy"`
	LinesAddDel  int64     `parquet:"lines_add_del,snappy"`
	Created      time.Time `parquet:"created,snappy"`
}

// CouplingRow is one row of the coupling report.
type CouplingRow struct {
	File                     string  `parquet:"file,snappy"`
	CoupledFile              string  `parquet:"coupled_file,snappy"`
	TotCommitsForFile        int64   `parquet:"tot_commits_for_file,snappy"`
	TotCommitsForCoupledFile int64   `parquet:"tot_commits_for_coupled_file,snappy"`
	HowManyTimes             int64   `parquet:"how_many_times,snappy"`
	HowManyTimesVsTotCommits float64 `parquet:"how_many_times_vs_tot_commits,snappy"`
	TotNumberOfCommits       int64   `parquet:"tot_number_of_commits,snappy"`
}

// ModuleChurnRow is one row of the modules report.
type ModuleChurnRow struct {
	Module       string    `parquet:"module,snappy"`
	NumFiles     int64     `parquet:"num_files,snappy"`
	Cloc         int64     `parquet:"cloc,snappy"`
	LinesAdded   int64     `parquet:"lines_added,snappy"`
	LinesDeleted int64     `parquet:"lines_deleted,snappy"`
	LinesAddDel  int64     `parquet:"lines_add_del,snappy"`
	Created      time.Time `parquet:"created,snappy"`
}

// BranchDayRow is one day of the branches report.
type BranchDayRow struct {
	Day                                     string   `parquet:"day,snappy"`
	Commits                                 int64    `parquet:"commits,snappy"`
	BranchTips                              []string `parquet:"branch_tips,list"`
	DeltaBranchTips                         int64    `parquet:"delta_branch_tips,snappy"`
	NumberOfCommitsMergedInTheDay           int64    `parquet:"number_of_commits_merged_in_the_day,snappy"`
	NumberOfCommitsWithNoFutureChildren     int64    `parquet:"number_of_commits_with_no_future_children,snappy"`
	NumberOfBranchTipsWhichWillHaveChildren int64    `parquet:"number_of_branch_tips_which_will_have_children,snappy"`
	LinesAdded                              int64    `parquet:"lines_added,snappy"`
	LinesDeleted                            int64    `parquet:"lines_deleted,snappy"`
	LinesAddDel                             int64    `parquet:"lines_add_del,snappy"`
}

// writeParquet writes rows to a new Parquet file with a schema inferred from T.
func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		_ = file.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteReportRunsParquet writes recorded runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileChurnRecordsParquet writes recorded file churn rows to a Parquet file.
func WriteFileChurnRecordsParquet(data []FileChurnRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteReportParquet writes one report of the bundle to a Parquet file.
func WriteReportParquet(kind schema.ReportKind, bundle *schema.ReportBundle, outputPath string) error {
	switch kind {
	case schema.AuthorsReport:
		return writeParquet(ConvertAuthorChurn(bundle.Authors), outputPath)
	case schema.FilesReport:
		return writeParquet(ConvertFileChurn(bundle.Files), outputPath)
	case schema.FileAuthorsReport:
		return writeParquet(ConvertFileAuthors(bundle.FileAuthors), outputPath)
	case schema.CouplingReport:
		return writeParquet(ConvertCoupling(bundle.Coupling), outputPath)
	case schema.ModulesReport:
		return writeParquet(ConvertModuleChurn(bundle.Modules), outputPath)
	case schema.BranchesReport:
		return writeParquet(ConvertBranchDays(bundle.Branches), outputPath)
	default:
		return fmt.Errorf("unsupported report for parquet output: %s", kind)
	}
}

// ConvertReportRunRecords converts stored runs for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalFiles:    record.TotalFiles,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertFileChurnRecords converts stored file churn rows for Parquet export.
func ConvertFileChurnRecords(records []schema.FileChurnRecord) []FileChurnRecord {
	result := make([]FileChurnRecord, len(records))
	for i, r := range records {
		result[i] = FileChurnRecord(r)
	}
	return result
}

// ConvertAuthorChurn converts the authors report.
func ConvertAuthorChurn(rows []schema.AuthorChurn) []AuthorChurnRow {
	result := make([]AuthorChurnRow, len(rows))
	for i, r := range rows {
		result[i] = AuthorChurnRow{
			AuthorName:   r.AuthorName,
			Commits:      int64(r.Commits),
			LinesAdded:   int64(r.LinesAdded),
			LinesDeleted: int64(r.LinesDeleted),
			LinesAddDel:  int64(r.LinesAddDel),
			FirstCommit:  r.FirstCommit,
			LastCommit:   r.LastCommit,
		}
	}
	return result
}

// ConvertFileChurn converts the files report.
func ConvertFileChurn(rows []schema.FileChurn) []FileChurnRow {
	result := make([]FileChurnRow, len(rows))
	for i, r := range rows {
		result[i] = FileChurnRow{
			Path:         r.Path,
			Commits:      int64(r.Commits),
			LinesAdded:   int64(r.LinesAdded),
			LinesDeleted: int64(r.LinesDeleted),
			LinesAddDel:  int64(r.LinesAddDel),
			Cloc:         int64(r.Cloc),
			Created:      r.Created,
		}
	}
	return result
}

// ConvertFileAuthors converts the file-authors report.
func ConvertFileAuthors(rows []schema.FileAuthors) []FileAuthorsRow {
	result := make([]FileAuthorsRow, len(rows))
	for i, r := range rows {
		result[i] = FileAuthorsRow{
			Path:         r.Path,
			AuthorsCount: int64(r.AuthorsCount),
			Commits:      int64(r.Commits),
			LinesAdded:   int64(r.LinesAdded),
			LinesDeleted: int64(r.LinesDeleted),
			LinesAddDel:  int64(r.LinesAddDel),
			Created:      r.Created,
		}
	}
	return result
}

// ConvertCoupling converts the coupling report.
func ConvertCoupling(rows []schema.CouplingEntry) []CouplingRow {
	result := make([]CouplingRow, len(rows))
	for i, r := range rows {
		result[i] = CouplingRow{
			File:                     r.File,
			CoupledFile:              r.CoupledFile,
			TotCommitsForFile:        int64(r.TotCommitsForFile),
			TotCommitsForCoupledFile: int64(r.TotCommitsForCoupledFile),
			HowManyTimes:             int64(r.HowManyTimes),
			HowManyTimesVsTotCommits: r.HowManyTimesVsTotCommits,
			TotNumberOfCommits:       int64(r.TotNumberOfCommits),
		}
	}
	return result
}

// ConvertModuleChurn converts the modules report.
func ConvertModuleChurn(rows []schema.ModuleChurn) []ModuleChurnRow {
	result := make([]ModuleChurnRow, len(rows))
	for i, r := range rows {
		result[i] = ModuleChurnRow{
			Module:       r.Module,
			NumFiles:     int64(r.NumFiles),
			Cloc:         int64(r.Cloc),
			LinesAdded:   int64(r.LinesAdded),
			LinesDeleted: int64(r.LinesDeleted),
			LinesAddDel:  int64(r.LinesAddDel),
			Created:      r.Created,
		}
	}
	return result
}

// ConvertBranchDays converts the branches report.
func ConvertBranchDays(rows []schema.DailyBranchSummary) []BranchDayRow {
	result := make([]BranchDayRow, len(rows))
	for i, r := range rows {
		result[i] = BranchDayRow{
			Day:                                     r.Day,
			Commits:                                 int64(r.Commits),
			BranchTips:                              append([]string(nil), r.BranchTips...),
			DeltaBranchTips:                         int64(r.DeltaBranchTips),
			NumberOfCommitsMergedInTheDay:           int64(r.NumberOfCommitsMergedInTheDay),
			NumberOfCommitsWithNoFutureChildren:     int64(r.NumberOfCommitsWithNoFutureChildren),
			NumberOfBranchTipsWhichWillHaveChildren: int64(r.NumberOfBranchTipsWhichWillHaveChildren),
			LinesAdded:                              int64(r.LinesAdded),
			LinesDeleted:                            int64(r.LinesDeleted),
			LinesAddDel:                             int64(r.LinesAddDel),
		}
	}
	return result
}
