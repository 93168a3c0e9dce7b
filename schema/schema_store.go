package schema

import "time"

// ReportRunRecord represents a row from the gitmine_report_runs table.
type ReportRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalFiles    *int32
	ConfigParams  *string
}

// FileChurnRecord represents a row from the gitmine_file_churn table.
type FileChurnRecord struct {
	RunID        int64
	Path         string
	Commits      int32
	LinesAdded   int32
	LinesDeleted int32
	LinesAddDel  int32
	Cloc         int32
	Created      time.Time
}
