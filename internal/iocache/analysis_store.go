package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
)

// Table names for report run tracking.
const (
	reportRunsTable = "gitmine_report_runs"
	fileChurnTable  = "gitmine_file_churn"
)

// analysisTables lists the run tracking tables in creation order.
var analysisTables = []string{reportRunsTable, fileChurnTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the run tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		reportRunsTable: getCreateReportRunsQuery(backend),
		fileChurnTable:  getCreateFileChurnQuery(backend),
	}
	for _, table := range analysisTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for gitmine_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_files INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_files INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_files INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFileChurnQuery returns the CREATE TABLE query for gitmine_file_churn.
func getCreateFileChurnQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fileChurnTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				path VARCHAR(512) NOT NULL,
				commits INT NOT NULL,
				lines_added INT NOT NULL,
				lines_deleted INT NOT NULL,
				lines_add_del INT NOT NULL,
				cloc INT NOT NULL,
				created DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				path TEXT NOT NULL,
				commits INT NOT NULL,
				lines_added INT NOT NULL,
				lines_deleted INT NOT NULL,
				lines_add_del INT NOT NULL,
				cloc INT NOT NULL,
				created TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				path TEXT NOT NULL,
				commits INTEGER NOT NULL,
				lines_added INTEGER NOT NULL,
				lines_deleted INTEGER NOT NULL,
				lines_add_del INTEGER NOT NULL,
				cloc INTEGER NOT NULL,
				created TEXT NOT NULL,
				PRIMARY KEY (run_id, path)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// BeginRun creates a new report run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, as.backend)

	var runID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = as.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// EndRun updates the report run with completion data.
func (as *AnalysisStoreImpl) EndRun(runID int64, endTime time.Time, totalFiles int) error {
	if as.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, as.backend)

	start := timeScanner{backend: as.backend}
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(as.backend, 1))
	if err := as.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	if startTime == nil {
		return fmt.Errorf("run %d has no start_time", runID)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()

	var updateQuery string
	switch as.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_files = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_files = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalFiles, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// RecordFileChurn stores one file churn row for a run.
func (as *AnalysisStoreImpl) RecordFileChurn(runID int64, churn schema.FileChurn) error {
	if as.disabled() {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, path, commits, lines_added, lines_deleted, lines_add_del, cloc, created)
		VALUES (%s)
	`, quoteTableName(fileChurnTable, as.backend), placeholders(as.backend, 8))

	_, err := as.db.Exec(query,
		runID, churn.Path, churn.Commits, churn.LinesAdded, churn.LinesDeleted,
		churn.LinesAddDel, churn.Cloc, formatTime(churn.Created, as.backend))
	if err != nil {
		return fmt.Errorf("failed to insert file churn for %s: %w", churn.Path, err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(reportRunsTable, as.backend)

	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: as.backend}
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := timeScanner{backend: as.backend}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := as.db.QueryRow(oldestRunQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}

		filesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_files), 0) FROM %s", quotedRuns)
		if err := as.db.QueryRow(filesQuery).Scan(&status.TotalFiles); err != nil {
			return status, fmt.Errorf("failed to get total files: %w", err)
		}
	}

	for _, table := range analysisTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all report runs from the store, oldest first.
func (as *AnalysisStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_files, config_params FROM %s ORDER BY run_id",
		quoteTableName(reportRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord
		start := timeScanner{backend: as.backend}
		end := timeScanner{backend: as.backend}
		if err := rows.Scan(&record.RunID, start.dest(), end.dest(), &record.RunDurationMs, &record.TotalFiles, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllFileChurn retrieves all file churn rows from the store.
func (as *AnalysisStoreImpl) GetAllFileChurn() ([]schema.FileChurnRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, path, commits, lines_added, lines_deleted, lines_add_del, cloc, created
		FROM %s ORDER BY run_id, path`, quoteTableName(fileChurnTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file churn: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileChurnRecord
	for rows.Next() {
		var record schema.FileChurnRecord
		created := timeScanner{backend: as.backend}
		if err := rows.Scan(&record.RunID, &record.Path, &record.Commits, &record.LinesAdded,
			&record.LinesDeleted, &record.LinesAddDel, &record.Cloc, created.dest()); err != nil {
			return nil, fmt.Errorf("failed to scan file churn: %w", err)
		}
		t, err := created.value()
		if err != nil {
			return nil, err
		}
		if t != nil {
			record.Created = *t
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file churn: %w", err)
	}
	return results, nil
}
