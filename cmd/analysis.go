package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/internal/iocache"
	"github.com/huangsam/gitmine/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackendFromConfig reads the run tracking backend, treating an empty value as disabled.
func analysisBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("analysis-backend")
	connStr := viper.GetString("analysis-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for run tracking operations.
// This is used by commands that need the analysis store without full shared setup.
func analysisSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no snapshot cache for analysis commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file") // used by export

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func analysisMigrateSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on stored report runs.
//
// Note: Analysis subcommands use minimal initialization (analysisSetup) instead of
// the full sharedSetup used by report commands. This avoids Git repo validation
// and complex config processing for simple store operations.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage recorded report runs and exports",
	Long: `Manage the report runs recorded by 'gitmine report'.

When enabled with --analysis-backend, every report run stores:
- Run metadata (timestamp, parameters, duration)
- The file churn rows of the run

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  gitmine analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  gitmine analysis export --analysis-backend sqlite --output-file runs`,
}

// analysisClearCmd clears the recorded runs.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded report runs",
	Long: `Delete all stored report runs and their file churn rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  gitmine analysis export --output-file backup
  gitmine analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseCaching()
		dbPath := sqlitePath(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath())
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, dbPath, cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows run tracking status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about recorded report runs.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Database table sizes

Examples:
  gitmine analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports recorded runs to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet format.

Writes two files next to --output-file:
- <output>.report_runs.parquet - one row per report run
- <output>.file_churn.parquet  - the file churn rows of every run

Requires: --output-file parameter

Examples:
  gitmine analysis export --output-file gitmine-data
  duckdb -c "SELECT * FROM read_parquet('gitmine-data.file_churn.parquet') LIMIT 10"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(os.Stdout, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gitmine analysis migrate --analysis-backend postgresql

  # Rollback to initial state
  gitmine analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(os.Stdout, cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
