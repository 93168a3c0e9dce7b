package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ReportKind names one of the aggregate reports.
	ReportKind string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All report kinds supported.
const (
	AuthorsReport     ReportKind = "authors"
	FilesReport       ReportKind = "files"
	FileAuthorsReport ReportKind = "file-authors"
	CouplingReport    ReportKind = "coupling"
	ModulesReport     ReportKind = "modules"
	BranchesReport    ReportKind = "branches"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllReportKinds lists every report in the order the report command prints them.
var AllReportKinds = []ReportKind{
	AuthorsReport,
	FilesReport,
	FileAuthorsReport,
	CouplingReport,
	ModulesReport,
	BranchesReport,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidReportKinds lists all valid report kinds.
var ValidReportKinds = map[ReportKind]struct{}{
	AuthorsReport:     {},
	FilesReport:       {},
	FileAuthorsReport: {},
	CouplingReport:    {},
	ModulesReport:     {},
	BranchesReport:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
