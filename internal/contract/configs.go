package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gitmine/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 10000
	DefaultPrecision   = 1
	DefaultDepth       = 10
	DefaultSeparator   = "§§§"
	DefaultCacheTTL    = "7 days"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultExcludes are generated files whose churn says nothing about the people editing them.
var DefaultExcludes = []string{
	"go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock", "composer.lock", "uv.lock",
}

// Config holds the runtime configuration for a mining run.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	PathFilter  string
	Excludes    []string
	StartTime   time.Time // lower bound passed to git log
	EndTime     time.Time // upper bound passed to git log
	After       time.Time // aggregator cutoff, zero means unbounded
	Depth       int       // coupling keeps the files of the top Depth commit counts
	Separator   string
	ClocFile    string
	NoCloc      bool
	Reports     []schema.ReportKind
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Filter            string `mapstructure:"filter"`
	Exclude           string `mapstructure:"exclude"`
	Start             string `mapstructure:"start"`
	End               string `mapstructure:"end"`
	After             string `mapstructure:"after"`
	Separator         string `mapstructure:"separator"`
	ClocFile          string `mapstructure:"cloc-file"`
	NoCloc            bool   `mapstructure:"no-cloc"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	LogLevel          string `mapstructure:"log-level"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// --- Fields from couplingCmd.Flags() ---
	Depth int `mapstructure:"depth"`

	// --- Fields from reportCmd.Flags() ---
	Reports string `mapstructure:"reports"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Reports != nil {
		clone.Reports = make([]schema.ReportKind, len(c.Reports))
		copy(clone.Reports, c.Reports)
	}
	return &clone
}

// Params returns the run parameters recorded next to a report run.
func (c *Config) Params() map[string]any {
	params := map[string]any{
		"repo_path": c.RepoPath,
		"depth":     c.Depth,
		"no_cloc":   c.NoCloc,
	}
	if c.PathFilter != "" {
		params["filter"] = c.PathFilter
	}
	if !c.After.IsZero() {
		params["after"] = c.After.Format(DateTimeFormat)
	}
	if !c.StartTime.IsZero() {
		params["start"] = c.StartTime.Format(DateTimeFormat)
	}
	if !c.EndTime.IsZero() {
		params["end"] = c.EndTime.Format(DateTimeFormat)
	}
	if len(c.Reports) > 0 {
		reports := make([]string, 0, len(c.Reports))
		for _, r := range c.Reports {
			reports = append(reports, string(r))
		}
		params["reports"] = reports
	}
	return params
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processReports(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndFilter(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates snapshot cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	ttl := input.CacheTTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	d, err := ParseLookbackDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl: %w", err)
	}
	cfg.CacheTTL = d

	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// Snapshot cache and run storage must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ClocFile = input.ClocFile
	cfg.NoCloc = input.NoCloc
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Depth < 0 {
		return fmt.Errorf("depth cannot be negative (received %d)", input.Depth)
	}
	cfg.Depth = input.Depth

	cfg.Separator = input.Separator
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if strings.ContainsAny(cfg.Separator, "\t\n") {
		return fmt.Errorf("separator cannot contain tabs or newlines (received %q)", cfg.Separator)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	cfg.Excludes = append([]string{}, DefaultExcludes...)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// processTimeRange parses the git log window and the aggregator cutoff.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	var err error
	if cfg.StartTime, err = ParseTimeInput(input.Start, now); err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	if cfg.EndTime, err = ParseTimeInput(input.End, now); err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	if cfg.After, err = ParseTimeInput(input.After, now); err != nil {
		return fmt.Errorf("invalid --after: %w", err)
	}

	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// processReports parses the comma separated report list; empty means every report.
func processReports(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Reports) == "" {
		cfg.Reports = append([]schema.ReportKind{}, schema.AllReportKinds...)
		return nil
	}
	cfg.Reports = nil
	seen := make(map[schema.ReportKind]struct{})
	for p := range strings.SplitSeq(input.Reports, ",") {
		kind := schema.ReportKind(strings.ToLower(strings.TrimSpace(p)))
		if kind == "" {
			continue
		}
		if _, ok := schema.ValidReportKinds[kind]; !ok {
			return fmt.Errorf("invalid report '%s'. must be one of authors, files, file-authors, coupling, modules, branches", kind)
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		cfg.Reports = append(cfg.Reports, kind)
	}
	return nil
}

// resolveGitPathAndFilter resolves the Git repository path and sets the implicit path filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}

	cfg.RepoPath = gitRoot

	if cfg.PathFilter != "" { // User-provided --filter flag takes precedence
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}

		if relativePath != "." {
			filter := relativePath
			if statErr == nil && info.IsDir() {
				filter += "/"
			}
			cfg.PathFilter = strings.ReplaceAll(filter, string(os.PathSeparator), "/")
		}
	}

	return nil
}
