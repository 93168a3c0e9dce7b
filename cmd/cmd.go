// Package cmd defines the command-line interface for gitmine.
package cmd

import (
	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(fileAuthorsCmd)
	rootCmd.AddCommand(couplingCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("after", "", "Only count commits from this point on, in ISO8601, YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("start", "", "Oldest commit date passed to git log, in ISO8601, YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("end", "", "Newest commit date passed to git log, in ISO8601, YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("separator", contract.DefaultSeparator, "Marker that prefixes commit header lines in the log")
	rootCmd.PersistentFlags().String("cloc-file", "", "Read line counts from a saved 'cloc --by-file --csv' report")
	rootCmd.PersistentFlags().Bool("no-cloc", false, "Skip line counts entirely")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Filter files by path prefix")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Snapshot cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long a cached log snapshot stays valid")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// depth is one flag shared by coupling and report
	couplingCmd.Flags().Int("depth", contract.DefaultDepth, "Only couple files among the top N per-file commit counts (0 = no filtering)")
	depthFlag := couplingCmd.Flags().Lookup("depth")
	reportCmd.Flags().AddFlag(depthFlag)
	if err := viper.BindPFlag("depth", depthFlag); err != nil {
		contract.LogFatal("Error binding depth flag", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("reports", "", "Comma-separated reports to compute (default: all)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
