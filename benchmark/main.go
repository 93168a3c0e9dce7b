// Package main benchmarks the gitmine CLI against a set of local repositories.
// Every report command runs once per phase without a cache, then with a cold and
// warm SQLite snapshot cache, and the timings are saved as CSV.
//
// Prerequisites:
// - gitmine binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Commands    [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		Commands: [][]string{
			{"authors"},
			{"files"},
			{"coupling", "--limit", "50"},
			{"branches"},
			{"report"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("gitmine", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// checkPrerequisites verifies that the gitmine binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gitmine"); err != nil {
		return errors.New("gitmine binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d commands, %v timeout\n",
		len(config.TestRepos), len(config.Commands), config.Timeout)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, args := range config.Commands {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, args))
		}
	}
	return results
}

// runBenchmarkSuite runs the no-cache phase followed by the cached phase.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", strings.Join(args, " "), repo)

	noCache := runBenchmark(config, repoPath, args, "none", config.NoCacheRuns)
	cached := runBenchmark(config, repoPath, args, "sqlite", config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		Command:     args[0],
		NoCacheTime: average(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    "TIMEOUT",
	}
	if len(cached) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cached[0])
		result.WarmTime = average(cached[1:])
	}
	fmt.Printf("  No-cache: %s, Cold: %s, Warm: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark returns the durations in seconds of the successful runs, in order.
func runBenchmark(config BenchmarkConfig, repoPath string, args []string, cacheBackend string, numRuns int) []float64 {
	fullArgs := append([]string{}, args...)
	fullArgs = append(fullArgs, "--cache-backend", cacheBackend, "--color", "no")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "gitmine", fullArgs...)
		cmd.Dir = repoPath

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}
	return times
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks the completion line printed after the tables.
func isSuccess(output []byte) bool {
	out := string(output)
	return strings.Contains(out, "Analysis completed in") && strings.Contains(out, "Cache backend:")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) (err error) {
	filename := fmt.Sprintf("/tmp/gitmine_benchmark_%s.csv", time.Now().Format("20060102_150405"))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

func printSummary(results []BenchmarkResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Repo", "Command", "No-cache", "Cold", "Warm"})
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Repository, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime})
	}
	if err := table.Bulk(rows); err != nil {
		fmt.Printf("Failed to render summary: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Printf("Failed to render summary: %v\n", err)
	}
}
