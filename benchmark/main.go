// Package main measures how long isw2 takes to build datasets with and
// without the fetch cache. Each phase runs a command several times, treating
// the first successful run as cold and averaging the rest as warm, and the
// results are written to a CSV file.
//
// Prerequisites:
// - isw2 binary installed and available in PATH
// - JIRA and GitHub reachable (set GITHUB_TOKEN to avoid the anonymous rate limit)
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where clones, caches and datasets are written
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkProject names one Jira project and its GitHub repository.
type BenchmarkProject struct {
	JiraKey string
	Owner   string
	Repo    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Projects    []BenchmarkProject
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     30 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   3,
		Projects: []BenchmarkProject{
			{JiraKey: "BOOKKEEPER", Owner: "apache", Repo: "bookkeeper"},
			{JiraKey: "OPENJPA", Owner: "apache", Repo: "openjpa"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("isw2", "cache", "clear")
	clearCmd.Dir = config.WorkDir
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the isw2 binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("isw2"); err != nil {
		return fmt.Errorf("isw2 binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes the release selection and the full build of every project
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Projects), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, p := range config.Projects {
		fmt.Printf("Benchmarking %s\n", p.JiraKey)
		results = append(results,
			runBenchmarkSuite(config, p, "releases"),
			runBenchmarkSuite(config, p, "build"),
		)
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a command
func runBenchmarkSuite(config BenchmarkConfig, p BenchmarkProject, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, p.JiraKey)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, p, command, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:     p.JiraKey,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an isw2 command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, p BenchmarkProject, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--owner", p.Owner, "--repo", p.Repo, "--jira-key", p.JiraKey,
		"--work-dir", config.WorkDir,
		"--workers", fmt.Sprint(config.Workers),
		"--cache-backend", cacheBackend,
		"--color", "no",
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "isw2", args...)
		cmd.Dir = config.WorkDir
		output, err := cmd.CombinedOutput()
		if err == nil && isSuccess(output, command, p.JiraKey) {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command, jiraKey string) bool {
	outputStr := string(output)
	if command == "build" {
		return strings.Contains(outputStr, "Final dataset")
	}
	return strings.Contains(outputStr, jiraKey+":") && strings.Contains(outputStr, "releases")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("isw2_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"project", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Project, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
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

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"releases", "build"} {
		fmt.Printf("%s:\n", command)
		for _, r := range results {
			if r.Command == command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.Project, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
