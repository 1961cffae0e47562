// Package main provides a performance benchmarking tool for the Scorecard CLI.
// It generates synthetic partner populations of increasing size, measures the
// execution time of each command several times, treating the first successful
// run as cold and averaging the rest as warm, and writes the results as CSV.
//
// Prerequisites:
// - scorecard binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory the synthetic inputs and reports are written to
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Population int
	Command    string
	Ledger     string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	Populations []int
	Ledgers     []string
}

// benchmarkFields are the score columns of every synthetic population.
var benchmarkFields = []string{"Impact", "Targeting", "Product", "Process", "MPI", "Findex", "Outreach", "Research", "Sector"}

// benchmarkRegions are assigned round-robin to synthetic partners.
var benchmarkRegions = []string{"South Asia", "Sub-Saharan Africa", "South America", "East Asia and the Pacific", "Middle East and North Africa"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Runs:        4,
		Populations: []int{500, 5000, 50000},
		Ledgers:     []string{"none", "sqlite"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the scorecard binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("scorecard"); err != nil {
		return fmt.Errorf("scorecard binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes all benchmark tests across configured population sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d populations, %v timeout, %d runs\n",
		len(config.Populations), config.Timeout, config.Runs)

	for _, size := range config.Populations {
		fmt.Printf("Benchmarking %d partners\n", size)

		dir := filepath.Join(config.WorkDir, fmt.Sprintf("population_%d", size))
		inputs, err := writePopulation(dir, size)
		if err != nil {
			fmt.Printf("  Failed to generate inputs: %v\n", err)
			continue
		}

		results = append(results, runBenchmarkSuite(config, size, "rank", "none", append([]string{"--sort-by", "Impact", "--output", "csv"}, inputs...)))
		results = append(results, runBenchmarkSuite(config, size, "table", "none", append([]string{"1,2,3", "--output", "json"}, inputs...)))

		for _, backend := range config.Ledgers {
			args := append([]string{"1,2,3",
				"--report-dir", filepath.Join(dir, "reports"),
				"--figures-dir", filepath.Join(dir, "figures"),
			}, inputs...)
			if backend == "sqlite" {
				args = append(args, "--ledger-db-connect", filepath.Join(dir, "ledger.db"))
			}
			results = append(results, runBenchmarkSuite(config, size, "report", backend, args))
		}
	}

	return results
}

// writePopulation writes a synthetic population and region mapping and returns the flags pointing at them
func writePopulation(dir string, size int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(uint64(size), 1))

	var pop, mapping strings.Builder
	pop.WriteString("Partner ID,Name,Country,volume," + strings.Join(benchmarkFields, ",") + "\n")
	mapping.WriteString("Partner Details Partner ID,Loan Geography IRS Region,Partner Details Field Partner Name\n")
	for id := 1; id <= size; id++ {
		cells := []string{fmt.Sprint(id), fmt.Sprintf("Partner %d", id), "Country", fmt.Sprintf("%.2f", rng.Float64()*1e6)}
		for range benchmarkFields {
			cells = append(cells, fmt.Sprintf("%.2f", rng.Float64()*10))
		}
		pop.WriteString(strings.Join(cells, ",") + "\n")
		fmt.Fprintf(&mapping, "%d,%s,\n", id, benchmarkRegions[id%len(benchmarkRegions)])
	}

	dataFile := filepath.Join(dir, "population.csv")
	regionFile := filepath.Join(dir, "regions.csv")
	if err := os.WriteFile(dataFile, []byte(pop.String()), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(regionFile, []byte(mapping.String()), 0o644); err != nil {
		return nil, err
	}
	return []string{"--data-file", dataFile, "--region-file", regionFile}, nil
}

// runBenchmarkSuite runs a command several times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, size int, command, ledger string, args []string) BenchmarkResult {
	fmt.Printf("  Running %s with ledger %s (%d runs)\n", command, ledger, config.Runs)

	cold, times := runBenchmark(config, command, ledger, args)
	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Population: size,
		Command:    command,
		Ledger:     ledger,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a scorecard command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, ledger string, extraArgs []string) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--ledger-backend", ledger, "--log-level", "error"}, extraArgs...)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("scorecard", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("scorecard_benchmark_%s.csv", timestamp))

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
	defer writer.Flush()

	if err := writer.Write([]string{"partners", "cmd", "ledger", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		record := []string{fmt.Sprint(result.Population), result.Command, result.Ledger, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"rank", "table", "report"} {
		fmt.Printf("%s:\n", strings.ToUpper(command[:1])+command[1:])
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8d %-7s: Cold: %s, Warm: %s\n", result.Population, result.Ledger, result.ColdTime, result.WarmTime)
			}
		}
	}
}
