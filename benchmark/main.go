// Package main provides a performance benchmarking tool for the finscore CLI.
// It measures score times for every bundle in a directory, reading each bundle
// from its file and from the statement store, running each test multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - finscore binary installed and available in PATH
// - A directory of bundle documents (*.json, *.yaml, *.yml)
//
// Usage: go run benchmark/main.go [bundle-dir]
//
//	bundle-dir: Directory containing statement bundles
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (file average, cold store run and average of warm store runs).
type BenchmarkResult struct {
	Bundle   string
	Ticker   string
	FileTime string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BundleDir string
	Timeout   time.Duration
	FileRuns  int
	StoreRuns int
	StoreDB   string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [bundle-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		BundleDir: os.Args[1],
		Timeout:   time.Minute,
		FileRuns:  3,
		StoreRuns: 4,
		StoreDB:   filepath.Join(os.TempDir(), "finscore_benchmark.db"),
	}

	bundles, err := findBundles(config.BundleDir)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty benchmark store
	_ = os.Remove(config.StoreDB)
	defer func() { _ = os.Remove(config.StoreDB) }()

	results := runBenchmarks(config, bundles)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// findBundles verifies the finscore binary exists and lists the bundle documents.
func findBundles(dir string) ([]string, error) {
	if _, err := exec.LookPath("finscore"); err != nil {
		return nil, fmt.Errorf("finscore binary not found in PATH")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var bundles []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			bundles = append(bundles, filepath.Join(dir, e.Name()))
		}
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no bundle documents found in %s", dir)
	}
	slices.Sort(bundles)
	return bundles, nil
}

// runBenchmarks executes the file and store phases for every bundle.
func runBenchmarks(config BenchmarkConfig, bundles []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d bundles, %v timeout, file: %d runs, store: %d runs\n",
		len(bundles), config.Timeout, config.FileRuns, config.StoreRuns)

	for _, bundle := range bundles {
		fmt.Printf("Benchmarking %s\n", filepath.Base(bundle))

		// Phase 1: score straight from the document
		_, fileTimes := runBenchmark(config, []string{"score", bundle}, config.FileRuns)

		// Phase 2: import, then score by ticker from the store
		ticker, err := importBundle(config, bundle)
		if err != nil {
			fmt.Printf("  Warning: import failed: %v\n", err)
		}
		var coldTime float64
		var warmTimes []float64
		if ticker != "" {
			coldTime, warmTimes = runBenchmark(config, []string{"score", "--ticker", ticker}, config.StoreRuns)
		}

		result := BenchmarkResult{
			Bundle:   filepath.Base(bundle),
			Ticker:   ticker,
			FileTime: formatAverage(fileTimes),
			ColdTime: formatSeconds(coldTime),
			WarmTime: formatAverage(warmTimes),
		}
		fmt.Printf("  File average: %s, Cold store: %s, Warm store average: %s\n", result.FileTime, result.ColdTime, result.WarmTime)
		results = append(results, result)
	}

	return results
}

// importBundle stores a bundle and returns its ticker as reported by the store.
func importBundle(config BenchmarkConfig, bundle string) (string, error) {
	if output, err := finscoreCommand(config, "store", "import", bundle).CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %s", err, output)
	}
	output, err := finscoreCommand(config, "score", bundle, "--output", "json").Output()
	if err != nil {
		return "", err
	}
	var report struct {
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(output, &report); err != nil {
		return "", err
	}
	return report.Ticker, nil
}

// finscoreCommand builds a finscore command bound to the benchmark store.
func finscoreCommand(config BenchmarkConfig, args ...string) *exec.Cmd {
	cmd := exec.Command("finscore", args...)
	cmd.Env = append(os.Environ(),
		"FINSCORE_STORE_BACKEND=sqlite",
		"FINSCORE_STORE_DB_CONNECT="+config.StoreDB,
		"FINSCORE_COLOR=no",
	)
	return cmd
}

// runBenchmark executes a finscore command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := finscoreCommand(config, args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Scored") && strings.Contains(outputStr, "records in")
}

func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return formatSeconds(sum / float64(len(times)))
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", s)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("finscore_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"bundle", "ticker", "file_avg", "store_cold", "store_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Bundle, result.Ticker, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-24s %-8s File: %s, Cold: %s, Warm: %s\n", result.Bundle, result.Ticker, result.FileTime, result.ColdTime, result.WarmTime)
	}
}
