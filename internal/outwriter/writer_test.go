package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/schema"
)

func TestWriteCheckText(t *testing.T) {
	tests := []struct {
		name     string
		result   schema.CheckResult
		expected []string
	}{
		{
			name:     "passed",
			result:   schema.CheckResult{Ticker: "ACME", Profile: "default", Percent: 62.07, MinScore: 50, Passed: true},
			expected: []string{"Pass ACME passed: 62.1% >= 50.0%", "Checked profile default"},
		},
		{
			name:     "failed with missing",
			result:   schema.CheckResult{Ticker: "ACME", Profile: "default", Percent: 40, MinScore: 50, Missing: []string{"roe"}},
			expected: []string{"Fail ACME failed: 40.0% < 50.0%", "Missing data for metrics: roe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCheckText(&buf, tt.result, textConfig(), createFormatter(1), time.Second))
			for _, want := range tt.expected {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrintCheckResultJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.json")
	result := schema.CheckResult{Ticker: "ACME", Profile: "default", Percent: 40, MinScore: 50, Missing: []string{}}
	require.NoError(t, PrintCheckResult(result, cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got schema.CheckResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, result, got)
}

func TestPrintCheckResultCSV(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "check.csv")
	result := schema.CheckResult{Ticker: "ACME", Profile: "default", Percent: 62.07, MinScore: 50, Passed: true, Missing: []string{"roe"}}
	require.NoError(t, PrintCheckResult(result, cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "ticker,profile,percent,min_score,passed,missing\nACME,default,62.1,50.0,true,1\n", string(data))
}

func testDefinitions() []schema.MetricDefinition {
	return []schema.MetricDefinition{
		{ID: "revenue_growth", Name: "Revenue Growth", Unit: "%", Format: "%.1f%%", Formula: `pct_change(income["Total Revenue"])`},
		{ID: "current_ratio", Name: "Current Ratio", Unit: "x", Format: "%.2f", Formula: `balance["Current Assets"] / balance["Current Liabilities"]`},
	}
}

func TestWriteMetricsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetricsTable(&buf, testDefinitions(), textConfig()))

	out := buf.String()
	assert.Contains(t, out, "Metric Library (2 metrics)")
	assert.Contains(t, out, "revenue_growth")
	assert.Contains(t, out, "Current Ratio")
}

func TestPrintMetricsCSV(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, PrintMetrics(testDefinitions(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,description,unit,format,formula", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "revenue_growth,Revenue Growth,,%,"))
}

func TestWriteStoreStatusText(t *testing.T) {
	last := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name     string
		status   schema.StoreStatus
		expected []string
		absent   []string
	}{
		{
			name:     "disconnected",
			status:   schema.StoreStatus{Backend: "none"},
			expected: []string{"Store Backend: none", "Connected: false"},
			absent:   []string{"Total Entries"},
		},
		{
			name:     "empty store",
			status:   schema.StoreStatus{Backend: "sqlite", Connected: true, TableSizeBytes: 4096},
			expected: []string{"Total Entries: 0", "Table Size: 4096 bytes"},
			absent:   []string{"Last Import"},
		},
		{
			name: "populated store",
			status: schema.StoreStatus{
				Backend: "sqlite", Connected: true, TotalEntries: 2,
				LastEntryTime: last, OldestEntryTime: last, Tickers: []string{"ACME", "BALO"},
			},
			expected: []string{"Last Import: 2025-01-02 03:04:05", "Tickers: ACME, BALO"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeStoreStatusText(&buf, tt.status))
			for _, want := range tt.expected {
				assert.Contains(t, buf.String(), want)
			}
			for _, notWant := range tt.absent {
				assert.NotContains(t, buf.String(), notWant)
			}
		})
	}
}
