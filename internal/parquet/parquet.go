// Package parquet provides data structures and functions for exporting score
// tables to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/finscore/finscore/schema"
)

// ScoreRecordRow represents one scored record of one run.
type ScoreRecordRow struct {
	// RunID groups the rows written by a single scoring run
	RunID string `parquet:"run_id,snappy"`

	// Ticker is the company the bundle belongs to
	Ticker string `parquet:"ticker,snappy"`

	// Profile is the scoring policy profile name
	Profile string `parquet:"profile,snappy"`

	// ScoredAt is when the run happened (stored as TIMESTAMP with nanosecond precision)
	ScoredAt time.Time `parquet:"scored_at,snappy"`

	MetricID   string  `parquet:"metric_id,snappy"`
	MetricName string  `parquet:"metric_name,snappy"`
	Period     string  `parquet:"period,snappy"`
	Mode       string  `parquet:"mode,snappy"`
	Value      float64 `parquet:"value,snappy"`
	Score      float64 `parquet:"score,snappy"`
	Possible   float64 `parquet:"possible,snappy"`
	Label      string  `parquet:"label,snappy"`

	// FiscalYearEnd is the month number (1-12) of the fiscal year end, null when unknown
	FiscalYearEnd *int32 `parquet:"fiscal_year_end,optional,snappy"`
}

// NewRunID returns a fresh identifier for a scoring run.
func NewRunID() string {
	return uuid.NewString()
}

// BuildScoreRows flattens a score report into rows sharing one run id.
func BuildScoreRows(report schema.ScoreReport, runID string, scoredAt time.Time) []ScoreRecordRow {
	rows := make([]ScoreRecordRow, len(report.Records))
	for i, r := range report.Records {
		rows[i] = ScoreRecordRow{
			RunID:      runID,
			Ticker:     report.Ticker,
			Profile:    report.Profile,
			ScoredAt:   scoredAt.UTC(),
			MetricID:   r.MetricID,
			MetricName: r.Name,
			Period:     r.Period,
			Mode:       string(r.Mode),
			Value:      r.Value,
			Score:      r.Score,
			Possible:   r.Possible,
			Label:      r.Label,
		}
		if r.FiscalYearEnd != 0 {
			month := int32(r.FiscalYearEnd)
			rows[i].FiscalYearEnd = &month
		}
	}
	return rows
}

// WriteScoreRecordsParquet writes a slice of ScoreRecordRow structs to a Parquet file.
func WriteScoreRecordsParquet(data []ScoreRecordRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ScoreRecordRow struct tags
	writer := parquet.NewGenericWriter[ScoreRecordRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadScoreRecordsParquet reads every row of a score Parquet file.
func ReadScoreRecordsParquet(path string) ([]ScoreRecordRow, error) {
	rows, err := parquet.ReadFile[ScoreRecordRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}
