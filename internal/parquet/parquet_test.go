package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/schema"
)

func TestScoreRecordRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ScoreRecordRow))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id", "ticker", "profile", "scored_at",
		"metric_id", "metric_name", "period", "mode",
		"value", "score", "possible", "label", "fiscal_year_end",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func testReport() schema.ScoreReport {
	return schema.ScoreReport{
		Ticker:  "AAPL",
		Profile: "default",
		Records: []schema.EnrichedRecord{
			{Name: "Revenue Growth", Label: "Fail", ScoreRecord: schema.ScoreRecord{MetricID: "revenue_growth", Period: "2023", Value: -2.8, Score: 0, Possible: 2, Mode: schema.YearlyMode, FiscalYearEnd: time.September}},
			{Name: "Return on Equity", Label: "Pass", ScoreRecord: schema.ScoreRecord{MetricID: "roe", Period: "average", Value: 160.1, Score: 2, Possible: 2, Mode: schema.AverageMode}},
		},
	}
}

func TestBuildScoreRows(t *testing.T) {
	scoredAt := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	rows := BuildScoreRows(testReport(), "run-1", scoredAt)
	require.Len(t, rows, 2)

	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, "AAPL", rows[0].Ticker)
	assert.Equal(t, "Revenue Growth", rows[0].MetricName)
	assert.Equal(t, "yearly", rows[0].Mode)
	require.NotNil(t, rows[0].FiscalYearEnd)
	assert.Equal(t, int32(9), *rows[0].FiscalYearEnd)
	assert.Nil(t, rows[1].FiscalYearEnd)
	assert.Equal(t, scoredAt, rows[1].ScoredAt)
}

func TestWriteAndReadScoreRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	runID := NewRunID()
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	rows := BuildScoreRows(testReport(), runID, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, WriteScoreRecordsParquet(rows, path))

	got, err := ReadScoreRecordsParquet(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0].MetricID, got[0].MetricID)
	assert.Equal(t, rows[1].Value, got[1].Value)
	assert.Equal(t, runID, got[1].RunID)
	assert.True(t, rows[0].ScoredAt.Equal(got[0].ScoredAt))
}

func TestWriteScoreRecordsBadPath(t *testing.T) {
	err := WriteScoreRecordsParquet(nil, filepath.Join(t.TempDir(), "missing", "scores.parquet"))
	assert.Error(t, err)
}
