package algo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/schema"
)

// revenueGrowth is the percent change of revenue 100, 120, 90 over 2021-2023,
// most recent first.
func revenueGrowth() schema.MetricSeries {
	return schema.MetricSeries{
		{Year: 2023, PeriodEnd: time.Date(2023, time.September, 30, 0, 0, 0, 0, time.UTC), Value: -25},
		{Year: 2022, PeriodEnd: time.Date(2022, time.September, 30, 0, 0, 0, 0, time.UTC), Value: 20},
	}
}

func rule(op schema.Operator, threshold float64, modes ...schema.AggregationMode) schema.ScoreRule {
	return schema.ScoreRule{MetricID: "revenue_growth", Operator: op, Threshold: threshold, BaseScore: 1, Weight: 1, Modes: modes}
}

func TestScoreModes(t *testing.T) {
	tests := []struct {
		name     string
		rule     schema.ScoreRule
		expected []schema.ScoreRecord
	}{
		{
			name: "yearly",
			rule: rule(schema.GreaterThan, 0, schema.YearlyMode),
			expected: []schema.ScoreRecord{
				{MetricID: "revenue_growth", Period: "2023", Value: -25, Score: 0, Possible: 1, Mode: schema.YearlyMode, FiscalYearEnd: time.September},
				{MetricID: "revenue_growth", Period: "2022", Value: 20, Score: 1, Possible: 1, Mode: schema.YearlyMode, FiscalYearEnd: time.September},
			},
		},
		{
			name: "latest",
			rule: rule(schema.LessThan, 0, schema.LatestMode),
			expected: []schema.ScoreRecord{
				{MetricID: "revenue_growth", Period: "2023", Value: -25, Score: 1, Possible: 1, Mode: schema.LatestMode, FiscalYearEnd: time.September},
			},
		},
		{
			name: "average",
			rule: rule(schema.GreaterThan, 0, schema.AverageMode),
			expected: []schema.ScoreRecord{
				{MetricID: "revenue_growth", Period: "average", Value: -2.5, Score: 0, Possible: 1, Mode: schema.AverageMode, FiscalYearEnd: time.September},
			},
		},
		{
			name: "equal to",
			rule: rule(schema.EqualTo, -2.5, schema.AverageMode),
			expected: []schema.ScoreRecord{
				{MetricID: "revenue_growth", Period: "average", Value: -2.5, Score: 1, Possible: 1, Mode: schema.AverageMode, FiscalYearEnd: time.September},
			},
		},
		{
			name: "modes keep rule order",
			rule: rule(schema.GreaterThan, 0, schema.AverageMode, schema.LatestMode),
			expected: []schema.ScoreRecord{
				{MetricID: "revenue_growth", Period: "average", Value: -2.5, Score: 0, Possible: 1, Mode: schema.AverageMode, FiscalYearEnd: time.September},
				{MetricID: "revenue_growth", Period: "2023", Value: -25, Score: 0, Possible: 1, Mode: schema.LatestMode, FiscalYearEnd: time.September},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Score("revenue_growth", tt.rule, revenueGrowth())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}

func TestScoreCAGR(t *testing.T) {
	records, err := Score("revenue_growth", rule(schema.GreaterThan, 0, schema.CAGRMode), revenueGrowth())
	require.NoError(t, err)
	require.Len(t, records, 1)

	// 0.75 * 1.2 = 0.9 over two periods.
	assert.Equal(t, "cagr", records[0].Period)
	assert.InDelta(t, (math.Sqrt(0.9)-1)*100, records[0].Value, 1e-9)
	assert.Equal(t, 0.0, records[0].Score)
}

func TestScoreWeighted(t *testing.T) {
	r := schema.ScoreRule{MetricID: "m", Operator: schema.GreaterThan, Threshold: 0, BaseScore: 2, Weight: 1.5, Modes: []schema.AggregationMode{schema.YearlyMode}}
	records, err := Score("m", r, revenueGrowth())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0.0, records[0].Score)
	assert.Equal(t, 3.0, records[1].Score)
	for _, rec := range records {
		assert.Equal(t, 3.0, rec.Possible)
	}
}

func TestScoreYearlyCardinality(t *testing.T) {
	for n := 1; n <= 6; n++ {
		series := make(schema.MetricSeries, n)
		for i := range series {
			series[i] = schema.SeriesPoint{Year: 2030 - i, PeriodEnd: time.Date(2030-i, time.December, 31, 0, 0, 0, 0, time.UTC), Value: float64(i*10 - 20)}
		}
		r := schema.ScoreRule{Operator: schema.GreaterThan, BaseScore: 1, Weight: 4, Modes: []schema.AggregationMode{schema.YearlyMode}}
		records, err := Score("m", r, series)
		require.NoError(t, err)
		require.Len(t, records, n)
		for i, rec := range records {
			assert.Contains(t, []float64{0, 4}, rec.Score)
			assert.Equal(t, series[i].Value > 0, rec.Score == 4)
		}
	}
}

func TestScoreEdgeCases(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		records, err := Score("m", rule(schema.GreaterThan, 0, schema.YearlyMode), nil)
		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := Score("m", rule(schema.GreaterThan, 0, "median"), revenueGrowth())
		assert.ErrorIs(t, err, schema.ErrConfiguration)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := Score("m", rule("at_least", 0, schema.LatestMode), revenueGrowth())
		assert.ErrorIs(t, err, schema.ErrConfiguration)
	})

	t.Run("undefined cagr", func(t *testing.T) {
		series := schema.MetricSeries{{Year: 2023, Value: -150}, {Year: 2022, Value: 10}}
		_, err := Score("m", rule(schema.GreaterThan, 0, schema.CAGRMode), series)
		assert.ErrorIs(t, err, schema.ErrFormula)
	})
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name     string
		rates    []float64
		expected float64
		wantErr  bool
	}{
		{name: "constant growth", rates: []float64{10, 10, 10}, expected: 10},
		{name: "flat", rates: []float64{0, 0}, expected: 0},
		{name: "single period", rates: []float64{7.5}, expected: 7.5},
		{name: "full loss", rates: []float64{-100, 50}, expected: -100},
		{name: "empty", rates: nil, wantErr: true},
		{name: "negative product", rates: []float64{-200, 10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CAGR(tt.rates)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestRankShortfalls(t *testing.T) {
	records := []schema.ScoreRecord{
		{MetricID: "a", Score: 1, Possible: 1},
		{MetricID: "b", Score: 0, Possible: 2},
		{MetricID: "a", Score: 0, Possible: 1},
		{MetricID: "c", Score: 0, Possible: 2},
		{MetricID: "d", Score: 3, Possible: 3},
	}

	subtotals := Subtotals(records)
	require.Len(t, subtotals, 4)
	assert.Equal(t, schema.MetricSubtotal{MetricID: "a", Score: 1, Possible: 2}, subtotals[0])

	ranked := RankShortfalls(subtotals, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{ranked[0].MetricID, ranked[1].MetricID, ranked[2].MetricID})

	assert.Len(t, RankShortfalls(subtotals, 1), 1)
	assert.Empty(t, RankShortfalls(nil, 5))
}

func BenchmarkScore(b *testing.B) {
	series := make(schema.MetricSeries, 10)
	for i := range series {
		series[i] = schema.SeriesPoint{Year: 2030 - i, Value: float64(i)}
	}
	r := rule(schema.GreaterThan, 3, schema.YearlyMode, schema.LatestMode, schema.AverageMode, schema.CAGRMode)
	for b.Loop() {
		_, _ = Score("m", r, series)
	}
}
