// Package algo holds the pure scoring computations: rule evaluation over a metric
// series and ranking of the results.
package algo

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/finscore/finscore/schema"
)

// Score applies a rule to an evaluated metric series and returns one record per
// requested mode (one per period for yearly mode). The series is most-recent first.
// An empty series yields no records; the caller records the metric as missing.
func Score(metricID string, rule schema.ScoreRule, series schema.MetricSeries) ([]schema.ScoreRecord, error) {
	if len(series) == 0 {
		return nil, nil
	}
	if _, ok := schema.ValidOperators[rule.Operator]; !ok {
		return nil, fmt.Errorf("%w: metric %q: unsupported operator %q", schema.ErrConfiguration, metricID, rule.Operator)
	}

	possible := rule.BaseScore * rule.Weight
	fiscalYearEnd := series[0].PeriodEnd.Month()
	record := func(mode schema.AggregationMode, period string, value float64) schema.ScoreRecord {
		return schema.ScoreRecord{
			MetricID:      metricID,
			Period:        period,
			Value:         value,
			Score:         gate(rule, value),
			Possible:      possible,
			Mode:          mode,
			FiscalYearEnd: fiscalYearEnd,
		}
	}

	var records []schema.ScoreRecord
	for _, mode := range rule.Modes {
		switch mode {
		case schema.YearlyMode:
			for _, p := range series {
				records = append(records, record(mode, strconv.Itoa(p.Year), p.Value))
			}
		case schema.LatestMode:
			records = append(records, record(mode, strconv.Itoa(series[0].Year), series[0].Value))
		case schema.AverageMode:
			records = append(records, record(mode, schema.AveragePeriod, stat.Mean(series.Values(), nil)))
		case schema.CAGRMode:
			cagr, err := CAGR(series.Values())
			if err != nil {
				return nil, fmt.Errorf("%w: metric %q: %v", schema.ErrFormula, metricID, err)
			}
			records = append(records, record(mode, schema.CAGRPeriod, cagr))
		default:
			return nil, fmt.Errorf("%w: metric %q: unsupported aggregation mode %q", schema.ErrConfiguration, metricID, mode)
		}
	}
	return records, nil
}

// gate returns base score times weight when the comparison holds, else 0.
func gate(rule schema.ScoreRule, value float64) float64 {
	if rule.Operator.Compare(value, rule.Threshold) {
		return rule.BaseScore * rule.Weight
	}
	return 0
}

// CAGR compounds a series of percentage growth rates into an annualized rate,
// in percent: ((prod(v/100 + 1))^(1/n) - 1) * 100.
func CAGR(rates []float64) (float64, error) {
	if len(rates) == 0 {
		return 0, fmt.Errorf("no periods to compound")
	}
	factors := make([]float64, len(rates))
	for i, r := range rates {
		factors[i] = r/100 + 1
	}
	cagr := (math.Pow(floats.Prod(factors), 1/float64(len(rates))) - 1) * 100
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return 0, fmt.Errorf("compound growth is undefined for rates %v", rates)
	}
	return cagr, nil
}
