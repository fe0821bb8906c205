package formula

import (
	"fmt"
	"math"
	"sort"

	"github.com/finscore/finscore/schema"
)

// Value is the result of evaluating a formula node: either a scalar or a
// series with one point per fiscal year, held oldest year first.
type Value struct {
	Scalar   float64
	Points   []schema.SeriesPoint
	IsSeries bool
}

func scalar(v float64) Value {
	return Value{Scalar: v}
}

func series(points []schema.SeriesPoint) Value {
	return Value{Points: points, IsSeries: true}
}

// MetricSeries converts a series value to the most-recent-first form used by scoring.
func (v Value) MetricSeries() schema.MetricSeries {
	out := make(schema.MetricSeries, len(v.Points))
	for i, p := range v.Points {
		out[len(v.Points)-1-i] = p
	}
	return out
}

// columnSeries selects one line item from a table, one point per fiscal year.
// When two periods fall in the same year the later period wins.
func columnSeries(table schema.Table, item string) []schema.SeriesPoint {
	byYear := make(map[int]schema.SeriesPoint)
	for period, row := range table {
		v, ok := row[item]
		if !ok {
			continue
		}
		if prev, seen := byYear[period.Year()]; seen && prev.PeriodEnd.After(period) {
			continue
		}
		byYear[period.Year()] = schema.SeriesPoint{Year: period.Year(), PeriodEnd: period, Value: v}
	}
	points := make([]schema.SeriesPoint, 0, len(byYear))
	for _, p := range byYear {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// combine applies fn element-wise. Two series align on fiscal year (intersection);
// a scalar broadcasts over a series.
func combine(x, y Value, fn func(a, b float64) (float64, error)) (Value, error) {
	switch {
	case !x.IsSeries && !y.IsSeries:
		v, err := fn(x.Scalar, y.Scalar)
		if err != nil {
			return Value{}, err
		}
		return scalar(v), nil

	case x.IsSeries && !y.IsSeries:
		return mapSeries(x.Points, func(a float64) (float64, error) { return fn(a, y.Scalar) })

	case !x.IsSeries && y.IsSeries:
		return mapSeries(y.Points, func(b float64) (float64, error) { return fn(x.Scalar, b) })

	default:
		right := make(map[int]float64, len(y.Points))
		for _, p := range y.Points {
			right[p.Year] = p.Value
		}
		out := make([]schema.SeriesPoint, 0, len(x.Points))
		for _, p := range x.Points {
			b, ok := right[p.Year]
			if !ok {
				continue
			}
			v, err := fn(p.Value, b)
			if err != nil {
				return Value{}, fmt.Errorf("%d: %w", p.Year, err)
			}
			out = append(out, schema.SeriesPoint{Year: p.Year, PeriodEnd: p.PeriodEnd, Value: v})
		}
		return series(out), nil
	}
}

func mapSeries(points []schema.SeriesPoint, fn func(float64) (float64, error)) (Value, error) {
	out := make([]schema.SeriesPoint, len(points))
	for i, p := range points {
		v, err := fn(p.Value)
		if err != nil {
			return Value{}, fmt.Errorf("%d: %w", p.Year, err)
		}
		out[i] = schema.SeriesPoint{Year: p.Year, PeriodEnd: p.PeriodEnd, Value: v}
	}
	return series(out), nil
}

// finite rejects NaN and infinities so a bad period never leaks into scoring.
func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result")
	}
	return v, nil
}
