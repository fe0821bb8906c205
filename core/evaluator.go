package core

import (
	"fmt"

	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/schema"
)

// Evaluator computes metric series from a statement bundle using the formulas
// of a metric library. It holds no state besides the library and is safe for
// concurrent use.
type Evaluator struct {
	lib *library.Library
}

// NewEvaluator creates an evaluator over a metric library.
func NewEvaluator(lib *library.Library) *Evaluator {
	return &Evaluator{lib: lib}
}

// Evaluate returns the series of a metric for a bundle, most recent year first.
//
// Errors wrap schema.ErrUnknownMetric when the id is not in the library,
// schema.ErrMissingData when a table the formula needs is empty or no period
// survives evaluation, and schema.ErrFormula when the formula fails.
// The series is empty whenever the error is non-nil.
func (e *Evaluator) Evaluate(bundle *schema.StatementBundle, metricID string) (schema.MetricSeries, error) {
	expr, err := e.lib.Formula(metricID)
	if err != nil {
		return schema.MetricSeries{}, err
	}
	if bundle == nil {
		return schema.MetricSeries{}, fmt.Errorf("%w: no statement bundle", schema.ErrMissingData)
	}
	v, err := expr.Eval(bundle)
	if err != nil {
		return schema.MetricSeries{}, fmt.Errorf("metric %q: %w", metricID, err)
	}
	series := v.MetricSeries()
	if len(series) == 0 {
		return schema.MetricSeries{}, fmt.Errorf("metric %q: %w: formula produced no periods", metricID, schema.ErrMissingData)
	}
	return series, nil
}
