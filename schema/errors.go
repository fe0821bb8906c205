package schema

import "errors"

// Error taxonomy for the scoring engine. Callers match with errors.Is.
var (
	// ErrUnknownMetric is returned when a metric id is absent from the metric library.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrConfiguration is returned for malformed libraries or policies,
	// unsupported operators and unsupported aggregation modes.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingData marks a metric whose formula needs a statement table that is empty.
	ErrMissingData = errors.New("missing data")

	// ErrFormula is returned when a formula fails to evaluate against a bundle.
	ErrFormula = errors.New("formula evaluation failed")
)
