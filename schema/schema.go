// Package schema has models, constants and errors shared by all parts of finscore.
package schema

import (
	"sort"
	"time"
)

// MetricDefinition describes one named financial metric and how to compute it.
type MetricDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Unit        string `json:"unit" yaml:"unit"`
	Format      string `json:"format" yaml:"format"`   // fmt template with a single float verb, e.g. "%.1f%%"
	Formula     string `json:"formula" yaml:"formula"` // restricted formula expression over the bundle tables
}

// Row holds the line items reported for a single fiscal period.
type Row map[string]float64

// Table maps a period end date to the line items reported for that period.
type Table map[time.Time]Row

// StatementBundle is the set of statement tables for one company.
type StatementBundle struct {
	Ticker     string
	Currency   string
	Balance    Table
	Income     Table
	Cashflow   Table
	Financials Table
}

// SeriesPoint is a single fiscal-year value of a metric.
type SeriesPoint struct {
	Year      int       `json:"year"`
	PeriodEnd time.Time `json:"period_end"`
	Value     float64   `json:"value"`
}

// MetricSeries is an evaluated metric ordered most-recent year first.
type MetricSeries []SeriesPoint

// ScoreRule is the scoring policy entry for one metric.
type ScoreRule struct {
	MetricID  string            `json:"metric_id"`
	Operator  Operator          `json:"operator"`
	Threshold float64           `json:"value"`
	BaseScore float64           `json:"score"`
	Weight    float64           `json:"weight"`
	Modes     []AggregationMode `json:"type"`
}

// ScoreRecord is one scored value of a metric for a mode (and period, in yearly mode).
type ScoreRecord struct {
	MetricID      string          `json:"metric"`
	Period        string          `json:"type"`
	Value         float64         `json:"value"`
	Score         float64         `json:"score"`
	Possible      float64         `json:"possible"` // base score times weight, the score when the rule holds
	Mode          AggregationMode `json:"mode"`
	FiscalYearEnd time.Month      `json:"fiscal_year_end"`
}

// ScoreTable is the flat result of scoring every rule of a policy against one bundle.
type ScoreTable struct {
	Records []ScoreRecord     `json:"records"`
	Missing []string          `json:"missing"`
	Reasons map[string]string `json:"reasons,omitempty"`
}

// MetricSubtotal is the score a metric earned against what it could have earned.
type MetricSubtotal struct {
	MetricID string  `json:"metric"`
	Score    float64 `json:"score"`
	Possible float64 `json:"possible"`
}

// Shortfall returns the points the metric lost.
func (m MetricSubtotal) Shortfall() float64 {
	return m.Possible - m.Score
}

// DisplayRow is one line of the exception report.
type DisplayRow struct {
	Metric string `json:"metric"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

// Table returns the statement table with the given name, or nil if the name is unknown.
func (b *StatementBundle) Table(name TableName) Table {
	switch name {
	case BalanceTable:
		return b.Balance
	case IncomeTable:
		return b.Income
	case CashflowTable:
		return b.Cashflow
	case FinancialsTable:
		return b.Financials
	default:
		return nil
	}
}

// Periods returns the period end dates of the table, oldest first.
func (t Table) Periods() []time.Time {
	periods := make([]time.Time, 0, len(t))
	for p := range t {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// Values returns the series values in series order.
func (s MetricSeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}
