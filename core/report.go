package core

import (
	"fmt"

	"github.com/finscore/finscore/core/algo"
	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/schema"
)

// shortfallLimit caps the metrics listed as the largest point losses.
const shortfallLimit = 5

// FormatValue renders a metric value with the metric's display format.
func FormatValue(def schema.MetricDefinition, value float64) string {
	return fmt.Sprintf(def.Format, value)
}

// FormatRecord renders one record as a display row, with the pass/fail glyph
// appended to the value.
func FormatRecord(def schema.MetricDefinition, r schema.ScoreRecord) schema.DisplayRow {
	return schema.DisplayRow{
		Metric: def.Name,
		Type:   r.Period,
		Value:  FormatValue(def, r.Value) + " " + schema.Glyph(r.Score),
	}
}

// FormatReport returns display rows for the failing records of a table, in
// table order. Records of metrics unknown to the library are an error.
func FormatReport(lib *library.Library, table schema.ScoreTable) ([]schema.DisplayRow, error) {
	return FormatRecords(lib, table.Failing())
}

// FormatRecords returns display rows for every given record.
func FormatRecords(lib *library.Library, records []schema.ScoreRecord) ([]schema.DisplayRow, error) {
	rows := make([]schema.DisplayRow, 0, len(records))
	for _, r := range records {
		def, err := lib.Get(r.MetricID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, FormatRecord(def, r))
	}
	return rows, nil
}

// BuildReport assembles the machine-readable report for a scored table.
func BuildReport(lib *library.Library, ticker, profile string, table schema.ScoreTable) (schema.ScoreReport, error) {
	exceptions, err := FormatReport(lib, table)
	if err != nil {
		return schema.ScoreReport{}, err
	}
	name := func(id string) string {
		def, err := lib.Get(id)
		if err != nil {
			return ""
		}
		return def.Name
	}
	records := schema.EnrichRecords(table.Records, name)
	for i := range records {
		if def, err := lib.Get(records[i].MetricID); err == nil {
			records[i].Display = FormatValue(def, records[i].Value)
		}
	}
	return schema.ScoreReport{
		Ticker:     ticker,
		Profile:    profile,
		Total:      table.Total(),
		MaxScore:   table.MaxScore(),
		Percent:    table.Percent(),
		Records:    records,
		Exceptions: exceptions,
		Shortfalls: algo.RankShortfalls(algo.Subtotals(table.Records), shortfallLimit),
		Missing:    table.Missing,
		Reasons:    table.Reasons,
	}, nil
}
