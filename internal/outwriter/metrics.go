package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// PrintMetrics displays the metric library in the configured format.
func PrintMetrics(defs []schema.MetricDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, defs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"id", "name", "description", "unit", "format", "formula"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, d := range defs {
					if err := cw.Write([]string{d.ID, d.Name, d.Description, d.Unit, d.Format, d.Formula}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(w, defs, cfg)
		}, "Wrote text")
	}
}

// writeMetricsTable renders the library as a table.
func writeMetricsTable(w io.Writer, defs []schema.MetricDefinition, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "📚 Metric Library (%d metrics)\n", len(defs)); err != nil {
		return err
	}
	formulaWidth := GetMaxTableTextWidth(cfg, 50)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Unit", "Format", "Formula"})

	var data [][]string
	for _, d := range defs {
		data = append(data, []string{
			d.ID,
			d.Name,
			d.Unit,
			d.Format,
			contract.TruncateText(d.Formula, formulaWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
