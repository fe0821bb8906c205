package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/internal/parquet"
	"github.com/finscore/finscore/schema"
)

// PrintScoreReport outputs a score report, dispatching based on the output format configured.
func PrintScoreReport(report schema.ScoreReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if cfg.ShowAll {
				return writeCSVRecords(w, report.Records, fmtFloat)
			}
			return writeCSVExceptions(w, report.Exceptions)
		}, "Wrote CSV")
	case schema.ParquetOut:
		rows := parquet.BuildScoreRows(report, parquet.NewRunID(), time.Now())
		if err := parquet.WriteScoreRecordsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger.Info().Int("rows", len(rows)).Str("file", cfg.OutputFile).Msg("wrote parquet")
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeScoreTable renders the exception report (or every record with --all)
// followed by the score summary.
func writeScoreTable(w io.Writer, report schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	var headers []string
	var data [][]string
	if cfg.ShowAll {
		headers = []string{"Metric", "Type", "Mode", "Value", "Score", "Label"}
		nameWidth := GetMaxTableTextWidth(cfg, 50)
		for _, r := range report.Records {
			display := r.Display
			if display == "" {
				display = fmtFloat(r.Value)
			}
			data = append(data, []string{
				contract.TruncateText(r.Name, nameWidth),
				r.Period,
				string(r.Mode),
				display,
				fmtFloat(r.Score) + "/" + fmtFloat(r.Possible),
				scoreLabel(r.Score, cfg),
			})
		}
	} else {
		headers = []string{"Metric", "Type", "Value"}
		nameWidth := GetMaxTableTextWidth(cfg, 30)
		for _, row := range report.Exceptions {
			data = append(data, []string{
				contract.TruncateText(row.Metric, nameWidth),
				row.Type,
				exceptionValue(row.Value, cfg.UseEmojis),
			})
		}
	}

	if len(data) == 0 {
		if _, err := fmt.Fprintln(w, "No failing records."); err != nil {
			return err
		}
	} else {
		table := tablewriter.NewWriter(w)
		table.Header(headers)
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return writeScoreSummary(w, report, cfg, fmtFloat, duration)
}

// writeScoreSummary prints the total, missing metrics and largest shortfalls.
func writeScoreSummary(w io.Writer, report schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	summary := fmt.Sprintf("Score: %s / %s (%s%%)", fmtFloat(report.Total), fmtFloat(report.MaxScore), fmtFloat(report.Percent))
	if cfg.UseColors {
		summary = contract.GetPercentColor(report.Percent, cfg.MinScore).Sprint(summary)
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}

	if notice := schema.MissingNotice(report.Missing); notice != "" {
		if cfg.UseColors {
			notice = contract.MissingColor.Sprint(notice)
		}
		if _, err := fmt.Fprintln(w, notice); err != nil {
			return err
		}
	}

	if len(report.Shortfalls) > 0 {
		names := make(map[string]string, len(report.Records))
		for _, r := range report.Records {
			names[r.MetricID] = r.Name
		}
		parts := make([]string, len(report.Shortfalls))
		for i, s := range report.Shortfalls {
			name := names[s.MetricID]
			if name == "" {
				name = s.MetricID
			}
			parts[i] = fmt.Sprintf("%s (-%s)", name, fmtFloat(s.Shortfall()))
		}
		if _, err := fmt.Fprintf(w, "Largest shortfalls: %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Scored %d records in %v. Store backend: %s\n", len(report.Records), duration, cfg.StoreBackend)
	return err
}

// scoreLabel returns the record label, colored when colors are enabled.
func scoreLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// exceptionValue swaps the fail glyph for a plain label when emojis are disabled.
func exceptionValue(value string, useEmojis bool) string {
	if useEmojis {
		return value
	}
	return schema.StripGlyph(value) + " " + contract.FailValue
}

// writeCSVExceptions writes the exception report in CSV format.
func writeCSVExceptions(w io.Writer, rows []schema.DisplayRow) error {
	return writeCSVWithHeader(w, []string{"metric", "type", "value"}, func(cw *csv.Writer) error {
		for _, row := range rows {
			if err := cw.Write([]string{row.Metric, row.Type, row.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSVRecords writes every scored record in CSV format.
func writeCSVRecords(w io.Writer, records []schema.EnrichedRecord, fmtFloat func(float64) string) error {
	header := []string{"metric", "name", "type", "mode", "value", "display", "score", "possible", "label", "fiscal_year_end"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.MetricID,
				r.Name,
				r.Period,
				string(r.Mode),
				fmtFloat(r.Value),
				r.Display,
				fmtFloat(r.Score),
				fmtFloat(r.Possible),
				r.Label,
				strconv.Itoa(int(r.FiscalYearEnd)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
