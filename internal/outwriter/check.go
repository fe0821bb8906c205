package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// PrintCheckResult outputs the result of a minimum-score check.
func PrintCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"ticker", "profile", "percent", "min_score", "passed", "missing"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return cw.Write([]string{
					result.Ticker,
					result.Profile,
					fmtFloat(result.Percent),
					fmtFloat(result.MinScore),
					strconv.FormatBool(result.Passed),
					strconv.Itoa(len(result.Missing)),
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(w, result, cfg, fmtFloat, duration)
		}, "Wrote text")
	}
}

// writeCheckText prints the check result in a concise format suitable for CI/CD.
func writeCheckText(w io.Writer, result schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	status, op := "passed", ">="
	if !result.Passed {
		status, op = "failed", "<"
	}
	line := fmt.Sprintf("%s %s %s: %s%% %s %s%%",
		contract.GetGlyph(boolScore(result.Passed), cfg.UseEmojis),
		result.Ticker, status, fmtFloat(result.Percent), op, fmtFloat(result.MinScore))
	if cfg.UseColors {
		line = contract.GetPercentColor(result.Percent, result.MinScore).Sprint(line)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if notice := schema.MissingNotice(result.Missing); notice != "" {
		if _, err := fmt.Fprintln(w, notice); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Checked profile %s in %v\n", result.Profile, duration)
	return err
}

// boolScore maps a pass/fail outcome to a score for glyph selection.
func boolScore(passed bool) float64 {
	if passed {
		return 1
	}
	return 0
}
