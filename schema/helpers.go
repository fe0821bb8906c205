package schema

import (
	"slices"
	"strings"
)

// Total returns the sum of all record scores.
func (t ScoreTable) Total() float64 {
	var total float64
	for _, r := range t.Records {
		total += r.Score
	}
	return total
}

// MaxScore returns the score the table would have if every record passed.
// Missing metrics contribute nothing: they reduce coverage, not the score.
func (t ScoreTable) MaxScore() float64 {
	var total float64
	for _, r := range t.Records {
		total += r.Possible
	}
	return total
}

// Percent returns Total as a percentage of MaxScore, or 0 when nothing can be scored.
func (t ScoreTable) Percent() float64 {
	maxScore := t.MaxScore()
	if maxScore == 0 {
		return 0
	}
	return t.Total() / maxScore * 100
}

// Failing returns the records with a zero score, in table order.
func (t ScoreTable) Failing() []ScoreRecord {
	var out []ScoreRecord
	for _, r := range t.Records {
		if r.Score == 0 {
			out = append(out, r)
		}
	}
	return out
}

// IsMissing reports whether the metric id was recorded as missing.
func (t ScoreTable) IsMissing(id string) bool {
	return slices.Contains(t.Missing, id)
}

// MissingNotice renders the "data unavailable" notice, or an empty string when nothing is missing.
func (t ScoreTable) MissingNotice() string {
	return MissingNotice(t.Missing)
}

// MissingNotice renders the notice for a list of missing metric ids.
func MissingNotice(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return "Missing data for metrics: " + strings.Join(ids, ", ")
}

// Glyph returns the pass/fail symbol for a score.
func Glyph(score float64) string {
	if score == 0 {
		return FailGlyph
	}
	return PassGlyph
}

// StripGlyph removes a trailing pass/fail glyph and the separating space from a formatted value.
func StripGlyph(s string) string {
	for _, g := range []string{PassGlyph, FailGlyph} {
		if trimmed, ok := strings.CutSuffix(s, g); ok {
			return strings.TrimSuffix(trimmed, " ")
		}
	}
	return s
}
