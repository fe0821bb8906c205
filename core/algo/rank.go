package algo

import (
	"sort"

	"github.com/finscore/finscore/schema"
)

// Subtotals groups records by metric, in the order metrics first appear.
func Subtotals(records []schema.ScoreRecord) []schema.MetricSubtotal {
	index := make(map[string]int)
	var out []schema.MetricSubtotal
	for _, r := range records {
		i, ok := index[r.MetricID]
		if !ok {
			i = len(out)
			index[r.MetricID] = i
			out = append(out, schema.MetricSubtotal{MetricID: r.MetricID})
		}
		out[i].Score += r.Score
		out[i].Possible += r.Possible
	}
	return out
}

// RankShortfalls sorts metric subtotals by lost points in descending order
// and returns the top 'limit' entries that lost anything. Ties keep their
// original order.
func RankShortfalls(subtotals []schema.MetricSubtotal, limit int) []schema.MetricSubtotal {
	var lost []schema.MetricSubtotal
	for _, s := range subtotals {
		if s.Shortfall() > 0 {
			lost = append(lost, s)
		}
	}
	sort.SliceStable(lost, func(i, j int) bool {
		return lost[i].Shortfall() > lost[j].Shortfall()
	})
	if limit >= 0 && len(lost) > limit {
		return lost[:limit]
	}
	return lost
}
