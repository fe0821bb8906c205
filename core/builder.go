package core

import (
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/finscore/finscore/core/algo"
	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/schema"
)

// Builder runs every rule of a policy against a bundle and collects the results
// into a single score table.
type Builder struct {
	evaluator *Evaluator
	logger    zerolog.Logger
}

// NewBuilder creates a builder over a metric library. Missing metrics are
// reported to logger at warn level.
func NewBuilder(lib *library.Library, logger zerolog.Logger) *Builder {
	return &Builder{
		evaluator: NewEvaluator(lib),
		logger:    logger,
	}
}

// Build scores a bundle against rules.
//
// Records keep rule order, then mode order, then period order. A metric that
// cannot be evaluated (unknown id, missing data, formula failure) is added to
// Missing with a reason and never aborts the table. Configuration errors, such
// as an unsupported operator or mode, are returned since no rule of the policy
// can be trusted after one.
func (b *Builder) Build(bundle *schema.StatementBundle, rules []schema.ScoreRule) (schema.ScoreTable, error) {
	table := schema.ScoreTable{
		Records: []schema.ScoreRecord{},
		Missing: []string{},
		Reasons: map[string]string{},
	}
	for _, rule := range rules {
		series, err := b.evaluator.Evaluate(bundle, rule.MetricID)
		if err != nil {
			if errors.Is(err, schema.ErrConfiguration) {
				return schema.ScoreTable{}, err
			}
			b.markMissing(&table, rule.MetricID, err)
			continue
		}
		records, err := algo.Score(rule.MetricID, rule, series)
		if err != nil {
			if errors.Is(err, schema.ErrConfiguration) {
				return schema.ScoreTable{}, err
			}
			b.markMissing(&table, rule.MetricID, err)
			continue
		}
		table.Records = append(table.Records, records...)
	}
	if len(table.Missing) > 0 {
		b.logger.Warn().Strs("metrics", table.Missing).Msg(table.MissingNotice())
	}
	return table, nil
}

func (b *Builder) markMissing(table *schema.ScoreTable, metricID string, err error) {
	b.logger.Warn().Str("metric", metricID).Err(err).Msg("metric skipped")
	if slices.Contains(table.Missing, metricID) {
		return
	}
	table.Missing = append(table.Missing, metricID)
	table.Reasons[metricID] = err.Error()
}
