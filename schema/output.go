package schema

// EnrichedRecord adds presentation data to a ScoreRecord.
type EnrichedRecord struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Display string `json:"display"` // value rendered with the metric's display format
	ScoreRecord
}

// ScoreReport is the complete machine-readable result of scoring one bundle.
type ScoreReport struct {
	Ticker     string            `json:"ticker"`
	Profile    string            `json:"profile"`
	Total      float64           `json:"total"`
	MaxScore   float64           `json:"max_score"`
	Percent    float64           `json:"percent"`
	Records    []EnrichedRecord  `json:"records"`
	Exceptions []DisplayRow      `json:"exceptions"`
	Shortfalls []MetricSubtotal  `json:"shortfalls"`
	Missing    []string          `json:"missing"`
	Reasons    map[string]string `json:"reasons,omitempty"`
}

// CheckResult is the outcome of gating a score against a minimum percentage.
type CheckResult struct {
	Ticker   string   `json:"ticker"`
	Profile  string   `json:"profile"`
	Percent  float64  `json:"percent"`
	MinScore float64  `json:"min_score"`
	Passed   bool     `json:"passed"`
	Missing  []string `json:"missing"`
}

// GetPlainLabel returns a plain text label for a record score.
func GetPlainLabel(score float64) string {
	if score == 0 {
		return "Fail"
	}
	return "Pass"
}

// EnrichRecords attaches metric names and labels to records.
// Names that cannot be resolved fall back to the metric id.
func EnrichRecords(records []ScoreRecord, name func(id string) string) []EnrichedRecord {
	output := make([]EnrichedRecord, len(records))
	for i, r := range records {
		n := r.MetricID
		if name != nil {
			if resolved := name(r.MetricID); resolved != "" {
				n = resolved
			}
		}
		output[i] = EnrichedRecord{
			Name:        n,
			Label:       GetPlainLabel(r.Score),
			ScoreRecord: r,
		}
	}
	return output
}
