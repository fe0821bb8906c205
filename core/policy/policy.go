// Package policy loads scoring profiles: which metrics are scored, against which
// threshold, with which weight and in which aggregation modes.
package policy

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/schema"
)

// DefaultProfile is the profile name used when none is configured.
const DefaultProfile = "default"

// fileSuffix is appended to a profile name to form its file name.
const fileSuffix = "_score"

//go:embed defaults/*_score.json
var defaults embed.FS

// ruleDocument is the document form of a rule; the metric id is the mapping key.
type ruleDocument struct {
	Score    *float64 `json:"score" yaml:"score"`
	Weight   *float64 `json:"weight" yaml:"weight"`
	Type     []string `json:"type" yaml:"type"`
	Operator string   `json:"operator" yaml:"operator"`
	Value    *float64 `json:"value" yaml:"value"`
}

// Load reads a policy document and returns its rules in declared order.
// Score and weight default to 1 when omitted.
func Load(r io.Reader, format schema.DocumentFormat) ([]schema.ScoreRule, error) {
	var rules []schema.ScoreRule
	err := schema.DecodeOrdered(r, format, func(id string, decode func(any) error) error {
		var doc ruleDocument
		if err := decode(&doc); err != nil {
			return fmt.Errorf("%w: rule %q: %v", schema.ErrConfiguration, id, err)
		}
		rule, err := doc.rule(id)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: policy has no rules", schema.ErrConfiguration)
	}
	return rules, nil
}

func (d ruleDocument) rule(id string) (schema.ScoreRule, error) {
	rule := schema.ScoreRule{
		MetricID:  id,
		Operator:  schema.Operator(d.Operator),
		BaseScore: 1,
		Weight:    1,
	}
	if d.Score != nil {
		rule.BaseScore = *d.Score
	}
	if d.Weight != nil {
		rule.Weight = *d.Weight
	}
	if d.Value == nil {
		return rule, fmt.Errorf("%w: rule %q has no threshold value", schema.ErrConfiguration, id)
	}
	rule.Threshold = *d.Value
	for _, m := range d.Type {
		rule.Modes = append(rule.Modes, schema.AggregationMode(m))
	}
	if err := ValidateRule(rule); err != nil {
		return rule, err
	}
	return rule, nil
}

// ValidateRule checks the operator, the modes and the weight of a single rule.
func ValidateRule(rule schema.ScoreRule) error {
	if rule.MetricID == "" {
		return fmt.Errorf("%w: rule has no metric id", schema.ErrConfiguration)
	}
	if _, ok := schema.ValidOperators[rule.Operator]; !ok {
		return fmt.Errorf("%w: rule %q: unsupported operator %q", schema.ErrConfiguration, rule.MetricID, rule.Operator)
	}
	if len(rule.Modes) == 0 {
		return fmt.Errorf("%w: rule %q has no aggregation modes", schema.ErrConfiguration, rule.MetricID)
	}
	seen := make(map[schema.AggregationMode]struct{}, len(rule.Modes))
	for _, m := range rule.Modes {
		if _, ok := schema.ValidAggregationModes[m]; !ok {
			return fmt.Errorf("%w: rule %q: unsupported aggregation mode %q", schema.ErrConfiguration, rule.MetricID, m)
		}
		if _, dup := seen[m]; dup {
			return fmt.Errorf("%w: rule %q: duplicate aggregation mode %q", schema.ErrConfiguration, rule.MetricID, m)
		}
		seen[m] = struct{}{}
	}
	if rule.Weight < 0 {
		return fmt.Errorf("%w: rule %q: negative weight %v", schema.ErrConfiguration, rule.MetricID, rule.Weight)
	}
	return nil
}

// Validate checks that every rule refers to a metric the library defines.
func Validate(rules []schema.ScoreRule, lib *library.Library) error {
	var errs []error
	for _, rule := range rules {
		if err := ValidateRule(rule); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := lib.Get(rule.MetricID); err != nil {
			errs = append(errs, fmt.Errorf("%w: rule %w", schema.ErrConfiguration, err))
		}
	}
	return errors.Join(errs...)
}

// LoadFile loads a policy from a JSON or YAML file.
func LoadFile(path string) ([]schema.ScoreRule, error) {
	format, err := schema.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open policy: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, format)
}

// LoadProfile finds <name>_score.json, .yaml or .yml in dir. The default profile
// falls back to the built-in policy when no file exists.
func LoadProfile(dir, name string) ([]schema.ScoreRule, error) {
	if name == "" {
		name = DefaultProfile
	}
	if path, ok := ProfilePath(dir, name); ok {
		return LoadFile(path)
	}
	data, err := defaults.ReadFile("defaults/" + name + fileSuffix + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: profile %q not found in %s", schema.ErrConfiguration, name, dir)
	}
	return Load(bytes.NewReader(data), schema.JSONDocument)
}

// ProfilePath returns the first existing policy file for a profile.
func ProfilePath(dir, name string) (string, bool) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+fileSuffix+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
