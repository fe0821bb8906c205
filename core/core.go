// Package core has core logic for evaluating metrics, scoring them against a
// policy and formatting the results.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finscore/finscore/core/library"
	"github.com/finscore/finscore/core/policy"
	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/internal/outwriter"
	"github.com/finscore/finscore/schema"
)

// ErrCheckFailed is returned by ExecuteCheck when the score is below the minimum.
var ErrCheckFailed = errors.New("score is below the minimum")

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteScore scores the configured bundle and prints the report.
// It serves as the main entry point for the 'score' command.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetScoreResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintScoreReport(report, cfg, duration)
}

// ExecuteCheck scores the configured bundle and compares the total percentage
// against cfg.MinScore. It returns ErrCheckFailed when the check does not pass.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetScoreResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := NewCheckResult(report, cfg.MinScore)
	if err := outwriter.PrintCheckResult(result, cfg, duration); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %.1f%% < %.1f%%", ErrCheckFailed, result.Percent, result.MinScore)
	}
	return nil
}

// ExecuteMetrics lists the metric library. It does not read any bundle.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	lib, err := LoadLibrary(cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintMetrics(lib.All(), cfg)
}

// ExecuteStoreStatus prints the statement store status.
func ExecuteStoreStatus(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	status, err := GetStoreStatus(mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintStoreStatus(status, cfg)
}

// GetScoreResults runs the whole pipeline for the configured bundle and
// returns the report without printing it.
func GetScoreResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ScoreReport, time.Duration, error) {
	start := time.Now()

	lib, err := LoadLibrary(cfg)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	rules, err := LoadRules(cfg, lib)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	bundle, err := loadBundle(cfg, mgr)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogScoreHeader(cfg, bundle.Ticker, len(rules))
	}

	table, err := NewBuilder(lib, contract.Logger).Build(bundle, rules)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	report, err := BuildReport(lib, bundle.Ticker, cfg.Profile, table)
	if err != nil {
		return schema.ScoreReport{}, 0, err
	}
	return report, time.Since(start), nil
}

// NewCheckResult gates a report against a minimum percentage.
func NewCheckResult(report schema.ScoreReport, minScore float64) schema.CheckResult {
	return schema.CheckResult{
		Ticker:   report.Ticker,
		Profile:  report.Profile,
		Percent:  report.Percent,
		MinScore: minScore,
		Passed:   report.Percent >= minScore,
		Missing:  report.Missing,
	}
}

// LoadLibrary returns the configured metric library, or the built-in one.
func LoadLibrary(cfg *contract.Config) (*library.Library, error) {
	if cfg.MetricsPath == "" {
		return library.Default()
	}
	return library.LoadFile(cfg.MetricsPath)
}

// LoadRules loads the configured scoring profile and checks it against the library.
func LoadRules(cfg *contract.Config, lib *library.Library) ([]schema.ScoreRule, error) {
	rules, err := policy.LoadProfile(cfg.ProfilesDir, cfg.Profile)
	if err != nil {
		return nil, err
	}
	if err := policy.Validate(rules, lib); err != nil {
		return nil, err
	}
	return rules, nil
}
