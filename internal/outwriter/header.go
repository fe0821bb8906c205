package outwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finscore/finscore/internal/contract"
)

// LogScoreHeader prints a concise, 2-line header for a scoring run on stderr.
func LogScoreHeader(cfg *contract.Config, ticker string, ruleCount int) {
	source := "store"
	if cfg.BundlePath != "" {
		source = filepath.Base(cfg.BundlePath)
	}
	if ticker == "" {
		ticker = "unknown"
	}
	fmt.Fprintf(os.Stderr, "🔎 Ticker: %s (Source: %s)\n", ticker, source)
	fmt.Fprintf(os.Stderr, "📋 Profile: %s (%d rules)\n", cfg.Profile, ruleCount)
}
