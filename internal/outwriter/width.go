package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/finscore/finscore/internal/contract"
)

// Bounds for the free-text column of a table.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// GetMaxTableTextWidth returns the width available to the widest free-text
// column of a table (metric names, formulas) given the terminal width.
// fixedWidth is the space taken by the other columns.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width
	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for borders, separators, and padding
	available := termWidth - fixedWidth - 20
	return max(minTextWidth, min(available, maxTextWidth))
}
