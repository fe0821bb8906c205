package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/finscore/finscore/schema"
)

// Result label constants.
const (
	PassValue    = "Pass"    // PassValue marks a record whose rule holds
	FailValue    = "Fail"    // FailValue marks a record whose rule does not hold
	MissingValue = "Missing" // MissingValue marks a metric without data
)

// Color variables for console output.
var (
	PassColor    = color.New(color.FgGreen)            // PassColor represents a satisfied rule.
	FailColor    = color.New(color.FgRed, color.Bold)  // FailColor represents standard danger.
	MissingColor = color.New(color.FgYellow)           // MissingColor represents standard caution.
	InfoColor    = color.New(color.FgCyan, color.Bold) // InfoColor highlights totals and headings.
)

// GetPlainLabel returns a plain text label for a record score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	if score == 0 {
		return FailValue
	}
	return PassValue
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)
	if text == FailValue {
		return FailColor.Sprint(text)
	}
	return PassColor.Sprint(text)
}

// GetGlyph returns the pass/fail glyph, or the plain label when emojis are disabled.
func GetGlyph(score float64, useEmojis bool) string {
	if useEmojis {
		return schema.Glyph(score)
	}
	return GetPlainLabel(score)
}

// GetPercentColor returns the color for a total score percentage relative to a minimum.
func GetPercentColor(percent, minimum float64) *color.Color {
	switch {
	case percent < minimum:
		return FailColor
	case percent < minimum+10:
		return MissingColor
	default:
		return PassColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the statement store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".finscore_store.db"
	}
	return filepath.Join(homeDir, ".finscore_store.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
