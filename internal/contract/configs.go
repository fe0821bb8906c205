package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/finscore/finscore/schema"
)

// Default values for configuration.
const (
	DefaultProfile     = "default"
	DefaultPrecision   = 1
	MaxPrecision       = 4
	DefaultMinScore    = 50.0
	DefaultProfilesDir = "."
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for scoring.
// This struct remains the "final, validated" config.
type Config struct {
	BundlePath  string // Statement bundle document, empty when reading from the store
	Ticker      string // Ticker to read from the statement store
	MetricsPath string // Metric library document, empty for the built-in library
	Profile     string
	ProfilesDir string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int  // Terminal width override (0 = auto-detect)
	ShowAll    bool // Show every record instead of failing records only
	MinScore   float64

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel zerolog.Level

	UseEmojis bool // Enable pass/fail glyphs in output
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	BundlePathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Metrics        string `mapstructure:"metrics"`
	Profile        string `mapstructure:"profile"`
	ProfilesDir    string `mapstructure:"profiles-dir"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	LogLevel       string `mapstructure:"log-level"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from scoreCmd.Flags() ---
	Ticker string `mapstructure:"ticker"`
	All    bool   `mapstructure:"all"`

	// --- Fields from checkCmd.Flags() ---
	MinScore float64 `mapstructure:"min-score"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := resolveSources(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the statement store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.StoreBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ShowAll = input.All

	emojis, err := ParseBoolString(defaultString(input.Emoji, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	// --- 2. Check threshold ---
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %g)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- 3. Logging ---
	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = level

	return nil
}

// resolveSources resolves the bundle, library and policy locations.
func resolveSources(cfg *Config, input *ConfigRawInput) error {
	cfg.Ticker = NormalizeTicker(input.Ticker)
	cfg.BundlePath = strings.TrimSpace(input.BundlePathStr)
	if cfg.BundlePath != "" && cfg.Ticker != "" {
		return fmt.Errorf("specify either a bundle file or --ticker, not both")
	}
	if cfg.BundlePath != "" {
		if _, err := schema.FormatFromPath(cfg.BundlePath); err != nil {
			return err
		}
		abs, err := filepath.Abs(cfg.BundlePath)
		if err != nil {
			return fmt.Errorf("failed to resolve bundle path %q: %w", cfg.BundlePath, err)
		}
		cfg.BundlePath = abs
	}

	cfg.MetricsPath = strings.TrimSpace(input.Metrics)
	if cfg.MetricsPath != "" {
		if _, err := schema.FormatFromPath(cfg.MetricsPath); err != nil {
			return err
		}
	}

	cfg.Profile = defaultString(strings.TrimSpace(input.Profile), DefaultProfile)
	if strings.ContainsAny(cfg.Profile, `/\`) {
		return fmt.Errorf("profile must be a name, not a path (received %q)", cfg.Profile)
	}
	cfg.ProfilesDir = defaultString(strings.TrimSpace(input.ProfilesDir), DefaultProfilesDir)
	return nil
}

// ProcessProfilingConfig sets profiling state from a file prefix. An empty prefix disables profiling.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		profile.Enabled = false
		profile.Prefix = ""
		return nil
	}
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		return fmt.Errorf("pprof prefix must not be a directory: %q", prefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
