package contract

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/schema"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "valid minimal config",
			input: &ConfigRawInput{BundlePathStr: "aapl.json", Precision: 1},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.BundlePath))
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, DefaultProfile, cfg.Profile)
				assert.Equal(t, DefaultProfilesDir, cfg.ProfilesDir)
				assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
				assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
				assert.True(t, cfg.UseEmojis)
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name:  "ticker from store",
			input: &ConfigRawInput{Ticker: " msft ", Output: "JSON", Emoji: "no", Color: "0", LogLevel: "debug"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "MSFT", cfg.Ticker)
				assert.Empty(t, cfg.BundlePath)
				assert.Equal(t, schema.JSONOut, cfg.Output)
				assert.False(t, cfg.UseEmojis)
				assert.False(t, cfg.UseColors)
				assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
			},
		},
		{
			name:  "custom library and profile",
			input: &ConfigRawInput{Metrics: "lib.yaml", Profile: "strict", ProfilesDir: "profiles", MinScore: 70, All: true},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "lib.yaml", cfg.MetricsPath)
				assert.Equal(t, "strict", cfg.Profile)
				assert.Equal(t, "profiles", cfg.ProfilesDir)
				assert.Equal(t, 70.0, cfg.MinScore)
				assert.True(t, cfg.ShowAll)
			},
		},
		{name: "bundle and ticker", input: &ConfigRawInput{BundlePathStr: "a.json", Ticker: "A"}, expectError: true},
		{name: "unsupported bundle extension", input: &ConfigRawInput{BundlePathStr: "a.csv"}, expectError: true},
		{name: "unsupported library extension", input: &ConfigRawInput{Metrics: "lib.toml"}, expectError: true},
		{name: "profile path", input: &ConfigRawInput{Profile: "../etc/passwd"}, expectError: true},
		{name: "invalid output", input: &ConfigRawInput{Output: "xml"}, expectError: true},
		{name: "parquet without file", input: &ConfigRawInput{Output: "parquet"}, expectError: true},
		{name: "invalid precision", input: &ConfigRawInput{Precision: 9}, expectError: true},
		{name: "negative width", input: &ConfigRawInput{Width: -1}, expectError: true},
		{name: "invalid min score", input: &ConfigRawInput{MinScore: 120}, expectError: true},
		{name: "invalid emoji", input: &ConfigRawInput{Emoji: "maybe"}, expectError: true},
		{name: "invalid log level", input: &ConfigRawInput{LogLevel: "loud"}, expectError: true},
		{name: "invalid backend", input: &ConfigRawInput{StoreBackend: "redis"}, expectError: true},
		{name: "mysql without dsn", input: &ConfigRawInput{StoreBackend: "mysql"}, expectError: true},
		{
			name:  "postgresql with dsn",
			input: &ConfigRawInput{StoreBackend: "PostgreSQL", StoreDBConnect: "host=localhost dbname=finscore"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.StoreBackend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/finscore", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/finscore", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=finscore", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=finscore", true},
		{"postgres missing db", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessProfilingConfig(t *testing.T) {
	p := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(p, "run1"))
	assert.True(t, p.Enabled)
	assert.Equal(t, "run1", p.Prefix)

	require.NoError(t, ProcessProfilingConfig(p, ""))
	assert.False(t, p.Enabled)

	assert.Error(t, ProcessProfilingConfig(p, "out"+string(filepath.Separator)))
}

func TestClone(t *testing.T) {
	cfg := &Config{Profile: "default", MinScore: 60}
	clone := cfg.Clone()
	clone.Profile = "strict"
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, 60.0, clone.MinScore)
}
