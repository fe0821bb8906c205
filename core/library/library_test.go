package library

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscore/finscore/schema"
)

func TestDefault(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 14, lib.Len())

	def, err := lib.Get("revenue_growth")
	require.NoError(t, err)
	assert.Equal(t, "Revenue Growth", def.Name)
	assert.Equal(t, "%.1f%%", def.Format)

	expr, err := lib.Formula("roe")
	require.NoError(t, err)
	assert.Equal(t, []schema.TableName{schema.BalanceTable, schema.IncomeTable}, expr.Tables())

	ids := lib.IDs()
	assert.IsIncreasing(t, ids)
	assert.Equal(t, "revenue_growth", lib.All()[0].ID)
}

func TestGetUnknown(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	_, err = lib.Get("nope")
	assert.ErrorIs(t, err, schema.ErrUnknownMetric)
	_, err = lib.Formula("nope")
	assert.ErrorIs(t, err, schema.ErrUnknownMetric)
	assert.False(t, lib.Has("nope"))
	assert.True(t, lib.Has("roe"))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		format  schema.DocumentFormat
		ids     []string
		wantErr bool
	}{
		{
			name:   "json keeps declared order",
			format: schema.JSONDocument,
			doc: `{
				"b": {"name": "B", "format": "%.1f", "formula": "income[\"X\"]"},
				"a": {"name": "A", "format": "%.2f", "formula": "balance[\"Y\"]"}
			}`,
			ids: []string{"b", "a"},
		},
		{
			name:   "yaml",
			format: schema.YAMLDocument,
			doc: "revenue_growth:\n" +
				"  name: Revenue Growth\n" +
				"  unit: \"%\"\n" +
				"  format: \"%.1f%%\"\n" +
				"  formula: pct_change(income[\"Total Revenue\"])\n",
			ids: []string{"revenue_growth"},
		},
		{name: "empty", format: schema.JSONDocument, doc: `{}`, wantErr: true},
		{name: "not an object", format: schema.JSONDocument, doc: `[]`, wantErr: true},
		{name: "malformed json", format: schema.JSONDocument, doc: `{"a": `, wantErr: true},
		{
			name:    "unknown field",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "%.1f", "formula": "income[\"X\"]", "extra": 1}}`,
			wantErr: true,
		},
		{
			name:    "unknown yaml field",
			format:  schema.YAMLDocument,
			doc:     "a:\n  name: A\n  format: \"%.1f\"\n  formula: income[\"X\"]\n  colour: red\n",
			wantErr: true,
		},
		{
			name:    "duplicate id",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "%.1f", "formula": "income[\"X\"]"}, "a": {"name": "A", "format": "%.1f", "formula": "income[\"X\"]"}}`,
			wantErr: true,
		},
		{
			name:    "missing name",
			format:  schema.JSONDocument,
			doc:     `{"a": {"format": "%.1f", "formula": "income[\"X\"]"}}`,
			wantErr: true,
		},
		{
			name:    "missing formula",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "%.1f"}}`,
			wantErr: true,
		},
		{
			name:    "unsafe formula",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "%.1f", "formula": "os.Remove(\"x\")"}}`,
			wantErr: true,
		},
		{
			name:    "format without verb",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "percent", "formula": "income[\"X\"]"}}`,
			wantErr: true,
		},
		{
			name:    "format with two verbs",
			format:  schema.JSONDocument,
			doc:     `{"a": {"name": "A", "format": "%.1f %.1f", "formula": "income[\"X\"]"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Load(strings.NewReader(tt.doc), tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, schema.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, def := range lib.All() {
				ids = append(ids, def.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.yml")
	doc := "margin:\n  name: Margin\n  format: \"%.1f%%\"\n  formula: income[\"Net Income\"] / income[\"Total Revenue\"] * 100\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	lib, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"margin"}, lib.IDs())

	_, err = LoadFile(filepath.Join(dir, "metrics.toml"))
	assert.ErrorIs(t, err, schema.ErrConfiguration)

	_, err = LoadFile(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	lib, err := New(schema.MetricDefinition{ID: "x", Name: "X", Format: "%.0f", Formula: `income["X"]`})
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())

	_, err = New(schema.MetricDefinition{Name: "X", Format: "%.0f", Formula: `income["X"]`})
	assert.ErrorIs(t, err, schema.ErrConfiguration)
}

func TestConcurrentReaders(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for _, id := range lib.IDs() {
				_, err := lib.Get(id)
				assert.NoError(t, err)
			}
		})
	}
	wg.Wait()
}
