// Package library holds the metric library: the named formulas a scoring policy can refer to.
package library

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/finscore/finscore/core/formula"
	"github.com/finscore/finscore/schema"
)

//go:embed defaults/metrics.json
var defaultMetrics []byte

// Library is an immutable set of metric definitions with their compiled formulas.
// It is safe for concurrent use once loaded.
type Library struct {
	defs     map[string]schema.MetricDefinition
	formulas map[string]*formula.Expr
	order    []string
}

// entry is the document form of a definition; the id is the mapping key.
type entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Unit        string `json:"unit" yaml:"unit"`
	Format      string `json:"format" yaml:"format"`
	Formula     string `json:"formula" yaml:"formula"`
}

// Load reads a library document: a mapping of metric id to definition.
func Load(r io.Reader, format schema.DocumentFormat) (*Library, error) {
	lib := &Library{
		defs:     make(map[string]schema.MetricDefinition),
		formulas: make(map[string]*formula.Expr),
	}
	err := schema.DecodeOrdered(r, format, func(id string, decode func(any) error) error {
		var e entry
		if err := decode(&e); err != nil {
			return fmt.Errorf("%w: metric %q: %v", schema.ErrConfiguration, id, err)
		}
		def := schema.MetricDefinition{
			ID:          id,
			Name:        e.Name,
			Description: e.Description,
			Unit:        e.Unit,
			Format:      e.Format,
			Formula:     e.Formula,
		}
		return lib.add(def)
	})
	if err != nil {
		return nil, err
	}
	if len(lib.order) == 0 {
		return nil, fmt.Errorf("%w: metric library is empty", schema.ErrConfiguration)
	}
	return lib, nil
}

// LoadFile loads a library from a JSON or YAML file.
func LoadFile(path string) (*Library, error) {
	format, err := schema.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metric library: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, format)
}

// Default returns the built-in metric library.
func Default() (*Library, error) {
	return Load(bytes.NewReader(defaultMetrics), schema.JSONDocument)
}

// New builds a library from definitions, applying the same checks as Load.
func New(defs ...schema.MetricDefinition) (*Library, error) {
	lib := &Library{
		defs:     make(map[string]schema.MetricDefinition, len(defs)),
		formulas: make(map[string]*formula.Expr, len(defs)),
	}
	for _, def := range defs {
		if err := lib.add(def); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *Library) add(def schema.MetricDefinition) error {
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("%w: metric id is empty", schema.ErrConfiguration)
	}
	if _, dup := l.defs[def.ID]; dup {
		return fmt.Errorf("%w: duplicate metric %q", schema.ErrConfiguration, def.ID)
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: metric %q has no name", schema.ErrConfiguration, def.ID)
	}
	if strings.TrimSpace(def.Formula) == "" {
		return fmt.Errorf("%w: metric %q has no formula", schema.ErrConfiguration, def.ID)
	}
	if err := ValidateFormat(def.Format); err != nil {
		return fmt.Errorf("metric %q: %w", def.ID, err)
	}
	expr, err := formula.Parse(def.Formula)
	if err != nil {
		return fmt.Errorf("metric %q: %w", def.ID, err)
	}
	l.defs[def.ID] = def
	l.formulas[def.ID] = expr
	l.order = append(l.order, def.ID)
	return nil
}

// ValidateFormat checks that a display format renders exactly one float.
func ValidateFormat(format string) error {
	if format == "" {
		return fmt.Errorf("%w: display format is empty", schema.ErrConfiguration)
	}
	if out := fmt.Sprintf(format, 1.5); strings.Contains(out, "%!") {
		return fmt.Errorf("%w: display format %q must contain exactly one float verb", schema.ErrConfiguration, format)
	}
	return nil
}

// Get returns the definition for a metric id.
func (l *Library) Get(id string) (schema.MetricDefinition, error) {
	def, ok := l.defs[id]
	if !ok {
		return schema.MetricDefinition{}, fmt.Errorf("%w: %q", schema.ErrUnknownMetric, id)
	}
	return def, nil
}

// Formula returns the compiled formula for a metric id.
func (l *Library) Formula(id string) (*formula.Expr, error) {
	expr, ok := l.formulas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownMetric, id)
	}
	return expr, nil
}

// Has reports whether the library defines a metric id.
func (l *Library) Has(id string) bool {
	_, ok := l.defs[id]
	return ok
}

// IDs returns all metric ids in sorted order.
func (l *Library) IDs() []string {
	ids := slices.Clone(l.order)
	slices.Sort(ids)
	return ids
}

// All returns every definition in declared order.
func (l *Library) All() []schema.MetricDefinition {
	out := make([]schema.MetricDefinition, len(l.order))
	for i, id := range l.order {
		out[i] = l.defs[id]
	}
	return out
}

// Len returns the number of metrics.
func (l *Library) Len() int {
	return len(l.order)
}
