package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentFormat is the encoding of a configuration or bundle document.
type DocumentFormat string

// All document formats supported.
const (
	JSONDocument DocumentFormat = "json"
	YAMLDocument DocumentFormat = "yaml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONDocument, nil
	case ".yaml", ".yml":
		return YAMLDocument, nil
	default:
		return "", fmt.Errorf("%w: unsupported document extension for %q (want .json, .yaml or .yml)", ErrConfiguration, path)
	}
}

// EntryFunc receives one key of a top-level mapping and a function that decodes
// its value strictly (unknown fields are rejected).
type EntryFunc func(key string, decode func(v any) error) error

// DecodeOrdered walks the top-level mapping of a document in declared order.
// Duplicate keys are rejected. All errors wrap ErrConfiguration.
func DecodeOrdered(r io.Reader, format DocumentFormat, fn EntryFunc) error {
	var err error
	switch format {
	case YAMLDocument:
		err = decodeOrderedYAML(r, fn)
	case JSONDocument:
		err = decodeOrderedJSON(r, fn)
	default:
		return fmt.Errorf("%w: unsupported document format %q", ErrConfiguration, format)
	}
	if err != nil && !errors.Is(err, ErrConfiguration) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return err
}

func decodeOrderedJSON(r io.Reader, fn EntryFunc) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("malformed document: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be an object")
	}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("malformed document: %v", err)
		}
		key := tok.(string) // object keys are always strings
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("malformed value for %q: %v", key, err)
		}
		decode := func(v any) error {
			d := json.NewDecoder(bytes.NewReader(raw))
			d.DisallowUnknownFields()
			return d.Decode(v)
		}
		if err := fn(key, decode); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("malformed document: %v", err)
	}
	return nil
}

func decodeOrderedYAML(r io.Reader, fn EntryFunc) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("malformed document: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("document must be a mapping")
	}
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}

		value := root.Content[i+1]
		decode := func(v any) error {
			// Node.Decode ignores KnownFields, so round-trip through a strict decoder.
			raw, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			d := yaml.NewDecoder(bytes.NewReader(raw))
			d.KnownFields(true)
			return d.Decode(v)
		}
		if err := fn(key, decode); err != nil {
			return err
		}
	}
	return nil
}
