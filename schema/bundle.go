package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PeriodLayout is the date layout of period keys in bundle documents.
const PeriodLayout = "2006-01-02"

// bundleDocument is the on-disk form of a StatementBundle.
// Null line items (unreported values) are dropped on decode.
type bundleDocument struct {
	Ticker     string                         `json:"ticker" yaml:"ticker"`
	Currency   string                         `json:"currency,omitempty" yaml:"currency,omitempty"`
	Balance    map[string]map[string]*float64 `json:"balance,omitempty" yaml:"balance,omitempty"`
	Income     map[string]map[string]*float64 `json:"income,omitempty" yaml:"income,omitempty"`
	Cashflow   map[string]map[string]*float64 `json:"cashflow,omitempty" yaml:"cashflow,omitempty"`
	Financials map[string]map[string]*float64 `json:"financials,omitempty" yaml:"financials,omitempty"`
}

// DecodeBundle reads a statement bundle document in the given format.
func DecodeBundle(r io.Reader, format DocumentFormat) (StatementBundle, error) {
	var doc bundleDocument
	switch format {
	case YAMLDocument:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return StatementBundle{}, fmt.Errorf("failed to decode YAML bundle: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return StatementBundle{}, fmt.Errorf("failed to decode JSON bundle: %w", err)
		}
	}

	bundle := StatementBundle{Ticker: doc.Ticker, Currency: doc.Currency}
	tables := []struct {
		name TableName
		raw  map[string]map[string]*float64
		dst  *Table
	}{
		{BalanceTable, doc.Balance, &bundle.Balance},
		{IncomeTable, doc.Income, &bundle.Income},
		{CashflowTable, doc.Cashflow, &bundle.Cashflow},
		{FinancialsTable, doc.Financials, &bundle.Financials},
	}
	for _, t := range tables {
		table, err := decodeTable(t.raw)
		if err != nil {
			return StatementBundle{}, fmt.Errorf("%s table: %w", t.name, err)
		}
		*t.dst = table
	}
	return bundle, nil
}

// DecodeBundleBytes is DecodeBundle over a byte slice.
func DecodeBundleBytes(data []byte, format DocumentFormat) (StatementBundle, error) {
	return DecodeBundle(bytes.NewReader(data), format)
}

// ReadBundleFile loads a statement bundle from a JSON or YAML file.
func ReadBundleFile(path string) (StatementBundle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return StatementBundle{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return StatementBundle{}, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeBundle(f, format)
}

// EncodeBundle writes the bundle as an indented JSON document.
func EncodeBundle(w io.Writer, b StatementBundle) error {
	doc := bundleDocument{
		Ticker:     b.Ticker,
		Currency:   b.Currency,
		Balance:    encodeTable(b.Balance),
		Income:     encodeTable(b.Income),
		Cashflow:   encodeTable(b.Cashflow),
		Financials: encodeTable(b.Financials),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// decodeTable parses period keys and drops null line items.
func decodeTable(raw map[string]map[string]*float64) (Table, error) {
	table := make(Table, len(raw))
	for key, items := range raw {
		period, err := ParsePeriod(key)
		if err != nil {
			return nil, err
		}
		row := make(Row, len(items))
		for name, v := range items {
			if v != nil {
				row[name] = *v
			}
		}
		table[period] = row
	}
	return table, nil
}

func encodeTable(t Table) map[string]map[string]*float64 {
	if len(t) == 0 {
		return nil
	}
	raw := make(map[string]map[string]*float64, len(t))
	for period, row := range t {
		items := make(map[string]*float64, len(row))
		for name, v := range row {
			items[name] = &v
		}
		raw[period.Format(PeriodLayout)] = items
	}
	return raw
}

// ParsePeriod parses a period key, accepting a plain date or an RFC3339 timestamp,
// and normalizes it to midnight UTC.
func ParsePeriod(key string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, key)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, key)
		if tsErr != nil {
			return time.Time{}, fmt.Errorf("invalid period %q: expected YYYY-MM-DD", key)
		}
		t = ts
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
