package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// currentBundleVersion defines the version of the stored bundle encoding
const currentBundleVersion = 1

// staleAfter is the age after which stored statements are reported as stale.
const staleAfter = 15 * 30 * 24 * time.Hour

// ErrStoreDisabled is returned when a bundle is requested by ticker but no
// statement store is configured.
var ErrStoreDisabled = errors.New("statement store is disabled")

// SaveBundle encodes a bundle and writes it to the store under its ticker.
func SaveBundle(store contract.StatementStore, bundle schema.StatementBundle, now time.Time) error {
	ticker := contract.NormalizeTicker(bundle.Ticker)
	if ticker == "" {
		return fmt.Errorf("bundle has no ticker")
	}
	bundle.Ticker = ticker
	var buf bytes.Buffer
	if err := schema.EncodeBundle(&buf, bundle); err != nil {
		return fmt.Errorf("failed to encode bundle for %s: %w", ticker, err)
	}
	return store.Set(ticker, buf.Bytes(), currentBundleVersion, now.Unix())
}

// LoadBundle reads the bundle stored for a ticker.
func LoadBundle(store contract.StatementStore, ticker string) (schema.StoredBundle, error) {
	ticker = contract.NormalizeTicker(ticker)
	data, version, ts, err := store.Get(ticker)
	if err != nil {
		return schema.StoredBundle{}, fmt.Errorf("no stored statements for %s: %w", ticker, err)
	}
	if version != currentBundleVersion {
		return schema.StoredBundle{}, fmt.Errorf("stored statements for %s use version %d, want %d (re-import them)", ticker, version, currentBundleVersion)
	}
	bundle, err := schema.DecodeBundleBytes(data, schema.JSONDocument)
	if err != nil {
		return schema.StoredBundle{}, fmt.Errorf("stored statements for %s are corrupt: %w", ticker, err)
	}
	return schema.StoredBundle{Bundle: bundle, Version: version, Timestamp: time.Unix(ts, 0)}, nil
}

// loadBundle resolves the configured bundle source: a document on disk or the
// statement store.
func loadBundle(cfg *contract.Config, mgr contract.StoreManager) (*schema.StatementBundle, error) {
	if cfg.BundlePath != "" {
		bundle, err := schema.ReadBundleFile(cfg.BundlePath)
		if err != nil {
			return nil, err
		}
		return &bundle, nil
	}
	if cfg.Ticker == "" {
		return nil, fmt.Errorf("a bundle file or --ticker is required")
	}
	var store contract.StatementStore
	if mgr != nil {
		store = mgr.GetStatementStore()
	}
	if store == nil {
		return nil, fmt.Errorf("%w: cannot read %s", ErrStoreDisabled, cfg.Ticker)
	}
	stored, err := LoadBundle(store, cfg.Ticker)
	if err != nil {
		return nil, err
	}
	if age := time.Since(stored.Timestamp); age > staleAfter {
		contract.Logger.Warn().
			Str("ticker", cfg.Ticker).
			Time("imported", stored.Timestamp).
			Msg("stored statements are stale")
	}
	return &stored.Bundle, nil
}

// ExecuteStoreImport reads bundle documents and writes each to the statement store.
func ExecuteStoreImport(_ context.Context, _ *contract.Config, mgr contract.StoreManager, paths []string) error {
	store := mgr.GetStatementStore()
	if store == nil {
		return ErrStoreDisabled
	}
	now := time.Now()
	for _, path := range paths {
		bundle, err := schema.ReadBundleFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := SaveBundle(store, bundle, now); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		contract.Logger.Info().
			Str("ticker", contract.NormalizeTicker(bundle.Ticker)).
			Str("path", path).
			Msg("statements imported")
	}
	return nil
}

// GetStoreStatus returns the store status with the list of stored tickers.
func GetStoreStatus(mgr contract.StoreManager) (schema.StoreStatus, error) {
	store := mgr.GetStatementStore()
	if store == nil {
		return schema.StoreStatus{Backend: string(schema.NoneBackend)}, nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return schema.StoreStatus{}, err
	}
	if status.Connected {
		tickers, err := store.List()
		if err != nil {
			return schema.StoreStatus{}, err
		}
		status.Tickers = tickers
	}
	return status, nil
}
