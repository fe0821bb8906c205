// Package contract provides interfaces and shared utilities for the finscore CLI's internal architecture.
package contract

import "github.com/finscore/finscore/schema"

// StoreManager defines the interface for managing the statement store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetStatementStore() StatementStore
}

// StatementStore defines the interface for statement bundle storage.
// Payloads are encoded bundles keyed by ticker.
type StatementStore interface {
	Get(ticker string) ([]byte, int, int64, error)
	Set(ticker string, value []byte, version int, timestamp int64) error
	List() ([]string, error)
	GetStatus() (schema.StoreStatus, error)
	Close() error
}
