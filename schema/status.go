package schema

import "time"

// StoreStatus represents the status of the statement store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
	Tickers         []string  `json:"tickers"`
}

// StoredBundle is a statement bundle read back from the store with its metadata.
type StoredBundle struct {
	Bundle    StatementBundle
	Version   int
	Timestamp time.Time
}
