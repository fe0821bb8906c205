package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global statement store. Only the first call has
// any effect; later calls return the first call's error.
// The none backend leaves the store unset so callers see it as disabled.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := openStore(backend, connStr)
		if err != nil {
			initErr = err
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.statements = store
	})
	return initErr
}

// openStore returns the statement store for a backend, or nil for the none backend.
func openStore(backend schema.DatabaseBackend, connStr string) (contract.StatementStore, error) {
	if backend == schema.NoneBackend {
		return nil, nil
	}
	store, err := NewStatementStore(statementTable, backend, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize statement store: %w", err)
	}
	return store, nil
}

// CloseStore should be called on application shutdown.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.statements != nil {
			_ = Manager.statements.Close()
			Manager.statements = nil
		}
	})
}

// ClearStore removes every stored bundle for the backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, statementTable, migrationsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropTables connects to the SQL database and drops each table if it exists.
func dropTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

