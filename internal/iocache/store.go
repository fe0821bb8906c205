package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// statementTable is the name of the table holding encoded bundles.
const statementTable = "statement_store"

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// StatementStoreImpl stores encoded statement bundles keyed by ticker.
type StatementStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.StatementStore = &StatementStoreImpl{} // Compile-time check

// NewStatementStore opens the store for a backend and creates its table if needed.
// The none backend returns a store that holds nothing.
func NewStatementStore(tableName string, backend schema.DatabaseBackend, connStr string) (*StatementStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &StatementStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s statement store: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &StatementStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// driverFor returns the database/sql driver name and DSN for a backend.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetStoreDBFilePath()
		}
		return "sqlite", connStr, nil
	case schema.MySQLBackend:
		// user:password@tcp(host:port)/dbname
		return "mysql", connStr, nil
	case schema.PostgreSQLBackend:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				ticker VARCHAR(32) PRIMARY KEY,
				payload LONGBLOB NOT NULL,
				payload_version INT NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				ticker TEXT PRIMARY KEY,
				payload BYTEA NOT NULL,
				payload_version INTEGER NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				ticker TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				payload_version INTEGER NOT NULL,
				imported_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// Get retrieves the stored bundle for a ticker.
func (s *StatementStoreImpl) Get(ticker string) ([]byte, int, int64, error) {
	if s.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64
	query := fmt.Sprintf(`SELECT payload, payload_version, imported_at FROM %s WHERE ticker = %s`,
		quoteTableName(s.tableName, s.backend), s.getPlaceholder())
	if err := s.db.QueryRow(query, ticker).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the stored bundle for a ticker.
func (s *StatementStoreImpl) Set(ticker string, value []byte, version int, timestamp int64) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(s.getUpsertQuery(), ticker, value, version, timestamp)
	return err
}

// List returns every stored ticker in alphabetical order.
func (s *StatementStoreImpl) List() ([]string, error) {
	if s.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT ticker FROM %s ORDER BY ticker`, quoteTableName(s.tableName, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

// getPlaceholder returns the parameter placeholder for the backend.
func (s *StatementStoreImpl) getPlaceholder() string {
	if s.backend == schema.PostgreSQLBackend {
		return "$1"
	}
	return "?"
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *StatementStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (ticker, payload, payload_version, imported_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, payload_version = new.payload_version, imported_at = new.imported_at`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (ticker, payload, payload_version, imported_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (ticker) DO UPDATE SET payload = EXCLUDED.payload, payload_version = EXCLUDED.payload_version, imported_at = EXCLUDED.imported_at`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (ticker, payload, payload_version, imported_at) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Close closes the underlying DB connection.
func (s *StatementStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the statement store.
func (s *StatementStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	quoted := quoteTableName(s.tableName, s.backend)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(imported_at), MIN(imported_at) FROM %s", quoted)
	if err := s.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.TableSizeBytes = s.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize estimates the table size in bytes, falling back to a rough
// per-row estimate when the backend cannot report it.
func (s *StatementStoreImpl) tableSize(rows int) int64 {
	estimate := int64(rows) * 4096
	var size int64
	switch s.backend {
	case schema.SQLiteBackend:
		if err := s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
		return size
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		query := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := s.db.QueryRow(query, cfg.DBName, s.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	default:
		return estimate
	}
}

// validateTableName checks that a table name is a plain SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
