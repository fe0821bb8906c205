package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finscore/finscore/core"
	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/internal/iocache"
	"github.com/finscore/finscore/schema"
)

// storeAdminSetup loads only the store backend settings. It does NOT open the
// store, so clear and migrate can run against a missing or fresh database.
func storeAdminSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetup runs the full setup without a positional bundle, since store
// arguments are import paths.
func storeSetup(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

// storeCmd focused on statement store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the statement store used by --ticker",
	Long: `Manage the statement store that keeps imported bundles by ticker.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  import  - Import bundle documents
  status  - Show store statistics and stored tickers
  clear   - Remove all stored bundles
  migrate - Run database schema migrations

Examples:
  # Import two bundles, then score one by ticker
  finscore store import acme.json globex.yaml
  finscore score --ticker ACME`,
}

// storeImportCmd imports bundle documents into the store.
var storeImportCmd = &cobra.Command{
	Use:   "import <bundle-file>...",
	Short: "Import statement bundles into the store",
	Long: `Read each bundle document and store it under its normalized ticker.

A bundle imported again for the same ticker replaces the stored one.

Examples:
  finscore store import acme.json
  FINSCORE_STORE_BACKEND=postgresql FINSCORE_STORE_DB_CONNECT="..." finscore store import *.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteStoreImport(rootCtx, cfg, storeManager, args); err != nil {
			contract.LogFatal("Failed to import statements", err)
		}
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection status, number of stored bundles,
import timestamps, stored tickers and table size.

Examples:
  finscore store status
  finscore store status --output json`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored statement bundles",
	Long: `Delete every stored bundle from the configured backend.

For SQLite: Deletes the database file (--store-db-connect or ~/.finscore_store.db)
For MySQL/PostgreSQL: Drops the store and migration tables

WARNING: This action cannot be undone.`,
	PreRunE: storeAdminSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := cfg.StoreDBConnect
		if dbFile == "" {
			dbFile = contract.GetStoreDBFilePath()
		}
		if err := iocache.ClearStore(cfg.StoreBackend, dbFile, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Statement store cleared successfully.")
	},
}

// storeMigrateCmd runs schema migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run statement store schema migrations",
	Long: `Apply or roll back versioned schema migrations for the statement store.

Examples:
  # Migrate to the latest version
  finscore store migrate

  # Roll back everything
  finscore store migrate --target-version 0`,
	PreRunE: storeAdminSetup,
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
		if !result.Changed {
			fmt.Printf("Statement store already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Statement store migrated from version %d to %d.\n", result.From, result.To)
	},
}
