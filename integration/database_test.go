//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/finscore/finscore/schema"
)

// TestStoreWithMySQL tests the store commands with a MySQL backend.
func TestStoreWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "finscore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/finscore?parseTime=true", host, port.Port())
	runStoreScenario(t, []string{
		"FINSCORE_STORE_BACKEND=mysql",
		"FINSCORE_STORE_DB_CONNECT=" + connStr,
	})
}

// TestStoreWithPostgres tests the store commands with a PostgreSQL backend.
func TestStoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runStoreScenario(t, []string{
		"FINSCORE_STORE_BACKEND=postgresql",
		"FINSCORE_STORE_DB_CONNECT=" + connStr,
	})
}

// runStoreScenario clears, migrates, imports, inspects and scores against one backend.
func runStoreScenario(t *testing.T, env []string) {
	_, err := runCommand(t, env, "store", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, env, "store", "migrate")
	require.NoError(t, err)

	_, err = runCommand(t, env, "store", "import", "core/testdata/acme.json")
	require.NoError(t, err)

	// A second import of the same ticker replaces the stored bundle.
	_, err = runCommand(t, env, "store", "import", "core/testdata/acme.json")
	require.NoError(t, err)

	out, err := runCommand(t, env, "store", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.StoreStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalEntries)
	assert.Equal(t, []string{"ACME"}, status.Tickers)

	out, err = runCommand(t, env, "score", "--ticker", "ACME", "--output", "json")
	require.NoError(t, err)
	var report schema.ScoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.InDelta(t, 18.0, report.Total, 1e-9)

	_, err = runCommand(t, env, "store", "clear")
	require.NoError(t, err)
}
