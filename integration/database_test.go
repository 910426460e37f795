//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestLocvizWithMySQL tests the locviz CLI with a MySQL backend.
func TestLocvizWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "locviz",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/locviz?parseTime=true", host, port.Port())
	exerciseBackends(t, "mysql", connStr)
}

// TestLocvizWithPostgres tests the locviz CLI with a PostgreSQL backend.
func TestLocvizWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
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

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackends(t, "postgresql", connStr)
}

// exerciseBackends runs a full load cycle with both the cache and the run store on one server.
func exerciseBackends(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	env := []string{
		"LOCVIZ_CACHE_BACKEND=" + backend,
		"LOCVIZ_CACHE_DB_CONNECT=" + connStr,
		"LOCVIZ_RUNS_BACKEND=" + backend,
		"LOCVIZ_RUNS_DB_CONNECT=" + connStr,
	}

	// Generate a synthetic change log to load
	_, _, err := runLocviz(t, dir, env, "generate", "--example", "--example-commits", "25", "--output", "csv", "--output-file", "loc.csv")
	require.NoError(t, err)

	_, _, err = runLocviz(t, dir, env, "cache", "clear")
	require.NoError(t, err)
	_, _, err = runLocviz(t, dir, env, "runs", "clear")
	require.NoError(t, err)
	_, _, err = runLocviz(t, dir, env, "runs", "migrate")
	require.NoError(t, err)

	// The first load parses, the second is served from cache
	_, stderr, err := runLocviz(t, dir, env, "stats", "loc.csv", "--fallback", "no")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "(cached)")

	_, stderr, err = runLocviz(t, dir, env, "stats", "loc.csv", "--fallback", "no")
	require.NoError(t, err)
	assert.Contains(t, stderr, "(cached)")

	stdout, _, err := runLocviz(t, dir, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, backend)

	stdout, _, err = runLocviz(t, dir, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2")

	_, _, err = runLocviz(t, dir, env, "runs", "export", "--output-file", "history")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "history.runs.parquet"))
	assert.NoError(t, err)
}
