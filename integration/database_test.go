//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGitmineWithMySQL tests the gitmine CLI with a MySQL backend.
func TestGitmineWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitmine",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitmine?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("GITMINE_CACHE_BACKEND", "mysql")
	_ = os.Setenv("GITMINE_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("GITMINE_ANALYSIS_BACKEND", "mysql")
	_ = os.Setenv("GITMINE_ANALYSIS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("GITMINE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("GITMINE_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("GITMINE_ANALYSIS_BACKEND") }()
	defer func() { _ = os.Unsetenv("GITMINE_ANALYSIS_DB_CONNECT") }()

	// Run gitmine cache clear
	err = runGitmineCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run gitmine analysis clear
	err = runGitmineCommand(t, "analysis", "clear")
	require.NoError(t, err)

	// Run a tracked multi-report on the project itself
	err = runGitmineCommand(t, "report", "--reports", "files,authors", "--limit", "5", "--no-cloc")
	require.NoError(t, err)

	// Run gitmine cache status
	err = runGitmineCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run gitmine analysis status
	err = runGitmineCommand(t, "analysis", "status")
	require.NoError(t, err)
}

// TestGitmineWithPostgres tests the gitmine CLI with a PostgreSQL backend.
func TestGitmineWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("GITMINE_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("GITMINE_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("GITMINE_ANALYSIS_BACKEND", "postgresql")
	_ = os.Setenv("GITMINE_ANALYSIS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("GITMINE_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("GITMINE_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("GITMINE_ANALYSIS_BACKEND") }()
	defer func() { _ = os.Unsetenv("GITMINE_ANALYSIS_DB_CONNECT") }()

	// Run gitmine cache clear
	err = runGitmineCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run gitmine analysis clear
	err = runGitmineCommand(t, "analysis", "clear")
	require.NoError(t, err)

	// Run a tracked multi-report on the project itself
	err = runGitmineCommand(t, "report", "--reports", "files,authors", "--limit", "5", "--no-cloc")
	require.NoError(t, err)

	// Run gitmine cache status
	err = runGitmineCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run gitmine analysis status
	err = runGitmineCommand(t, "analysis", "status")
	require.NoError(t, err)
}

func runGitmineCommand(t *testing.T, args ...string) error {
	_, err := runGitmine(t, "..", args...)
	return err
}
