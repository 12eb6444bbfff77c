package database

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newSQLiteClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), Config{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_SQLite(t *testing.T) {
	client := newSQLiteClient(t)
	ctx := context.Background()

	assert.Equal(t, DriverSQLite, client.DriverName())
	assert.Equal(t, "sqlite3", client.Dialect())

	var count int
	err := client.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "sqlite", health.Driver)
	assert.Equal(t, 1, health.MaxOpenConns)
}

func TestMigrate_Idempotent(t *testing.T) {
	client := newSQLiteClient(t)
	require.NoError(t, Migrate(context.Background(), client, ""))
}

func TestNewClient_UnsupportedDriver(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Driver: "mysql"})
	assert.Error(t, err)
}

func TestHealth_Closed(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "closed.db"),
	})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	health, err := client.Health(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "unhealthy", health.Status)
}

func TestHasEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/sqlite"} {
		ok, err := hasEmbeddedMigrations(dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}
	ok, err := hasEmbeddedMigrations("migrations/mysql")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN("/tmp/x.db")
	assert.Contains(t, dsn, "file:/tmp/x.db?")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
	assert.Contains(t, dsn, "_time_format=sqlite")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"DB_DRIVER", "DB_PORT", "DB_HOST", "DB_NAME", "DB_SQLITE_PATH"} {
			t.Setenv(k, "")
		}
		cfg, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.Driver)
		assert.Equal(t, 5432, cfg.Port)
		assert.Equal(t, "ventureforge", cfg.Database)
		assert.Equal(t, "ventureforge.db", cfg.SQLitePath)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("DB_SQLITE_PATH", "/data/vf.db")
		cfg, err := LoadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, "/data/vf.db", cfg.SQLitePath)
	})

	t.Run("invalid driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := LoadConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "")
		t.Setenv("DB_PORT", "abc")
		_, err := LoadConfigFromEnv()
		assert.Error(t, err)
	})
}

// NewPostgresTestConfig starts a PostgreSQL container, or uses the server
// named by CI_DATABASE_* variables in CI. Skips when neither is available.
func newPostgresTestConfig(t *testing.T) Config {
	t.Helper()
	ctx := context.Background()

	if host := os.Getenv("CI_DATABASE_HOST"); host != "" {
		port, err := strconv.Atoi(getEnvOrDefault("CI_DATABASE_PORT", "5432"))
		require.NoError(t, err)
		return Config{
			Driver: DriverPostgres, Host: host, Port: port,
			User: "test", Password: "test", Database: "test", SSLMode: "disable",
			MaxOpenConns: 5, MaxIdleConns: 2,
		}
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	mapped, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return Config{
		Driver: DriverPostgres, Host: host, Port: mapped.Int(),
		User: "test", Password: "test", Database: "test", SSLMode: "disable",
		MaxOpenConns: 5, MaxIdleConns: 2,
	}
}

func TestNewClient_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	cfg := newPostgresTestConfig(t)
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "postgres", client.Dialect())
	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	// Re-running migrations is a no-op.
	require.NoError(t, Migrate(ctx, client, cfg.Database))
}
