// Package database opens the session database (PostgreSQL or SQLite) and
// applies the embedded schema migrations.
package database

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	_ "modernc.org/sqlite"             // Register pure-Go sqlite driver for database/sql
)

//go:embed migrations
var migrationsFS embed.FS

// DriverName selects the database backend.
type DriverName string

const (
	DriverPostgres DriverName = "postgres"
	DriverSQLite   DriverName = "sqlite"
)

// IsValid reports whether the driver is supported.
func (d DriverName) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// Dialect returns the ent SQL dialect for the driver.
func (d DriverName) Dialect() string {
	if d == DriverSQLite {
		return dialect.SQLite
	}
	return dialect.Postgres
}

// Config holds database configuration
type Config struct {
	Driver DriverName

	// PostgreSQL
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// SQLite database file
	SQLitePath string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Client wraps the database handle together with the ent SQL driver used
// to build dialect-specific queries.
type Client struct {
	db     *stdsql.DB
	driver *entsql.Driver
	name   DriverName
}

// DB returns the underlying database connection for health checks and direct queries
func (c *Client) DB() *stdsql.DB {
	return c.db
}

// Dialect returns the ent dialect name ("postgres" or "sqlite3").
func (c *Client) Dialect() string {
	return c.driver.Dialect()
}

// DriverName returns the configured backend.
func (c *Client) DriverName() DriverName {
	return c.name
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.driver.Close()
}

// NewClientFromDB wraps an existing, already migrated connection (useful for testing).
func NewClientFromDB(db *stdsql.DB, name DriverName) *Client {
	return &Client{
		db:     db,
		driver: entsql.OpenDB(name.Dialect(), db),
		name:   name,
	}
}

// NewClient creates a new database client with connection pooling and migrations
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if !cfg.Driver.IsValid() {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := NewClientFromDB(db, cfg.Driver)

	if err := Migrate(ctx, client, cfg.Database); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return client, nil
}

func open(cfg Config) (*stdsql.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		db, err := stdsql.Open("sqlite", SQLiteDSN(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite allows one writer; serializing connections avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		// Build pgx-compatible connection string
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)
		db, err := stdsql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
		return db, nil
	}
}

// SQLiteDSN builds a modernc.org/sqlite DSN with WAL and a busy timeout.
// Times are written in SQLite's sortable text format.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// Migrate applies all pending embedded migrations for the client's backend.
func Migrate(_ context.Context, client *Client, databaseName string) error {
	dir := "migrations/" + string(client.name)

	hasMigrations, err := hasEmbeddedMigrations(dir)
	if err != nil {
		return fmt.Errorf("failed to check embedded migrations: %w", err)
	}
	if !hasMigrations {
		return fmt.Errorf("no embedded migration files found in %s", dir)
	}

	var driver migratedb.Driver
	switch client.name {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(client.db, &sqlite.Config{})
	default:
		driver, err = postgres.WithInstance(client.db, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", client.name, err)
	}

	// Create source from embedded FS
	sourceDriver, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Apply all pending migrations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Close only the source driver: m.Close() would also close the shared *sql.DB.
	if err := sourceDriver.Close(); err != nil {
		return fmt.Errorf("failed to close migration source: %w", err)
	}
	return nil
}

// hasEmbeddedMigrations checks if the embedded dir contains any .sql migration files
func hasEmbeddedMigrations(dir string) (bool, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			return true, nil
		}
	}
	return false, nil
}
