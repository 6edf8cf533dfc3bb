package databaseProvider

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLProvider struct {
	db *sqlx.DB
}

// NewPostgresProvider connects to postgres and applies the snapshot migrations.
func NewPostgresProvider(connectionStr string) (*SQLProvider, error) {
	db, err := sqlx.Connect("postgres", connectionStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
	}
	if err := migrateUp(driver, "postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLProvider{db: db}, nil
}

// NewSQLiteProvider opens (or creates) the sqlite file at path and applies the
// snapshot migrations.
func NewSQLiteProvider(path string) (*SQLProvider, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY under the portal
	db.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}
	if err := migrateUp(driver, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLProvider{db: db}, nil
}

func (p *SQLProvider) DB() *sqlx.DB {
	return p.db
}

func (p *SQLProvider) Close() error {
	return p.db.Close()
}

func migrateUp(driver database.Driver, databaseName string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
