// Package db opens the SQLite database that backs persisted booking drafts.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connection defaults appended to every DSN unless the caller set them.
var dsnDefaults = []struct{ key, value string }{
	{"_fk", "1"},
	{"_busy_timeout", "5000"},
	{"_journal_mode", "WAL"},
}

type DB struct {
	*sql.DB
}

// New opens the SQLite database at dataSourceName and brings its schema up to
// the latest embedded migration.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", withDSNDefaults(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; concurrent draft saves queue on busy_timeout.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	version, err := migrateUp(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	log.Debug().Uint("schema_version", version).Msg("Draft database ready")

	return &DB{DB: sqlDB}, nil
}

// NewFromConfig opens the SQLite file named in cfg, creating its directory
// first.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return New(cfg.Database.Filename)
}

func withDSNDefaults(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, opt := range dsnDefaults {
		if strings.Contains(dsn, opt.key+"=") {
			continue
		}
		b.WriteString(sep + opt.key + "=" + opt.value)
		sep = "&"
	}
	return b.String()
}

// MigrationSource returns the migrations compiled into the binary.
func MigrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return src, nil
}

// migrateUp applies pending migrations and returns the resulting version.
func migrateUp(sqlDB *sql.DB) (uint, error) {
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return 0, fmt.Errorf("create migrate driver: %w", err)
	}
	src, err := MigrationSource()
	if err != nil {
		return 0, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
