package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult describes what a migration call changed.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// MigrateRuns runs database migrations for the run store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func MigrateRuns(backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	var result MigrationResult
	if backend == schema.NoneBackend || backend == schema.BoltBackend {
		return result, fmt.Errorf("migrations are not supported for %s backend", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return result, err
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		_ = db.Close()
		return result, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "locviz", driver)
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	result.From = current

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		result.To = current
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to migrate from version %d: %w", current, err)
	}

	result.Changed = true
	if targetVersion == 0 {
		return result, nil
	}
	if v, _, verr := m.Version(); verr == nil {
		result.To = v
	}
	return result, nil
}

// String renders the result the way the runs command prints it.
func (r MigrationResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("No migration needed. Database is already at version %d.", r.To)
	}
	return fmt.Sprintf("Successfully migrated from version %d to version %d", r.From, r.To)
}
