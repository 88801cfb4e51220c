package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations creates the read schema on a migration-only connection to
// dsn and releases it before returning.
func RunMigrations(driverName, dsn string, dialect Dialect) error {
	migrateDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	m, err := newMigrator(migrateDB, dialect)
	if err != nil {
		migrateDB.Close()
		return err
	}
	// Closing the migrator closes migrateDB and the connection the driver holds.
	defer m.Close()

	return up(m)
}

// RunMigrationsShared creates the read schema through db and leaves db open.
// Only for in-memory SQLite, where another handle would see another database.
func RunMigrationsShared(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	m, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}
	// m.Close is not called: it would close db.
	return up(m)
}

func newMigrator(db *sql.DB, dialect Dialect) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch dialect.Name {
	case DialectSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case DialectPostgres:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s driver: %w", dialect.Name, err)
	}

	d, err := iofs.New(migrationsFS, "migrations/"+dialect.Name)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, dialect.Name, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
