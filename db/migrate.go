package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations of backend to the database at dsn.
// It uses its own connection because closing a migrate instance closes the underlying *sql.DB.
func RunMigrations(backend, dsn string) error {
	var driverName, databaseName, dir string
	switch backend {
	case BackendPostgres:
		driverName, databaseName, dir = "pgx", "pgx5", "migrations/postgres"
	case BackendSQLite:
		driverName, databaseName, dir = "sqlite", "sqlite", "migrations/sqlite"
	default:
		return fmt.Errorf("unsupported migration backend %q", backend)
	}

	migrateDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var driver migratedb.Driver
	if backend == BackendPostgres {
		driver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	} else {
		driver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", backend, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseName, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
