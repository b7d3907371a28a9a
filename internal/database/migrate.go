package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// withMigrate runs fn against a migrate instance bound to a dedicated
// connection. The connection goes back to the pool when fn returns.
func withMigrate(ctx context.Context, db *sql.DB, fn func(*migrate.Migrate) error) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	defer func() { _ = source.Close() }()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	return fn(m)
}

// MigrateUp applies all pending migrations. Nothing to apply is not an error.
func MigrateUp(ctx context.Context, db *sql.DB, log logger.Logger) error {
	return withMigrate(ctx, db, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Info("No pending migrations")
				return nil
			}
			return fmt.Errorf("run migrations: %w", err)
		}

		log.Info("Migrations applied successfully")
		return nil
	})
}

// MigrateDown rolls back every migration.
func MigrateDown(ctx context.Context, db *sql.DB, log logger.Logger) error {
	return withMigrate(ctx, db, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Info("No migrations to roll back")
				return nil
			}
			return fmt.Errorf("roll back migrations: %w", err)
		}

		log.Info("Migrations rolled back")
		return nil
	})
}
