package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/config"
	"github.com/ksnll/mithrilforge/internal/database"
)

// SetupDatabase connects to Postgres and, when migrate is set, applies the
// pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger, migrate bool) (*sqlx.DB, error) {
	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if migrate {
		if err = database.MigrateUp(ctx, db.DB, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}
