package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/bootstrap"
)

// commandDeps are the config-derived dependencies shared by the database
// commands.
type commandDeps struct {
	DB     *sqlx.DB
	Logger infralogger.Logger
}

func (d *commandDeps) Close() {
	_ = d.DB.Close()
	_ = d.Logger.Sync()
}

func newCommandDeps(ctx context.Context) (*commandDeps, error) {
	cfg, err := bootstrap.LoadConfig(options())
	if err != nil {
		return nil, err
	}
	if err = cfg.ValidateDatabase(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	log, err := bootstrap.CreateLogger(cfg, bootstrap.Version)
	if err != nil {
		return nil, err
	}

	db, err := bootstrap.SetupDatabase(ctx, cfg, log, false)
	if err != nil {
		return nil, err
	}
	return &commandDeps{DB: db, Logger: log}, nil
}
