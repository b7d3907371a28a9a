package bootstrap

import (
	"fmt"

	infraconfig "github.com/ksnll/mithrilforge/infrastructure/config"
	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/config"
)

// LoadConfig loads configuration from opts.ConfigPath, CONFIG_PATH or the
// default path. It does not validate.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = infraconfig.GetConfigPath(config.DefaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// CreateLogger creates the service logger.
func CreateLogger(cfg *config.Config, version string) (infralogger.Logger, error) {
	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", config.DefaultServiceName),
		infralogger.String("version", version),
	), nil
}
