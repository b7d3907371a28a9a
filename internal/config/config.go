// Package config holds the mithrilforge service configuration.
package config

import (
	"time"

	infraconfig "github.com/ksnll/mithrilforge/infrastructure/config"
	"github.com/ksnll/mithrilforge/infrastructure/profiling"
	infraredis "github.com/ksnll/mithrilforge/infrastructure/redis"
	"github.com/ksnll/mithrilforge/internal/database"
	"github.com/ksnll/mithrilforge/internal/events"
)

// Defaults.
const (
	DefaultConfigPath      = "config.yml"
	DefaultServiceName     = "mithrilforge"
	DefaultServerPort      = 8000
	DefaultServerHost      = "0.0.0.0"
	DefaultRedisAddress    = "localhost:6379"
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "disable"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Config is the root configuration.
type Config struct {
	Debug      bool              `env:"APP_DEBUG"  yaml:"debug"`
	Server     ServerConfig      `yaml:"server"`
	Database   database.Config   `yaml:"database"`
	Auth       AuthConfig        `yaml:"auth"`
	Redis      infraredis.Config `yaml:"redis"`
	Events     EventsConfig      `yaml:"events"`
	Enrichment EnrichmentConfig  `yaml:"enrichment"`
	Logging    LoggingConfig     `yaml:"logging"`
	Profiling  profiling.Config  `yaml:"profiling"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string   `env:"SERVER_HOST"         yaml:"host"`
	Port        int      `env:"SERVER_PORT"         yaml:"port"`
	CORSOrigins []string `env:"SERVER_CORS_ORIGINS" yaml:"cors_origins"`
}

// AuthConfig holds the token secret shared with the issuer.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"` //nolint:gosec // config field
}

// EventsConfig controls the in-process bus.
type EventsConfig struct {
	Capacity     int  `env:"EVENTS_CAPACITY"      yaml:"capacity"`
	StrictNotify bool `env:"EVENTS_STRICT_NOTIFY" yaml:"strict_notify"`
}

// EnrichmentConfig configures the crawler, the contact extractor and the
// page generator.
type EnrichmentConfig struct {
	APIKey         string        `env:"ANTHROPIC_API_KEY"          yaml:"api_key"` //nolint:gosec // config field
	Model          string        `env:"ANTHROPIC_MODEL"            yaml:"model"`
	MaxTokens      int           `env:"ANTHROPIC_MAX_TOKENS"       yaml:"max_tokens"`
	RequestTimeout time.Duration `env:"ENRICHMENT_REQUEST_TIMEOUT" yaml:"request_timeout"`
	UserAgent      string        `env:"ENRICHMENT_USER_AGENT"      yaml:"user_agent"`

	GeneratePages  bool          `env:"ENRICHMENT_GENERATE_PAGES" yaml:"generate_pages"`
	DevToolsURL    string        `env:"WEBDRIVER_ADDRESS"         yaml:"devtools_url"`
	PageUser       string        `env:"LOVABLE_USER"              yaml:"page_user"`
	PagePassword   string        `env:"LOVABLE_PASSWORD"          yaml:"page_password"` //nolint:gosec // config field
	PreviewTimeout time.Duration `env:"LOVABLE_PREVIEW_TIMEOUT"   yaml:"preview_timeout"`
}

// LoggingConfig controls the service logger.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load reads the configuration from path, .env files and the environment.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults(path, setDefaults)
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultPostgresPort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = DefaultRedisAddress
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = events.DefaultStreamName
	}
	if cfg.Events.Capacity <= 0 {
		cfg.Events.Capacity = events.DefaultCapacity
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
		if cfg.Debug {
			cfg.Logging.Level = "debug"
		}
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// ValidateDatabase checks only what commands touching the database need.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL != "" {
		return nil
	}
	if err := infraconfig.Required("database.host", c.Database.Host); err != nil {
		return err
	}
	if err := infraconfig.Required("database.name", c.Database.Name); err != nil {
		return err
	}
	return infraconfig.Port("database.port", c.Database.Port)
}

// Validate returns the first invalid field for the serve command.
func (c *Config) Validate() error {
	if err := infraconfig.Port("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if err := infraconfig.Required("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}
	if err := infraconfig.Required("enrichment.api_key", c.Enrichment.APIKey); err != nil {
		return err
	}
	if c.Enrichment.GeneratePages {
		if err := infraconfig.Required("enrichment.page_user", c.Enrichment.PageUser); err != nil {
			return err
		}
		if err := infraconfig.Required("enrichment.page_password", c.Enrichment.PagePassword); err != nil {
			return err
		}
	}
	return nil
}
