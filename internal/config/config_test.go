package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/ksnll/mithrilforge/infrastructure/config"
	"github.com/ksnll/mithrilforge/internal/config"
	"github.com/ksnll/mithrilforge/internal/database"
	"github.com/ksnll/mithrilforge/internal/events"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"APP_DEBUG", "SERVER_PORT", "DATABASE_URL", "POSTGRES_HOST", "POSTGRES_DB",
		"AUTH_JWT_SECRET", "ANTHROPIC_API_KEY", "ENRICHMENT_GENERATE_PAGES",
		"LOVABLE_USER", "LOVABLE_PASSWORD", "EVENTS_STRICT_NOTIFY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func validConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: 8000},
		Database:   database.Config{URL: "postgres://localhost/mithrilforge"},
		Auth:       config.AuthConfig{JWTSecret: "secret"},
		Enrichment: config.EnrichmentConfig{APIKey: "key"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, config.DefaultPostgresPort, cfg.Database.Port)
	assert.Equal(t, events.DefaultCapacity, cfg.Events.Capacity)
	assert.Equal(t, events.DefaultStreamName, cfg.Redis.Stream)
	assert.False(t, cfg.Events.StrictNotify)
	assert.False(t, cfg.Enrichment.GeneratePages)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("EVENTS_STRICT_NOTIFY", "true")
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "config.yml")
	body := "server:\n  port: 8080\nenrichment:\n  request_timeout: 5s\n  api_key: from-file\nevents:\n  capacity: 32\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Events.StrictNotify)
	assert.Equal(t, 32, cfg.Events.Capacity)
	assert.Equal(t, "from-env", cfg.Enrichment.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Enrichment.RequestTimeout)
}

func TestLoad_DebugLowersLogLevel(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_DEBUG", "1")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantField string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "bad port", mutate: func(c *config.Config) { c.Server.Port = 0 }, wantField: "server.port"},
		{
			name: "no database",
			mutate: func(c *config.Config) {
				c.Database = database.Config{}
			},
			wantField: "database.host",
		},
		{
			name: "database fields instead of url",
			mutate: func(c *config.Config) {
				c.Database = database.Config{Host: "db", Name: "mf", Port: 5432}
			},
		},
		{name: "no secret", mutate: func(c *config.Config) { c.Auth.JWTSecret = "" }, wantField: "auth.jwt_secret"},
		{name: "no api key", mutate: func(c *config.Config) { c.Enrichment.APIKey = "" }, wantField: "enrichment.api_key"},
		{
			name:      "pages without credentials",
			mutate:    func(c *config.Config) { c.Enrichment.GeneratePages = true },
			wantField: "enrichment.page_user",
		},
		{
			name: "pages with credentials",
			mutate: func(c *config.Config) {
				c.Enrichment.GeneratePages = true
				c.Enrichment.PageUser = "u"
				c.Enrichment.PagePassword = "p"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *infraconfig.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateDatabase_IgnoresServeOnlyFields(t *testing.T) {
	cfg := &config.Config{Database: database.Config{URL: "postgres://x/y"}}
	require.NoError(t, cfg.ValidateDatabase())
}
