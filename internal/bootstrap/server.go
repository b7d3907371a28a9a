package bootstrap

import (
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	infragin "github.com/ksnll/mithrilforge/infrastructure/gin"
	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/infrastructure/metrics"
	"github.com/ksnll/mithrilforge/internal/api"
	"github.com/ksnll/mithrilforge/internal/config"
	"github.com/ksnll/mithrilforge/internal/handlers"
	"github.com/ksnll/mithrilforge/internal/service"
	"github.com/ksnll/mithrilforge/internal/telemetry"
)

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *sqlx.DB,
	svc *service.WebsiteService,
	registry *prometheus.Registry,
	log infralogger.Logger,
) *infragin.Server {
	deps := api.Deps{
		Websites:  handlers.NewWebsiteHandler(svc, log),
		Events:    handlers.NewEventsHandler(svc, log),
		JWTSecret: cfg.Auth.JWTSecret,
		Gatherer:  registry,
	}

	serverCfg := api.ServerConfig{
		ServiceName: config.DefaultServiceName,
		Version:     Version,
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Debug:       cfg.Debug,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	health := map[string]infragin.HealthChecker{
		"database": infragin.PingChecker(db.PingContext),
	}

	return api.NewServer(serverCfg, deps, metrics.NewHTTPMetrics(registry, telemetry.MetricsNamespace), health, log)
}
