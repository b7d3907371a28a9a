// Package api wires the HTTP routes and builds the server.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	infragin "github.com/ksnll/mithrilforge/infrastructure/gin"
	"github.com/ksnll/mithrilforge/infrastructure/jwt"
	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/infrastructure/metrics"
	"github.com/ksnll/mithrilforge/internal/handlers"
)

const readTimeout = 15 * time.Second

// Deps are the collaborators the routes need.
type Deps struct {
	Websites  *handlers.WebsiteHandler
	Events    *handlers.EventsHandler
	JWTSecret string
	Gatherer  prometheus.Gatherer
}

// ServerConfig is the listener part of the service configuration.
type ServerConfig struct {
	ServiceName string
	Version     string
	Host        string
	Port        int
	Debug       bool
	CORSOrigins []string
}

// SetupRoutes registers the public and the token-protected routes. /health
// is registered by the server builder.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", metrics.Handler(deps.Gatherer))

	protected := router.Group("/api")
	protected.Use(jwt.Middleware(deps.JWTSecret))
	protected.POST("/website", deps.Websites.Create)
	protected.GET("/websites", deps.Websites.List)
	protected.GET("/events", deps.Events.WebSocket)
	protected.GET("/events/stream", deps.Events.Stream)
}

// NewServer builds the HTTP server. The write timeout is disabled because the
// event endpoints hold connections open.
func NewServer(
	cfg ServerConfig,
	deps Deps,
	httpMetrics *metrics.HTTPMetrics,
	health map[string]infragin.HealthChecker,
	log logger.Logger,
) *infragin.Server {
	builder := infragin.NewServerBuilder(cfg.ServiceName, cfg.Port).
		WithLogger(log).
		WithHost(cfg.Host).
		WithDebug(cfg.Debug).
		WithVersion(cfg.Version).
		WithCORSOrigins(cfg.CORSOrigins).
		WithTimeouts(readTimeout, infragin.NoWriteTimeout).
		WithMiddleware(httpMetrics.Middleware()).
		WithRoutes(func(router *gin.Engine) { SetupRoutes(router, deps) })

	for name, check := range health {
		builder = builder.WithHealthCheck(name, check)
	}
	return builder.Build()
}
