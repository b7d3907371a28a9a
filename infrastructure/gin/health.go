package gin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) CheckResult

// PingChecker adapts a ping function such as (*sql.DB).PingContext.
func PingChecker(ping func(context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		if err := ping(ctx); err != nil {
			return CheckResult{Status: "unhealthy", Error: err.Error()}
		}
		return CheckResult{Status: "healthy"}
	}
}

// HealthOptions configures the health routes.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	Checks         map[string]HealthChecker
}

// RegisterHealthRoutes mounts GET /health. Any unhealthy check yields 503.
func RegisterHealthRoutes(router *gin.Engine, opts HealthOptions) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := "healthy"
		code := http.StatusOK
		checks := make(map[string]CheckResult, len(opts.Checks))
		for name, check := range opts.Checks {
			res := check(ctx)
			checks[name] = res
			if res.Status != "healthy" {
				status = "unhealthy"
				code = http.StatusServiceUnavailable
			}
		}

		body := gin.H{
			"status":    status,
			"service":   opts.ServiceName,
			"version":   opts.ServiceVersion,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if len(checks) > 0 {
			body["checks"] = checks
		}
		c.JSON(code, body)
	})
}
