package service

import (
	"time"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

// Metrics receives pipeline instrumentation.
type Metrics interface {
	// PipelineFinished is called once per run. failedStage is empty on success.
	PipelineFinished(failedStage string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) PipelineFinished(string, time.Duration) {}

// Option configures a WebsiteService.
type Option func(*WebsiteService)

// WithLogger sets the fallback logger used when the request context has none.
func WithLogger(log logger.Logger) Option {
	return func(s *WebsiteService) { s.log = log }
}

// WithMetrics sets the pipeline instrumentation.
func WithMetrics(m Metrics) Option {
	return func(s *WebsiteService) { s.metrics = m }
}

// WithStrictNotify makes Create fail with *models.NotificationError when the
// WebsiteAdded event reaches nobody.
func WithStrictNotify(strict bool) Option {
	return func(s *WebsiteService) { s.strictNotify = strict }
}

// WithPageGeneration runs page generation after a successful contact stage.
func WithPageGeneration(enabled bool) Option {
	return func(s *WebsiteService) { s.generatePages = enabled }
}

// WithSpawner replaces the goroutine launcher for background pipelines.
func WithSpawner(spawn func(func())) Option {
	return func(s *WebsiteService) { s.spawn = spawn }
}
