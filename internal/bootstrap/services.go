package bootstrap

import (
	"github.com/jmoiron/sqlx"

	infrahttp "github.com/ksnll/mithrilforge/infrastructure/http"
	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/config"
	"github.com/ksnll/mithrilforge/internal/enrichment"
	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/repository"
	"github.com/ksnll/mithrilforge/internal/service"
	"github.com/ksnll/mithrilforge/internal/telemetry"
)

// SetupEnrichment builds the crawl, extraction and generation client. The
// generator is only created when page generation is enabled.
func SetupEnrichment(cfg config.EnrichmentConfig, log infralogger.Logger) *enrichment.Client {
	httpClient := infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.RequestTimeout})

	fetcher := enrichment.NewSiteFetcher(enrichment.FetcherConfig{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
		HTTPClient:     httpClient,
	}, log)

	extractor := enrichment.NewContactExtractor(enrichment.ExtractorConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxTokens:  cfg.MaxTokens,
		HTTPClient: httpClient,
	})

	var generator enrichment.Generator
	if cfg.GeneratePages {
		generator = enrichment.NewPageGenerator(enrichment.GeneratorConfig{
			DevToolsURL:    cfg.DevToolsURL,
			User:           cfg.PageUser,
			Password:       cfg.PagePassword,
			PreviewTimeout: cfg.PreviewTimeout,
		}, log)
	}

	return enrichment.NewClient(fetcher, extractor, generator)
}

// SetupService wires the website service to Postgres, enrichment and the bus.
func SetupService(
	cfg *config.Config,
	db *sqlx.DB,
	bus *events.Bus,
	metrics *telemetry.Metrics,
	log infralogger.Logger,
) *service.WebsiteService {
	repo := repository.NewWebsiteRepository(db, log)
	client := SetupEnrichment(cfg.Enrichment, log)

	return service.NewWebsiteService(repo, client, bus,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithStrictNotify(cfg.Events.StrictNotify),
		service.WithPageGeneration(cfg.Enrichment.GeneratePages),
	)
}
