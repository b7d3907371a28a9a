// Package service coordinates website creation and the background
// enrichment pipeline over injected storage, enrichment and notification ports.
package service

import (
	"context"

	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

// Repository stores websites and their enrichment fields.
type Repository interface {
	// Create returns *models.DuplicateError for a tracked address.
	Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error)
	// List returns websites in creation order.
	List(ctx context.Context) ([]models.Website, error)
	UpdateContact(ctx context.Context, id int64, contact models.Contact) error
	UpdateGeneratedWebsite(ctx context.Context, id int64, page models.GeneratedWebsite) error
}

// EnrichmentClient crawls sites, extracts contacts and generates pages.
type EnrichmentClient interface {
	FetchSiteContent(ctx context.Context, address string) (string, error)
	ExtractContact(ctx context.Context, content string) (models.Contact, error)
	GeneratePage(ctx context.Context, address string) (models.GeneratedWebsite, error)
}

// Notifier broadcasts lifecycle events.
type Notifier interface {
	Publish(ev events.LifecycleEvent) (int, error)
	Subscribe() *events.Subscription
}
