package service

import (
	"context"
	"errors"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

// WebsiteService creates websites and launches their enrichment. It holds no
// state of its own.
type WebsiteService struct {
	repo     Repository
	client   EnrichmentClient
	notifier Notifier

	log           logger.Logger
	metrics       Metrics
	strictNotify  bool
	generatePages bool
	spawn         func(func())
}

// NewWebsiteService wires the service to its ports.
func NewWebsiteService(repo Repository, client EnrichmentClient, notifier Notifier, opts ...Option) *WebsiteService {
	s := &WebsiteService{
		repo:     repo,
		client:   client,
		notifier: notifier,
		log:      logger.NewNop(),
		metrics:  nopMetrics{},
		spawn:    func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists the website, announces it and starts enrichment in the
// background. The returned record does not wait for enrichment.
func (s *WebsiteService) Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error) {
	log := logger.FromContext(ctx, s.log)

	website, err := s.repo.Create(ctx, req)
	if err != nil {
		var dup *models.DuplicateError
		if errors.As(err, &dup) {
			return nil, dup
		}
		return nil, asStorageError("create website", err)
	}

	if _, err = s.notifier.Publish(events.WebsiteAdded{Website: *website}); err != nil {
		if s.strictNotify {
			return nil, &models.NotificationError{Event: events.TypeWebsiteAdded, Err: err}
		}
		log.Warn("WebsiteAdded reached no subscriber",
			logger.Int64("website_id", website.ID),
			logger.Error(err),
		)
	}

	snapshot := *website
	pipelineCtx := context.WithoutCancel(ctx)
	s.spawn(func() { s.Enrich(pipelineCtx, snapshot) })

	log.Info("Website created",
		logger.Int64("website_id", website.ID),
		logger.String("source_address", website.SourceAddress),
	)
	return website, nil
}

// List returns every website in creation order.
func (s *WebsiteService) List(ctx context.Context) ([]models.Website, error) {
	websites, err := s.repo.List(ctx)
	if err != nil {
		return nil, asStorageError("list websites", err)
	}
	return websites, nil
}

// Subscribe registers a live observer on the notifier.
func (s *WebsiteService) Subscribe() *events.Subscription {
	return s.notifier.Subscribe()
}

func asStorageError(op string, err error) *models.StorageError {
	var se *models.StorageError
	if errors.As(err, &se) {
		return se
	}
	return &models.StorageError{Op: op, Err: err}
}
