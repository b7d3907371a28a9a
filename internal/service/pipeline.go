package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

// Pipeline stages.
const (
	StageFetch    = "fetch"
	StageExtract  = "extract"
	StagePersist  = "persist"
	StageNotify   = "notify"
	StageGenerate = "generate"
)

// StageError tags a background pipeline failure with the stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Enrich runs the enrichment pipeline for website: fetch, extract, persist,
// notify, then optionally generate a page. It stops at the first failing
// stage, logs it once and publishes nothing further for that run.
func (s *WebsiteService) Enrich(ctx context.Context, website models.Website) {
	start := time.Now()
	log := logger.FromContext(ctx, s.log).With(
		logger.Int64("website_id", website.ID),
		logger.String("source_address", website.SourceAddress),
	)

	failedStage := ""
	if err := s.runPipeline(ctx, log, website); err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			failedStage = stageErr.Stage
		}
		log.Error("Enrichment pipeline abandoned",
			logger.String("stage", failedStage),
			logger.Error(err),
		)
	}
	s.metrics.PipelineFinished(failedStage, time.Since(start))
}

func (s *WebsiteService) runPipeline(ctx context.Context, log logger.Logger, website models.Website) error {
	content, err := s.client.FetchSiteContent(ctx, website.SourceAddress)
	if err != nil {
		return &StageError{Stage: StageFetch, Err: err}
	}
	log.Debug("Fetched site content", logger.Int("bytes", len(content)))

	contact, err := s.client.ExtractContact(ctx, content)
	if err != nil {
		return &StageError{Stage: StageExtract, Err: err}
	}

	if err = s.repo.UpdateContact(ctx, website.ID, contact); err != nil {
		return &StageError{Stage: StagePersist, Err: err}
	}

	if err = s.notify(log, events.ContactFetched{
		ContactEvent: models.ContactEvent{WebsiteID: website.ID, Contact: contact},
	}); err != nil {
		return err
	}
	log.Info("Contact enrichment completed")

	if !s.generatePages {
		return nil
	}

	page, err := s.client.GeneratePage(ctx, website.SourceAddress)
	if err != nil {
		return &StageError{Stage: StageGenerate, Err: err}
	}

	if err = s.repo.UpdateGeneratedWebsite(ctx, website.ID, page); err != nil {
		return &StageError{Stage: StagePersist, Err: err}
	}

	if err = s.notify(log, events.WebsiteGenerated{WebsiteID: website.ID, Page: page}); err != nil {
		return err
	}
	log.Info("Page generation completed", logger.String("generated_url", page.URL))
	return nil
}

// notify publishes ev. Nobody listening is not a failure once the result is
// stored.
func (s *WebsiteService) notify(log logger.Logger, ev events.LifecycleEvent) error {
	_, err := s.notifier.Publish(ev)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, events.ErrNoSubscribers):
		log.Debug("Event reached no subscriber", logger.String("event_type", ev.EventType()))
		return nil
	default:
		return &StageError{
			Stage: StageNotify,
			Err:   &models.NotificationError{Event: ev.EventType(), Err: err},
		}
	}
}
