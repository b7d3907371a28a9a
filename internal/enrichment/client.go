// Package enrichment crawls websites, extracts owner contacts with a language
// model and drives the page generation tool.
package enrichment

import (
	"context"
	"errors"

	"github.com/ksnll/mithrilforge/internal/models"
)

// Fetcher returns the condensed text of a site.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// Extractor turns site text into a contact.
type Extractor interface {
	Extract(ctx context.Context, content string) (models.Contact, error)
}

// Generator produces a redesigned page for a site.
type Generator interface {
	Generate(ctx context.Context, address string) (models.GeneratedWebsite, error)
}

// Client implements service.EnrichmentClient. Every error carries the
// stage's error kind.
type Client struct {
	fetcher   Fetcher
	extractor Extractor
	generator Generator
}

// NewClient composes the stages. generator may be nil when page generation
// is disabled.
func NewClient(fetcher Fetcher, extractor Extractor, generator Generator) *Client {
	return &Client{fetcher: fetcher, extractor: extractor, generator: generator}
}

// FetchSiteContent crawls address.
func (c *Client) FetchSiteContent(ctx context.Context, address string) (string, error) {
	content, err := c.fetcher.Fetch(ctx, address)
	if err != nil {
		var fe *models.FetchError
		if errors.As(err, &fe) {
			return "", fe
		}
		return "", &models.FetchError{Address: address, Err: err}
	}
	return content, nil
}

// ExtractContact asks the language model for the owner's contact.
func (c *Client) ExtractContact(ctx context.Context, content string) (models.Contact, error) {
	contact, err := c.extractor.Extract(ctx, content)
	if err != nil {
		var ee *models.ExtractionError
		if errors.As(err, &ee) {
			return models.Contact{}, ee
		}
		return models.Contact{}, &models.ExtractionError{Err: err}
	}
	return contact.Normalize(), nil
}

// GeneratePage generates a landing page from address.
func (c *Client) GeneratePage(ctx context.Context, address string) (models.GeneratedWebsite, error) {
	if c.generator == nil {
		return models.GeneratedWebsite{}, &models.GenerationError{Address: address, Err: models.ErrGenerationDisabled}
	}
	page, err := c.generator.Generate(ctx, address)
	if err != nil {
		var ge *models.GenerationError
		if errors.As(err, &ge) {
			return models.GeneratedWebsite{}, ge
		}
		return models.GeneratedWebsite{}, &models.GenerationError{Address: address, Err: err}
	}
	return page, nil
}
