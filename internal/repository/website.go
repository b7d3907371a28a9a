// Package repository persists websites in Postgres.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/models"
)

const uniqueViolation = pq.ErrorCode("23505")

const websiteColumns = `website_id, source_address, contact_email, contact_name,
	generated_website_link, generated_website_name, created_at`

// WebsiteRepository implements service.Repository on Postgres.
type WebsiteRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewWebsiteRepository creates a repository on db.
func NewWebsiteRepository(db *sqlx.DB, log logger.Logger) *WebsiteRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &WebsiteRepository{db: db, logger: log}
}

// Create inserts the website and returns the stored row in one statement.
func (r *WebsiteRepository) Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error) {
	query := `INSERT INTO websites (source_address) VALUES ($1) RETURNING ` + websiteColumns

	var website models.Website
	err := r.db.QueryRowxContext(ctx, query, req.SourceAddress()).StructScan(&website)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, &models.DuplicateError{SourceAddress: req.SourceAddress()}
		}
		return nil, &models.StorageError{Op: "insert website", Err: err}
	}

	r.logger.Debug("Inserted website",
		logger.Int64("website_id", website.ID),
		logger.String("source_address", website.SourceAddress),
	)
	return &website, nil
}

// List returns all websites ordered by ID, which is creation order.
func (r *WebsiteRepository) List(ctx context.Context) ([]models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites ORDER BY website_id ASC`

	websites := []models.Website{}
	if err := r.db.SelectContext(ctx, &websites, query); err != nil {
		return nil, &models.StorageError{Op: "list websites", Err: err}
	}
	return websites, nil
}

// UpdateContact stores the extracted contact for website id.
func (r *WebsiteRepository) UpdateContact(ctx context.Context, id int64, contact models.Contact) error {
	social, err := json.Marshal(contact.Social)
	if err != nil {
		return &models.StorageError{Op: "update contact", Err: fmt.Errorf("marshal social links: %w", err)}
	}

	query := `UPDATE websites SET contact_email = $1, contact_name = $2, social_links = $3 WHERE website_id = $4`
	return r.execOne(ctx, "update contact", query, contact.Email, contact.Name, string(social), id)
}

// UpdateGeneratedWebsite stores the generated page for website id.
func (r *WebsiteRepository) UpdateGeneratedWebsite(ctx context.Context, id int64, page models.GeneratedWebsite) error {
	query := `UPDATE websites SET generated_website_name = $1, generated_website_link = $2 WHERE website_id = $3`
	return r.execOne(ctx, "update generated website", query, page.Name, page.URL, id)
}

func (r *WebsiteRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &models.StorageError{Op: op, Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: op, Err: fmt.Errorf("rows affected: %w", err)}
	}
	if rows == 0 {
		return &models.StorageError{Op: op, Err: models.ErrWebsiteNotFound}
	}
	return nil
}
