// Package handlers implements the HTTP API for websites and live events.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

// WebsiteService is the part of service.WebsiteService the handlers use.
type WebsiteService interface {
	Create(ctx context.Context, req models.CreateWebsiteRequest) (*models.Website, error)
	List(ctx context.Context) ([]models.Website, error)
	Subscribe() *events.Subscription
}

// WebsiteHandler serves the website endpoints.
type WebsiteHandler struct {
	service WebsiteService
	logger  logger.Logger
}

// NewWebsiteHandler creates a handler.
func NewWebsiteHandler(svc WebsiteService, log logger.Logger) *WebsiteHandler {
	return &WebsiteHandler{service: svc, logger: log}
}

type createWebsiteBody struct {
	SourceAddress string `json:"source_address"`
}

type createWebsiteResponse struct {
	ID            string `json:"id"`
	SourceAddress string `json:"source_address"`
}

// Create handles POST /api/website.
func (h *WebsiteHandler) Create(c *gin.Context) {
	var body createWebsiteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, &models.ValidationError{Field: "body", Message: "is not valid JSON", Err: err})
		return
	}

	req, err := models.NewCreateWebsiteRequest(body.SourceAddress)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	website, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, createWebsiteResponse{
		ID:            strconv.FormatInt(website.ID, 10),
		SourceAddress: website.SourceAddress,
	})
}

// List handles GET /api/websites.
func (h *WebsiteHandler) List(c *gin.Context) {
	websites, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"websites": websites})
}
