package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/models"
)

const internalErrorMessage = "Internal server error"

// respondError maps domain errors to status codes. Internal details are
// logged, never returned.
func respondError(c *gin.Context, log logger.Logger, err error) {
	var (
		validation *models.ValidationError
		duplicate  *models.DuplicateError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validation.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrDuplicate.Error()})
	default:
		log.Error("Request failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}
