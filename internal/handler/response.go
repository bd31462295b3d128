package handler

import (
	"errors"
	"net/http"

	"shiftwatch/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps domain error kinds onto HTTP statuses. Internal details
// never leak; validation and conflict messages do, so callers can fix input.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
