package handler

import (
	"net/http"

	"shiftwatch/internal/middleware"
	"shiftwatch/internal/service"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	svc *service.PreferenceService
}

func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// Get returns the caller's preferences, creating defaults on first access.
func (h *PreferenceHandler) Get(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	p, err := h.svc.GetOrCreate(c.Request.Context(), recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": p})
}

// Update applies a partial preference patch. Unknown fields in the body are
// ignored; recognized fields are validated before anything is written.
func (h *PreferenceHandler) Update(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	var patch service.PreferencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), recipientID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": p})
}
