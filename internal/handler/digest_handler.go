package handler

import (
	"net/http"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/middleware"
	"shiftwatch/internal/service"

	"github.com/gin-gonic/gin"
)

type DigestHandler struct {
	svc *service.DigestService
}

func NewDigestHandler(svc *service.DigestService) *DigestHandler {
	return &DigestHandler{svc: svc}
}

type createDigestRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Frequency   string `json:"frequency" binding:"required"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// Create builds a digest for any recipient on a producer's behalf.
func (h *DigestHandler) Create(c *gin.Context) {
	var req createDigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	start, end, err := parseWindow(req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := h.svc.Build(c.Request.Context(), req.RecipientID, start, end, req.Frequency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": d})
}

// GetMine builds the caller's own digest over the default or supplied window.
func (h *DigestHandler) GetMine(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	frequency := c.DefaultQuery("frequency", domain.DigestDaily)
	start, end, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := h.svc.Build(c.Request.Context(), recipientID, start, end, frequency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": d})
}

func parseWindow(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startRaw != "" {
		t, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return nil, nil, domain.Validation("start", "must be RFC3339")
		}
		start = &t
	}
	if endRaw != "" {
		t, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return nil, nil, domain.Validation("end", "must be RFC3339")
		}
		end = &t
	}
	return start, end, nil
}
