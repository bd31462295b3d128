package handler

import (
	"net/http"
	"time"

	"shiftwatch/config"
	"shiftwatch/internal/service"

	"github.com/gin-gonic/gin"
)

type EscalationHandler struct {
	svc *service.EscalationService
	cfg *config.EngineConfig
}

func NewEscalationHandler(svc *service.EscalationService, cfg *config.EngineConfig) *EscalationHandler {
	return &EscalationHandler{svc: svc, cfg: cfg}
}

type createEscalationRequest struct {
	OriginalNotificationID uint   `json:"original_notification_id" binding:"required"`
	RecipientID            uint   `json:"recipient_id"`
	Level                  int    `json:"escalation_level" binding:"required"`
	Reason                 string `json:"reason" binding:"required"`
	EscalatedTo            string `json:"escalated_to"`
}

// Create records one escalation step for an unacknowledged notification.
func (h *EscalationHandler) Create(c *gin.Context) {
	var req createEscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	e, err := h.svc.Create(c.Request.Context(), service.CreateEscalationInput{
		OriginalNotificationID: req.OriginalNotificationID,
		RecipientID:            req.RecipientID,
		Level:                  req.Level,
		Reason:                 req.Reason,
		EscalatedTo:            req.EscalatedTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"escalation": e})
}

// Resolve explicitly closes the chain an escalation belongs to.
func (h *EscalationHandler) Resolve(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	e, err := h.svc.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalation": e})
}

// ListForNotification returns a notification's full escalation chain.
func (h *EscalationHandler) ListForNotification(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.svc.ListByOriginal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalations": list})
}

type sweepRequest struct {
	OlderThanMinutes int `json:"older_than_minutes"`
}

// Sweep escalates every notification unacknowledged past the cutoff.
// Per-item failures are reported in the result, not as a request failure.
func (h *EscalationHandler) Sweep(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	olderThan := time.Duration(req.OlderThanMinutes) * time.Minute
	if req.OlderThanMinutes == 0 {
		olderThan = h.cfg.DefaultSweepAge
	}
	result, err := h.svc.Sweep(c.Request.Context(), olderThan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
