package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/middleware"
	"shiftwatch/internal/repository"
	"shiftwatch/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type createNotificationRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
}

// Create ingests a producer's notification request.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	n, decision, err := h.svc.Create(c.Request.Context(), service.CreateNotificationInput{
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Message:     req.Message,
		Category:    req.Category,
		Priority:    req.Priority,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n, "delivery": decision})
}

// List returns the caller's notifications through a typed filter.
func (h *NotificationHandler) List(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), recipientID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	count, err := h.svc.UnreadCount(c.Request.Context(), recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), id, recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := h.svc.Acknowledge(c.Request.Context(), id, recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *NotificationHandler) Stats(c *gin.Context) {
	recipientID := middleware.GetUserID(c)
	stats, err := h.svc.GetStats(c.Request.Context(), recipientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Validation("id", "must be a positive integer")
	}
	return uint(id), nil
}

func parseFilter(c *gin.Context) (repository.NotificationFilter, error) {
	var f repository.NotificationFilter

	if raw := c.Query("categories"); raw != "" {
		for _, cat := range strings.Split(raw, ",") {
			if !domain.ValidCategory(cat) {
				return f, domain.Validation("categories", "unknown category "+cat)
			}
			f.Categories = append(f.Categories, cat)
		}
	}
	if raw := c.Query("priorities"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if !domain.ValidPriority(p) {
				return f, domain.Validation("priorities", "unknown priority "+p)
			}
			f.Priorities = append(f.Priorities, p)
		}
	}
	if raw := c.Query("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.Validation("unread", "must be true or false")
		}
		f.Unread = &v
	}
	if raw := c.Query("acknowledged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.Validation("acknowledged", "must be true or false")
		}
		f.Acknowledged = &v
	}
	f.EntityType = c.Query("entity_type")
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, domain.Validation("from", "must be RFC3339")
		}
		f.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, domain.Validation("to", "must be RFC3339")
		}
		f.To = &t
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return f, nil
}
