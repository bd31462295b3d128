package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
	"shiftwatch/internal/repository"
)

// ChainResolver resolves an escalation chain when its original notification
// is acknowledged. Implemented by EscalationService.
type ChainResolver interface {
	ResolveChain(ctx context.Context, originalNotificationID uint) error
}

type CreateNotificationInput struct {
	RecipientID uint
	Title       string
	Message     string
	Category    string
	Priority    string
	EntityType  string
	EntityID    uint
}

// Stats is the per-recipient aggregation for dashboards.
type Stats struct {
	Total      int64            `json:"total"`
	Unread     int64            `json:"unread"`
	ByCategory map[string]int64 `json:"by_category"`
	ByPriority map[string]int64 `json:"by_priority"`
}

type NotificationService struct {
	store  NotificationStore
	prefs  *PreferenceService
	chains ChainResolver
	feed   FeedPusher
	clock  func() time.Time
}

func NewNotificationService(store NotificationStore, prefs *PreferenceService, chains ChainResolver, feed FeedPusher) *NotificationService {
	return &NotificationService{
		store:  store,
		prefs:  prefs,
		chains: chains,
		feed:   feed,
		clock:  time.Now,
	}
}

type feedEvent struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

// Create validates a producer request, resolves the recipient's delivery
// preferences, persists the notification with the decision recorded on it,
// and pushes it to the recipient's live feed.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*models.Notification, DeliveryDecision, error) {
	var none DeliveryDecision
	if in.RecipientID == 0 {
		return nil, none, domain.Validation("recipient_id", "required")
	}
	if in.Title == "" {
		return nil, none, domain.Validation("title", "required")
	}
	if in.Message == "" {
		return nil, none, domain.Validation("message", "required")
	}
	if !domain.ValidCategory(in.Category) {
		return nil, none, domain.Validation("category", "unknown category")
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}
	if !domain.ValidPriority(in.Priority) {
		return nil, none, domain.Validation("priority", "unknown priority")
	}

	now := s.clock()
	n := &models.Notification{
		RecipientID: in.RecipientID,
		Category:    in.Category,
		Priority:    in.Priority,
		Title:       in.Title,
		Message:     in.Message,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		CreatedAt:   now,
	}

	// Resolution never blocks creation: a preference load failure falls back
	// to the in-app-only default.
	prefs, err := s.prefs.GetOrCreate(ctx, in.RecipientID)
	if err != nil {
		prefs = nil
	}
	decision := ResolveDelivery(n, prefs, now)
	n.Channels = strings.Join(decision.Channels, ",")
	n.DeferredUntil = decision.DeferredUntil
	n.IncludeInDigest = decision.IncludeInDigest

	if err := s.store.Create(ctx, n); err != nil {
		return nil, none, fmt.Errorf("create notification: %w", err)
	}

	if s.feed != nil && (prefs == nil || prefs.InAppEnabled(n.Category)) {
		s.feed.BroadcastToRecipient(n.RecipientID, feedEvent{Type: "notification", Notification: n})
	}
	return n, decision, nil
}

// MarkRead sets the read timestamp if unset. Idempotent; a repeat call is a
// no-op. recipientID guards ownership: a mismatch reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) (*models.Notification, error) {
	return s.store.UpdateLifecycle(ctx, id, func(n *models.Notification) error {
		if n.RecipientID != recipientID {
			return domain.ErrNotFound
		}
		if n.ReadAt == nil {
			now := s.clock()
			n.ReadAt = &now
		}
		return nil
	})
}

// Acknowledge sets the acknowledged timestamp (and the read timestamp if
// still unset) and resolves any open escalation chain for the notification.
func (s *NotificationService) Acknowledge(ctx context.Context, id, recipientID uint) (*models.Notification, error) {
	n, err := s.store.UpdateLifecycle(ctx, id, func(n *models.Notification) error {
		if n.RecipientID != recipientID {
			return domain.ErrNotFound
		}
		if n.AcknowledgedAt == nil {
			now := s.clock()
			if n.ReadAt == nil {
				n.ReadAt = &now
			}
			n.AcknowledgedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.chains != nil {
		if err := s.chains.ResolveChain(ctx, n.ID); err != nil {
			return nil, fmt.Errorf("resolve escalation chain for notification %d: %w", n.ID, err)
		}
	}
	return n, nil
}

func (s *NotificationService) Get(ctx context.Context, id uint) (*models.Notification, error) {
	return s.store.GetByID(ctx, id)
}

func (s *NotificationService) List(ctx context.Context, recipientID uint, f repository.NotificationFilter) ([]models.Notification, error) {
	return s.store.List(ctx, recipientID, f)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.store.CountUnread(ctx, recipientID)
}

// GetStats aggregates one recipient's notifications. Pure read.
func (s *NotificationService) GetStats(ctx context.Context, recipientID uint) (*Stats, error) {
	total, err := s.store.CountTotal(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	unread, err := s.store.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	byCategory, err := s.store.CountByCategory(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	byPriority, err := s.store.CountByPriority(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}
	return &Stats{
		Total:      total,
		Unread:     unread,
		ByCategory: byCategory,
		ByPriority: byPriority,
	}, nil
}
