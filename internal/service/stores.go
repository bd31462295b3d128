package service

import (
	"context"
	"time"

	"shiftwatch/internal/models"
	"shiftwatch/internal/repository"
)

// Store interfaces consumed by the services and satisfied by the gorm
// repositories. Service tests substitute in-memory fakes.

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	UpdateLifecycle(ctx context.Context, id uint, apply func(n *models.Notification) error) (*models.Notification, error)
	List(ctx context.Context, recipientID uint, f repository.NotificationFilter) ([]models.Notification, error)
	ListWindow(ctx context.Context, recipientID uint, start, end time.Time) ([]models.Notification, error)
	ListUnacknowledgedBefore(ctx context.Context, cutoff time.Time) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	CountTotal(ctx context.Context, recipientID uint) (int64, error)
	CountByCategory(ctx context.Context, recipientID uint) (map[string]int64, error)
	CountByPriority(ctx context.Context, recipientID uint) (map[string]int64, error)
}

type EscalationStore interface {
	// CreateChained must atomically enforce strictly increasing levels per
	// original notification, returning domain.ErrConflict otherwise.
	CreateChained(ctx context.Context, e *models.Escalation) error
	GetByID(ctx context.Context, id uint) (*models.Escalation, error)
	HighestLevel(ctx context.Context, originalNotificationID uint) (int, error)
	LatestUnresolved(ctx context.Context, originalNotificationID uint) (*models.Escalation, error)
	ResolveChain(ctx context.Context, originalNotificationID uint, at time.Time) (int64, error)
	ListByOriginal(ctx context.Context, originalNotificationID uint) ([]models.Escalation, error)
}

type PreferenceStore interface {
	GetByRecipient(ctx context.Context, recipientID uint) (*models.NotificationPreferences, error)
	Create(ctx context.Context, p *models.NotificationPreferences) error
	Save(ctx context.Context, p *models.NotificationPreferences) error
}

// FeedPusher delivers a created notification to the recipient's live in-app
// connections. The websocket hub implements it; a nil-safe no-op is fine.
type FeedPusher interface {
	BroadcastToRecipient(recipientID uint, payload interface{})
}
