package repository

import (
	"context"
	"errors"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationFilter narrows a recipient's notification listing. Zero values
// mean "no constraint"; Unread/Acknowledged are tri-state via pointers.
type NotificationFilter struct {
	Categories   []string
	Priorities   []string
	Unread       *bool
	Acknowledged *bool
	EntityType   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).First(&n, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// UpdateLifecycle applies a state transition to one notification inside a
// transaction holding a row lock, so concurrent read/acknowledge calls
// serialize per notification.
func (r *NotificationRepository) UpdateLifecycle(ctx context.Context, id uint, apply func(n *models.Notification) error) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&n, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := apply(&n); err != nil {
			return err
		}
		return tx.Save(&n).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) List(ctx context.Context, recipientID uint, f NotificationFilter) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if len(f.Priorities) > 0 {
		q = q.Where("priority IN ?", f.Priorities)
	}
	if f.Unread != nil {
		if *f.Unread {
			q = q.Where("read_at IS NULL")
		} else {
			q = q.Where("read_at IS NOT NULL")
		}
	}
	if f.Acknowledged != nil {
		if *f.Acknowledged {
			q = q.Where("acknowledged_at IS NOT NULL")
		} else {
			q = q.Where("acknowledged_at IS NULL")
		}
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var list []models.Notification
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&list).Error
	return list, err
}

// ListWindow returns all notifications created in [start, end), oldest first.
// A single query, so digest builds see a consistent snapshot.
func (r *NotificationRepository) ListWindow(ctx context.Context, recipientID uint, start, end time.Time) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, start, end).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ListUnacknowledgedBefore returns notifications still unacknowledged that
// were created before the cutoff, for the escalation reminder sweep.
func (r *NotificationRepository) ListUnacknowledgedBefore(ctx context.Context, cutoff time.Time) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("acknowledged_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) CountTotal(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&count).Error
	return count, err
}

type bucketCount struct {
	Bucket string
	Count  int64
}

func (r *NotificationRepository) CountByCategory(ctx context.Context, recipientID uint) (map[string]int64, error) {
	return r.countGrouped(ctx, recipientID, "category")
}

func (r *NotificationRepository) CountByPriority(ctx context.Context, recipientID uint) (map[string]int64, error) {
	return r.countGrouped(ctx, recipientID, "priority")
}

func (r *NotificationRepository) countGrouped(ctx context.Context, recipientID uint, column string) (map[string]int64, error) {
	var rows []bucketCount
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Select(column+" AS bucket, COUNT(*) AS count").
		Where("recipient_id = ?", recipientID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Bucket] = row.Count
	}
	return counts, nil
}
