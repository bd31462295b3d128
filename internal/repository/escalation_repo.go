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

type EscalationRepository struct {
	db *gorm.DB
}

func NewEscalationRepository(db *gorm.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// CreateChained inserts an escalation while enforcing that levels for one
// original notification strictly increase. The max-level read and the insert
// share a transaction with a row lock, so concurrent producers cannot slip
// in the same level twice. Returns domain.ErrConflict when the level does
// not exceed the current maximum.
func (r *EscalationRepository) CreateChained(ctx context.Context, e *models.Escalation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max int
		err := tx.Model(&models.Escalation{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("original_notification_id = ?", e.OriginalNotificationID).
			Select("COALESCE(MAX(escalation_level), 0)").
			Scan(&max).Error
		if err != nil {
			return err
		}
		if e.EscalationLevel <= max {
			return domain.ErrConflict
		}
		return tx.Create(e).Error
	})
}

func (r *EscalationRepository) GetByID(ctx context.Context, id uint) (*models.Escalation, error) {
	var e models.Escalation
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EscalationRepository) HighestLevel(ctx context.Context, originalNotificationID uint) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Escalation{}).
		Where("original_notification_id = ?", originalNotificationID).
		Select("COALESCE(MAX(escalation_level), 0)").
		Scan(&max).Error
	return max, err
}

// LatestUnresolved returns the newest open escalation in a chain, or
// domain.ErrNotFound when the chain has none.
func (r *EscalationRepository) LatestUnresolved(ctx context.Context, originalNotificationID uint) (*models.Escalation, error) {
	var e models.Escalation
	err := r.db.WithContext(ctx).
		Where("original_notification_id = ? AND resolved_at IS NULL", originalNotificationID).
		Order("escalation_level DESC").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ResolveChain marks every open escalation for the original notification as
// resolved. Idempotent: already-resolved rows are untouched.
func (r *EscalationRepository) ResolveChain(ctx context.Context, originalNotificationID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Escalation{}).
		Where("original_notification_id = ? AND resolved_at IS NULL", originalNotificationID).
		Update("resolved_at", at)
	return res.RowsAffected, res.Error
}

func (r *EscalationRepository) ListByOriginal(ctx context.Context, originalNotificationID uint) ([]models.Escalation, error) {
	var list []models.Escalation
	err := r.db.WithContext(ctx).
		Where("original_notification_id = ?", originalNotificationID).
		Order("escalation_level ASC").
		Find(&list).Error
	return list, err
}
