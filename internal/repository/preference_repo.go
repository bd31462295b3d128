package repository

import (
	"context"
	"errors"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByRecipient(ctx context.Context, recipientID uint) (*models.NotificationPreferences, error) {
	var p models.NotificationPreferences
	err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PreferenceRepository) Create(ctx context.Context, p *models.NotificationPreferences) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PreferenceRepository) Save(ctx context.Context, p *models.NotificationPreferences) error {
	return r.db.WithContext(ctx).Save(p).Error
}
