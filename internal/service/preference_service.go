package service

import (
	"context"
	"errors"
	"fmt"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"

	"github.com/go-playground/validator/v10"
)

// PreferencePatch is a typed partial update. Only non-nil fields are
// applied; unknown JSON fields never reach the model because they have no
// place to land here.
type PreferencePatch struct {
	ScheduleInApp *bool `json:"schedule_in_app"`
	ScheduleEmail *bool `json:"schedule_email"`
	ScheduleSMS   *bool `json:"schedule_sms"`

	AvailabilityInApp *bool `json:"availability_in_app"`
	AvailabilityEmail *bool `json:"availability_email"`
	AvailabilitySMS   *bool `json:"availability_sms"`

	AssignmentInApp *bool `json:"assignment_in_app"`
	AssignmentEmail *bool `json:"assignment_email"`
	AssignmentSMS   *bool `json:"assignment_sms"`

	SystemInApp *bool `json:"system_in_app"`
	SystemEmail *bool `json:"system_email"`
	SystemSMS   *bool `json:"system_sms"`

	ComplianceInApp *bool `json:"compliance_in_app"`
	ComplianceEmail *bool `json:"compliance_email"`
	ComplianceSMS   *bool `json:"compliance_sms"`

	EmergencyInApp *bool `json:"emergency_in_app"`
	EmergencyEmail *bool `json:"emergency_email"`
	EmergencySMS   *bool `json:"emergency_sms"`

	NotificationFrequency *string `json:"notification_frequency" validate:"omitempty,oneof=immediate hourly daily weekly disabled"`
	EmailDigestEnabled    *bool   `json:"email_digest_enabled"`
	EmailDigestFrequency  *string `json:"email_digest_frequency" validate:"omitempty,oneof=daily weekly"`
	MinimumPriority       *string `json:"minimum_priority" validate:"omitempty,oneof=low normal high critical"`

	// Empty string clears the quiet-hours bound.
	QuietHoursStart *string `json:"quiet_hours_start" validate:"omitempty,datetime=15:04"`
	QuietHoursEnd   *string `json:"quiet_hours_end" validate:"omitempty,datetime=15:04"`

	WeekendNotifications *bool `json:"weekend_notifications"`
}

type PreferenceService struct {
	store    PreferenceStore
	validate *validator.Validate
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{
		store:    store,
		validate: validator.New(),
	}
}

// GetOrCreate loads a recipient's preferences, creating the default row on
// first access.
func (s *PreferenceService) GetOrCreate(ctx context.Context, recipientID uint) (*models.NotificationPreferences, error) {
	p, err := s.store.GetByRecipient(ctx, recipientID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load preferences for recipient %d: %w", recipientID, err)
	}
	p = models.DefaultPreferences(recipientID)
	if err := s.store.Create(ctx, p); err != nil {
		// Lost a create race; the winner's row is authoritative.
		if existing, getErr := s.store.GetByRecipient(ctx, recipientID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create default preferences for recipient %d: %w", recipientID, err)
	}
	return p, nil
}

// Update validates and applies a typed patch, returning the stored result.
func (s *PreferenceService) Update(ctx context.Context, recipientID uint, patch PreferencePatch) (*models.NotificationPreferences, error) {
	if err := s.validate.Struct(patch); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, domain.Validation(verrs[0].Field(), "invalid value")
		}
		return nil, domain.Validation("patch", "invalid value")
	}

	p, err := s.GetOrCreate(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	applyPatch(p, patch)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save preferences for recipient %d: %w", recipientID, err)
	}
	return p, nil
}

func applyPatch(p *models.NotificationPreferences, patch PreferencePatch) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setBool(&p.ScheduleInApp, patch.ScheduleInApp)
	setBool(&p.ScheduleEmail, patch.ScheduleEmail)
	setBool(&p.ScheduleSMS, patch.ScheduleSMS)
	setBool(&p.AvailabilityInApp, patch.AvailabilityInApp)
	setBool(&p.AvailabilityEmail, patch.AvailabilityEmail)
	setBool(&p.AvailabilitySMS, patch.AvailabilitySMS)
	setBool(&p.AssignmentInApp, patch.AssignmentInApp)
	setBool(&p.AssignmentEmail, patch.AssignmentEmail)
	setBool(&p.AssignmentSMS, patch.AssignmentSMS)
	setBool(&p.SystemInApp, patch.SystemInApp)
	setBool(&p.SystemEmail, patch.SystemEmail)
	setBool(&p.SystemSMS, patch.SystemSMS)
	setBool(&p.ComplianceInApp, patch.ComplianceInApp)
	setBool(&p.ComplianceEmail, patch.ComplianceEmail)
	setBool(&p.ComplianceSMS, patch.ComplianceSMS)
	setBool(&p.EmergencyInApp, patch.EmergencyInApp)
	setBool(&p.EmergencyEmail, patch.EmergencyEmail)
	setBool(&p.EmergencySMS, patch.EmergencySMS)

	setString(&p.NotificationFrequency, patch.NotificationFrequency)
	setBool(&p.EmailDigestEnabled, patch.EmailDigestEnabled)
	setString(&p.EmailDigestFrequency, patch.EmailDigestFrequency)
	setString(&p.MinimumPriority, patch.MinimumPriority)
	setString(&p.QuietHoursStart, patch.QuietHoursStart)
	setString(&p.QuietHoursEnd, patch.QuietHoursEnd)
	setBool(&p.WeekendNotifications, patch.WeekendNotifications)
}
