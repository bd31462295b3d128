package models

import (
	"time"

	"shiftwatch/internal/domain"
)

// NotificationPreferences holds one recipient's delivery settings. A row is
// created lazily with defaults the first time preferences are accessed.
type NotificationPreferences struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	RecipientID uint `gorm:"not null;uniqueIndex" json:"recipient_id"`

	ScheduleInApp bool `json:"schedule_in_app"`
	ScheduleEmail bool `json:"schedule_email"`
	ScheduleSMS   bool `json:"schedule_sms"`

	AvailabilityInApp bool `json:"availability_in_app"`
	AvailabilityEmail bool `json:"availability_email"`
	AvailabilitySMS   bool `json:"availability_sms"`

	AssignmentInApp bool `json:"assignment_in_app"`
	AssignmentEmail bool `json:"assignment_email"`
	AssignmentSMS   bool `json:"assignment_sms"`

	SystemInApp bool `json:"system_in_app"`
	SystemEmail bool `json:"system_email"`
	SystemSMS   bool `json:"system_sms"`

	ComplianceInApp bool `json:"compliance_in_app"`
	ComplianceEmail bool `json:"compliance_email"`
	ComplianceSMS   bool `json:"compliance_sms"`

	EmergencyInApp bool `json:"emergency_in_app"`
	EmergencyEmail bool `json:"emergency_email"`
	EmergencySMS   bool `json:"emergency_sms"`

	NotificationFrequency string `gorm:"size:16;not null" json:"notification_frequency"`
	EmailDigestEnabled    bool   `json:"email_digest_enabled"`
	EmailDigestFrequency  string `gorm:"size:16;not null" json:"email_digest_frequency"`
	MinimumPriority       string `gorm:"size:16;not null" json:"minimum_priority"`

	// HH:MM local times; start > end means the window spans midnight.
	// Empty strings disable quiet hours.
	QuietHoursStart string `gorm:"size:5" json:"quiet_hours_start"`
	QuietHoursEnd   string `gorm:"size:5" json:"quiet_hours_end"`

	WeekendNotifications bool `json:"weekend_notifications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationPreferences) TableName() string {
	return "notification_preferences"
}

// ChannelEnabled reports whether a category/channel pair is switched on.
func (p *NotificationPreferences) ChannelEnabled(category, channel string) bool {
	switch category {
	case domain.CategorySchedule:
		return p.pick(p.ScheduleEmail, p.ScheduleSMS, channel)
	case domain.CategoryAvailability:
		return p.pick(p.AvailabilityEmail, p.AvailabilitySMS, channel)
	case domain.CategoryAssignment:
		return p.pick(p.AssignmentEmail, p.AssignmentSMS, channel)
	case domain.CategorySystem:
		return p.pick(p.SystemEmail, p.SystemSMS, channel)
	case domain.CategoryCompliance:
		return p.pick(p.ComplianceEmail, p.ComplianceSMS, channel)
	case domain.CategoryEmergency:
		return p.pick(p.EmergencyEmail, p.EmergencySMS, channel)
	}
	return false
}

func (p *NotificationPreferences) pick(email, sms bool, channel string) bool {
	switch channel {
	case domain.ChannelEmail:
		return email
	case domain.ChannelSMS:
		return sms
	}
	return false
}

// InAppEnabled reports whether the in-app toggle is on for a category. The
// in-app record is created regardless; the toggle only drives the live feed.
func (p *NotificationPreferences) InAppEnabled(category string) bool {
	switch category {
	case domain.CategorySchedule:
		return p.ScheduleInApp
	case domain.CategoryAvailability:
		return p.AvailabilityInApp
	case domain.CategoryAssignment:
		return p.AssignmentInApp
	case domain.CategorySystem:
		return p.SystemInApp
	case domain.CategoryCompliance:
		return p.ComplianceInApp
	case domain.CategoryEmergency:
		return p.EmergencyInApp
	}
	return false
}

// DefaultPreferences returns the settings a recipient starts with: every
// in-app and email toggle on, SMS reserved for emergencies, immediate
// delivery, daily digest, no priority floor, no quiet hours.
func DefaultPreferences(recipientID uint) *NotificationPreferences {
	return &NotificationPreferences{
		RecipientID: recipientID,

		ScheduleInApp: true, ScheduleEmail: true,
		AvailabilityInApp: true, AvailabilityEmail: true,
		AssignmentInApp: true, AssignmentEmail: true,
		SystemInApp: true, SystemEmail: true,
		ComplianceInApp: true, ComplianceEmail: true,
		EmergencyInApp: true, EmergencyEmail: true, EmergencySMS: true,

		NotificationFrequency: domain.FrequencyImmediate,
		EmailDigestEnabled:    true,
		EmailDigestFrequency:  domain.DigestDaily,
		MinimumPriority:       domain.PriorityLow,
		WeekendNotifications:  true,
	}
}
