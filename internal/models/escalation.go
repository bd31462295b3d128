package models

import "time"

// Escalation raises an unacknowledged notification to another attention
// level. Levels for one original notification form a strictly increasing
// sequence; acknowledging the original resolves the whole chain.
type Escalation struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	OriginalNotificationID uint       `gorm:"not null;index" json:"original_notification_id"`
	RecipientID            uint       `gorm:"not null;index" json:"recipient_id"`
	EscalationLevel        int        `gorm:"not null" json:"escalation_level"`
	Reason                 string     `gorm:"size:255;not null" json:"reason"`
	EscalatedTo            string     `gorm:"size:128" json:"escalated_to,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	ResolvedAt             *time.Time `json:"resolved_at"`
}

func (Escalation) TableName() string {
	return "escalations"
}

func (e *Escalation) IsResolved() bool {
	return e.ResolvedAt != nil
}
