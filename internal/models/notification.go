package models

import (
	"time"
)

// Notification is one addressed alert. Rows are never deleted; read and
// acknowledge timestamps only move forward.
type Notification struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	Category    string `gorm:"size:32;not null;index" json:"category"`
	Priority    string `gorm:"size:16;not null;index" json:"priority"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Message     string `gorm:"type:text;not null" json:"message"`
	EntityType  string `gorm:"size:64" json:"entity_type,omitempty"`
	EntityID    uint   `json:"entity_id,omitempty"`

	// Delivery decision recorded at create time. Channels is the comma-joined
	// set of immediate channels the preference resolver allowed.
	Channels        string     `gorm:"size:64" json:"channels"`
	DeferredUntil   *time.Time `json:"deferred_until,omitempty"`
	IncludeInDigest bool       `json:"include_in_digest"`

	ReadAt         *time.Time `json:"read_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

func (n *Notification) IsAcknowledged() bool {
	return n.AcknowledgedAt != nil
}
