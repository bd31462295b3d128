package models

import "time"

// DigestPeriod is the half-open window [Start, End) a digest covers.
type DigestPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Digest is a computed summary of one recipient's notifications over a
// window. It is never persisted; rebuilding the same window yields the same
// notification set.
type Digest struct {
	RecipientID      uint           `json:"recipient_id"`
	Frequency        string         `json:"frequency"`
	Period           DigestPeriod   `json:"period"`
	Notifications    []Notification `json:"notifications"`
	CategoryCounts   map[string]int `json:"category_counts"`
	Total            int            `json:"total"`
	Unread           int            `json:"unread"`
	DeliverySchedule time.Time      `json:"delivery_schedule"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
