package service

import (
	"context"
	"fmt"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
)

type DigestService struct {
	store NotificationStore
	clock func() time.Time
}

func NewDigestService(store NotificationStore) *DigestService {
	return &DigestService{store: store, clock: time.Now}
}

// Build computes a digest over [start, end) for one recipient. Pure read:
// identical arguments always yield the identical notification set, and
// adjacent windows never share a notification because the window is
// half-open. When start/end are nil the window defaults to the last day or
// week ending now. The delivery schedule is the window's end — a digest goes
// out once its period closes.
func (s *DigestService) Build(ctx context.Context, recipientID uint, start, end *time.Time, frequency string) (*models.Digest, error) {
	if recipientID == 0 {
		return nil, domain.Validation("recipient_id", "required")
	}
	if !domain.ValidDigestFrequency(frequency) {
		return nil, domain.Validation("frequency", "must be daily or weekly")
	}

	now := s.clock()
	var from, to time.Time
	switch {
	case start != nil && end != nil:
		from, to = *start, *end
	case start == nil && end == nil:
		to = now
		if frequency == domain.DigestWeekly {
			from = now.Add(-7 * 24 * time.Hour)
		} else {
			from = now.Add(-24 * time.Hour)
		}
	default:
		return nil, domain.Validation("period", "start and end must be supplied together")
	}
	if !from.Before(to) {
		return nil, domain.Validation("period", "start must precede end")
	}

	notifications, err := s.store.ListWindow(ctx, recipientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list digest window: %w", err)
	}

	counts := make(map[string]int)
	unread := 0
	for _, n := range notifications {
		counts[n.Category]++
		if !n.IsRead() {
			unread++
		}
	}

	return &models.Digest{
		RecipientID:      recipientID,
		Frequency:        frequency,
		Period:           models.DigestPeriod{Start: from, End: to},
		Notifications:    notifications,
		CategoryCounts:   counts,
		Total:            len(notifications),
		Unread:           unread,
		DeliverySchedule: to,
		GeneratedAt:      now,
	}, nil
}
