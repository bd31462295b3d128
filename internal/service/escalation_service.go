package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
)

type CreateEscalationInput struct {
	OriginalNotificationID uint
	RecipientID            uint
	Level                  int
	Reason                 string
	EscalatedTo            string
}

// SweepResult reports the per-item outcome of a reminder sweep. One item's
// failure never aborts the batch.
type SweepResult struct {
	Examined int      `json:"examined"`
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

type EscalationService struct {
	store         EscalationStore
	notifications NotificationStore
	prefs         *PreferenceService
	clock         func() time.Time
}

func NewEscalationService(store EscalationStore, notifications NotificationStore, prefs *PreferenceService) *EscalationService {
	return &EscalationService{
		store:         store,
		notifications: notifications,
		prefs:         prefs,
		clock:         time.Now,
	}
}

// Create records an escalation for an unacknowledged notification. Levels
// must strictly increase per chain and never exceed the ceiling. An
// escalation filed against an already-acknowledged notification is kept for
// the audit trail but resolved on the spot — a deliberate policy, not a
// timing guarantee.
func (s *EscalationService) Create(ctx context.Context, in CreateEscalationInput) (*models.Escalation, error) {
	if in.OriginalNotificationID == 0 {
		return nil, domain.Validation("original_notification_id", "required")
	}
	if in.Reason == "" {
		return nil, domain.Validation("reason", "required")
	}
	if in.Level < 1 {
		return nil, domain.Validation("escalation_level", "must be at least 1")
	}
	if in.Level > domain.MaxEscalationLevel {
		return nil, fmt.Errorf("level %d exceeds ceiling %d: %w", in.Level, domain.MaxEscalationLevel, domain.ErrConflict)
	}

	original, err := s.notifications.GetByID(ctx, in.OriginalNotificationID)
	if err != nil {
		return nil, err
	}
	recipientID := in.RecipientID
	if recipientID == 0 {
		recipientID = original.RecipientID
	}

	e := &models.Escalation{
		OriginalNotificationID: in.OriginalNotificationID,
		RecipientID:            recipientID,
		EscalationLevel:        in.Level,
		Reason:                 in.Reason,
		EscalatedTo:            in.EscalatedTo,
		CreatedAt:              s.clock(),
	}
	if err := s.store.CreateChained(ctx, e); err != nil {
		return nil, err
	}

	if original.IsAcknowledged() {
		if err := s.ResolveChain(ctx, in.OriginalNotificationID); err != nil {
			return nil, err
		}
		resolved := s.clock()
		e.ResolvedAt = &resolved
	}
	return e, nil
}

// ResolveChain closes every open escalation for the original notification.
// Idempotent: resolving an empty or already-closed chain is a no-op.
func (s *EscalationService) ResolveChain(ctx context.Context, originalNotificationID uint) error {
	if _, err := s.store.ResolveChain(ctx, originalNotificationID, s.clock()); err != nil {
		return fmt.Errorf("resolve chain for notification %d: %w", originalNotificationID, err)
	}
	return nil
}

// Resolve closes the chain an escalation belongs to, looked up by
// escalation id.
func (s *EscalationService) Resolve(ctx context.Context, escalationID uint) (*models.Escalation, error) {
	e, err := s.store.GetByID(ctx, escalationID)
	if err != nil {
		return nil, err
	}
	if err := s.ResolveChain(ctx, e.OriginalNotificationID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, escalationID)
}

func (s *EscalationService) ListByOriginal(ctx context.Context, originalNotificationID uint) ([]models.Escalation, error) {
	return s.store.ListByOriginal(ctx, originalNotificationID)
}

// Sweep creates a next-level escalation for every notification still
// unacknowledged past the cutoff. Chains whose newest open escalation is
// younger than the cutoff are left alone, so repeated sweeps do not stack
// reminders. Items failing individually are counted, not fatal.
func (s *EscalationService) Sweep(ctx context.Context, olderThan time.Duration) (*SweepResult, error) {
	if olderThan <= 0 {
		return nil, domain.Validation("older_than", "must be positive")
	}
	cutoff := s.clock().Add(-olderThan)
	pending, err := s.notifications.ListUnacknowledgedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list unacknowledged notifications: %w", err)
	}

	result := &SweepResult{Examined: len(pending)}
	for _, n := range pending {
		ok, err := s.sweepOne(ctx, &n, cutoff)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("notification %d: %v", n.ID, err))
		case ok:
			result.Created++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

func (s *EscalationService) sweepOne(ctx context.Context, n *models.Notification, cutoff time.Time) (bool, error) {
	// Below-floor notifications are stored and digested but never escalate.
	prefs, err := s.prefs.GetOrCreate(ctx, n.RecipientID)
	if err == nil && domain.PriorityRank(n.Priority) < domain.PriorityRank(prefs.MinimumPriority) {
		return false, nil
	}

	latest, err := s.store.LatestUnresolved(ctx, n.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if latest != nil && latest.CreatedAt.After(cutoff) {
		return false, nil
	}

	highest, err := s.store.HighestLevel(ctx, n.ID)
	if err != nil {
		return false, err
	}
	if highest >= domain.MaxEscalationLevel {
		return false, nil
	}

	e := &models.Escalation{
		OriginalNotificationID: n.ID,
		RecipientID:            n.RecipientID,
		EscalationLevel:        highest + 1,
		Reason:                 "unacknowledged past reminder window",
		CreatedAt:              s.clock(),
	}
	if err := s.store.CreateChained(ctx, e); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent sweep or producer won the level; nothing to add.
			return false, nil
		}
		return false, err
	}
	return true, nil
}
