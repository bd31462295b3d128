package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
	"shiftwatch/internal/repository"
)

// In-memory stores standing in for the gorm repositories.

type fakeNotificationStore struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{items: make(map[uint]*models.Notification)}
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	cp := *n
	s.items[n.ID] = &cp
	return nil
}

func (s *fakeNotificationStore) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *fakeNotificationStore) UpdateLifecycle(_ context.Context, id uint, apply func(n *models.Notification) error) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *n
	if err := apply(&cp); err != nil {
		return nil, err
	}
	s.items[id] = &cp
	out := cp
	return &out, nil
}

func (s *fakeNotificationStore) List(_ context.Context, recipientID uint, f repository.NotificationFilter) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Notification
	for _, n := range s.items {
		if n.RecipientID != recipientID {
			continue
		}
		if len(f.Categories) > 0 && !contains(f.Categories, n.Category) {
			continue
		}
		if len(f.Priorities) > 0 && !contains(f.Priorities, n.Priority) {
			continue
		}
		if f.Unread != nil && *f.Unread == n.IsRead() {
			continue
		}
		if f.Acknowledged != nil && *f.Acknowledged != n.IsAcknowledged() {
			continue
		}
		list = append(list, *n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *fakeNotificationStore) ListWindow(_ context.Context, recipientID uint, start, end time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Notification
	for _, n := range s.items {
		if n.RecipientID != recipientID {
			continue
		}
		if n.CreatedAt.Before(start) || !n.CreatedAt.Before(end) {
			continue
		}
		list = append(list, *n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *fakeNotificationStore) ListUnacknowledgedBefore(_ context.Context, cutoff time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Notification
	for _, n := range s.items {
		if n.AcknowledgedAt == nil && n.CreatedAt.Before(cutoff) {
			list = append(list, *n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.items {
		if n.RecipientID == recipientID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) CountTotal(_ context.Context, recipientID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.items {
		if n.RecipientID == recipientID {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) CountByCategory(_ context.Context, recipientID uint) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, n := range s.items {
		if n.RecipientID == recipientID {
			counts[n.Category]++
		}
	}
	return counts, nil
}

func (s *fakeNotificationStore) CountByPriority(_ context.Context, recipientID uint) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, n := range s.items {
		if n.RecipientID == recipientID {
			counts[n.Priority]++
		}
	}
	return counts, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type fakeEscalationStore struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*models.Escalation
}

func newFakeEscalationStore() *fakeEscalationStore {
	return &fakeEscalationStore{items: make(map[uint]*models.Escalation)}
}

func (s *fakeEscalationStore) CreateChained(_ context.Context, e *models.Escalation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, it := range s.items {
		if it.OriginalNotificationID == e.OriginalNotificationID && it.EscalationLevel > max {
			max = it.EscalationLevel
		}
	}
	if e.EscalationLevel <= max {
		return domain.ErrConflict
	}
	s.nextID++
	e.ID = s.nextID
	cp := *e
	s.items[e.ID] = &cp
	return nil
}

func (s *fakeEscalationStore) GetByID(_ context.Context, id uint) (*models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEscalationStore) HighestLevel(_ context.Context, originalID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, e := range s.items {
		if e.OriginalNotificationID == originalID && e.EscalationLevel > max {
			max = e.EscalationLevel
		}
	}
	return max, nil
}

func (s *fakeEscalationStore) LatestUnresolved(_ context.Context, originalID uint) (*models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Escalation
	for _, e := range s.items {
		if e.OriginalNotificationID != originalID || e.ResolvedAt != nil {
			continue
		}
		if latest == nil || e.EscalationLevel > latest.EscalationLevel {
			latest = e
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *fakeEscalationStore) ResolveChain(_ context.Context, originalID uint, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, e := range s.items {
		if e.OriginalNotificationID == originalID && e.ResolvedAt == nil {
			t := at
			e.ResolvedAt = &t
			affected++
		}
	}
	return affected, nil
}

func (s *fakeEscalationStore) ListByOriginal(_ context.Context, originalID uint) ([]models.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []models.Escalation
	for _, e := range s.items {
		if e.OriginalNotificationID == originalID {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EscalationLevel < list[j].EscalationLevel })
	return list, nil
}

type fakePreferenceStore struct {
	mu          sync.Mutex
	nextID      uint
	byRecipient map[uint]*models.NotificationPreferences
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{byRecipient: make(map[uint]*models.NotificationPreferences)}
}

func (s *fakePreferenceStore) GetByRecipient(_ context.Context, recipientID uint) (*models.NotificationPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byRecipient[recipientID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePreferenceStore) Create(_ context.Context, p *models.NotificationPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byRecipient[p.RecipientID]; ok {
		return domain.ErrConflict
	}
	s.nextID++
	p.ID = s.nextID
	cp := *p
	s.byRecipient[p.RecipientID] = &cp
	return nil
}

func (s *fakePreferenceStore) Save(_ context.Context, p *models.NotificationPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.byRecipient[p.RecipientID] = &cp
	return nil
}

// fakeFeed records feed pushes per recipient.
type fakeFeed struct {
	mu     sync.Mutex
	pushes map[uint]int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{pushes: make(map[uint]int)}
}

func (f *fakeFeed) BroadcastToRecipient(recipientID uint, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes[recipientID]++
}

func (f *fakeFeed) count(recipientID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes[recipientID]
}
