package service

import (
	"strconv"
	"strings"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
)

// DeliveryDecision is the preference resolver's verdict for one
// notification: the in-app record is always created; Channels holds the
// immediate channels allowed beyond it. A non-nil DeferredUntil means those
// channels must wait for quiet hours to end.
type DeliveryDecision struct {
	InApp           bool       `json:"in_app"`
	Channels        []string   `json:"channels"`
	DeferredUntil   *time.Time `json:"deferred_until,omitempty"`
	IncludeInDigest bool       `json:"include_in_digest"`
}

// ResolveDelivery applies a recipient's preferences to a candidate
// notification. It never fails: with no preferences the decision is the
// conservative in-app-only default.
//
// Rules, in order: the in-app record is unconditional; priorities below the
// recipient's floor get no channels; emergency category or critical priority
// bypasses quiet hours, pacing and the weekend rule; quiet hours defer
// delivery until the window closes; only the immediate frequency fires
// per-event (hourly/daily/weekly batch, disabled never fires); weekends are
// suppressed when the recipient opted out.
func ResolveDelivery(n *models.Notification, prefs *models.NotificationPreferences, now time.Time) DeliveryDecision {
	decision := DeliveryDecision{InApp: true}
	if prefs == nil {
		return decision
	}
	decision.IncludeInDigest = prefs.EmailDigestEnabled

	if domain.PriorityRank(n.Priority) < domain.PriorityRank(prefs.MinimumPriority) {
		return decision
	}

	var channels []string
	for _, ch := range []string{domain.ChannelEmail, domain.ChannelSMS} {
		if prefs.ChannelEnabled(n.Category, ch) {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		return decision
	}

	if n.Category == domain.CategoryEmergency || n.Priority == domain.PriorityCritical {
		decision.Channels = channels
		return decision
	}

	var deferredUntil *time.Time
	if inQuietWindow(now, prefs.QuietHoursStart, prefs.QuietHoursEnd) {
		end := quietWindowEnd(now, prefs.QuietHoursEnd)
		deferredUntil = &end
	}

	switch prefs.NotificationFrequency {
	case domain.FrequencyImmediate:
	case domain.FrequencyHourly, domain.FrequencyDaily, domain.FrequencyWeekly:
		// Batched: a scheduling collaborator owns the periodic flush, so no
		// immediate channels fire for this event.
		return decision
	default:
		// disabled, or an unknown value treated conservatively
		return decision
	}

	if !prefs.WeekendNotifications && isWeekend(now) {
		return decision
	}

	decision.Channels = channels
	decision.DeferredUntil = deferredUntil
	return decision
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// inQuietWindow reports whether t falls inside [start, end). A start after
// end means the window spans midnight. Missing, malformed, or equal bounds
// mean no window.
func inQuietWindow(t time.Time, start, end string) bool {
	s, ok := parseClock(start)
	if !ok {
		return false
	}
	e, ok := parseClock(end)
	if !ok || s == e {
		return false
	}
	cur := t.Hour()*60 + t.Minute()
	if s > e {
		return cur >= s || cur < e
	}
	return cur >= s && cur < e
}

// quietWindowEnd returns the next occurrence of the HH:MM end bound after t,
// in t's location. Callers check inQuietWindow first, so end always parses.
func quietWindowEnd(t time.Time, end string) time.Time {
	e, _ := parseClock(end)
	candidate := time.Date(t.Year(), t.Month(), t.Day(), e/60, e%60, 0, 0, t.Location())
	if !candidate.After(t) {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}
