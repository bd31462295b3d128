package service

import (
	"testing"
	"time"

	"shiftwatch/internal/domain"
	"shiftwatch/internal/models"
)

func TestInQuietWindow(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		clock string
		want  bool
	}{
		{"wrap inside late", "22:00", "06:00", "23:30", true},
		{"wrap inside early", "22:00", "06:00", "05:59", true},
		{"wrap outside noon", "22:00", "06:00", "12:00", false},
		{"wrap boundary start", "22:00", "06:00", "22:00", true},
		{"wrap boundary end", "22:00", "06:00", "06:00", false},
		{"plain inside", "09:00", "17:00", "12:00", true},
		{"plain outside", "09:00", "17:00", "20:00", false},
		{"plain boundary end", "09:00", "17:00", "17:00", false},
		{"unset window", "", "", "12:00", false},
		{"equal bounds", "08:00", "08:00", "08:00", false},
		{"malformed start", "8am", "17:00", "12:00", false},
	}
	for _, tt := range tests {
		clock, err := time.Parse("15:04", tt.clock)
		if err != nil {
			t.Fatalf("bad clock %q: %v", tt.clock, err)
		}
		got := inQuietWindow(clock, tt.start, tt.end)
		if got != tt.want {
			t.Errorf("%s: inQuietWindow(%s, %s, %s) = %v, want %v", tt.name, tt.clock, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"22:00": 22 * 60,
		"06:30": 6*60 + 30,
		"23:59": 23*60 + 59,
	}
	for in, want := range valid {
		got, ok := parseClock(in)
		if !ok || got != want {
			t.Errorf("parseClock(%q) = %d, %v; want %d, true", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-30"} {
		if _, ok := parseClock(in); ok {
			t.Errorf("parseClock(%q) should fail", in)
		}
	}
}

func TestQuietWindowEnd(t *testing.T) {
	// Inside a wrapped window before midnight: the window ends tomorrow.
	now := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	end := quietWindowEnd(now, "06:00")
	want := time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("quietWindowEnd = %v, want %v", end, want)
	}

	// Inside the window after midnight: the window ends later today.
	now = time.Date(2026, 3, 3, 4, 0, 0, 0, time.UTC)
	end = quietWindowEnd(now, "06:00")
	if !end.Equal(want) {
		t.Errorf("quietWindowEnd = %v, want %v", end, want)
	}
}

// Monday noon, well outside quiet hours and weekends.
var weekdayNoon = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func notification(category, priority string) *models.Notification {
	return &models.Notification{
		RecipientID: 1,
		Category:    category,
		Priority:    priority,
		Title:       "Shift moved",
		Message:     "Your Tuesday shift now starts at 09:00",
	}
}

func TestResolveWithoutPreferences(t *testing.T) {
	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), nil, weekdayNoon)
	if !d.InApp {
		t.Error("in-app record must always be created")
	}
	if len(d.Channels) != 0 || d.DeferredUntil != nil || d.IncludeInDigest {
		t.Errorf("missing preferences should yield in-app only, got %+v", d)
	}
}

func TestResolveImmediateDelivery(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityNormal), prefs, weekdayNoon)
	if !d.InApp || !d.IncludeInDigest {
		t.Errorf("expected in-app and digest inclusion, got %+v", d)
	}
	if len(d.Channels) != 1 || d.Channels[0] != domain.ChannelEmail {
		t.Errorf("default schedule channels = %v, want [email]", d.Channels)
	}
	if d.DeferredUntil != nil {
		t.Errorf("no deferral expected at noon, got %v", d.DeferredUntil)
	}
}

func TestResolvePriorityFloor(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.MinimumPriority = domain.PriorityHigh

	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityLow), prefs, weekdayNoon)
	if !d.InApp || !d.IncludeInDigest {
		t.Errorf("below-floor notification must stay visible in-app and in digests, got %+v", d)
	}
	if len(d.Channels) != 0 {
		t.Errorf("below-floor notification got channels %v", d.Channels)
	}

	d = ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), prefs, weekdayNoon)
	if len(d.Channels) == 0 {
		t.Error("at-floor notification should get channels")
	}
}

func TestResolveEmergencyBypassesQuietHours(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.QuietHoursStart = "22:00"
	prefs.QuietHoursEnd = "06:00"
	lateEvening := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	d := ResolveDelivery(notification(domain.CategoryEmergency, domain.PriorityCritical), prefs, lateEvening)
	if len(d.Channels) == 0 {
		t.Fatal("emergency must deliver immediately")
	}
	if d.DeferredUntil != nil {
		t.Errorf("emergency must bypass quiet hours, got deferral %v", d.DeferredUntil)
	}
	if !contains(d.Channels, domain.ChannelSMS) {
		t.Errorf("default emergency channels = %v, want sms included", d.Channels)
	}
}

func TestResolveCriticalPriorityBypassesQuietHours(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.QuietHoursStart = "22:00"
	prefs.QuietHoursEnd = "06:00"
	lateEvening := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	d := ResolveDelivery(notification(domain.CategoryCompliance, domain.PriorityCritical), prefs, lateEvening)
	if len(d.Channels) == 0 || d.DeferredUntil != nil {
		t.Errorf("critical priority must bypass quiet hours, got %+v", d)
	}
}

func TestResolveQuietHoursDefer(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.QuietHoursStart = "22:00"
	prefs.QuietHoursEnd = "06:00"
	lateEvening := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityNormal), prefs, lateEvening)
	if len(d.Channels) == 0 {
		t.Fatal("channels stay allowed during quiet hours, just deferred")
	}
	if d.DeferredUntil == nil {
		t.Fatal("expected deferral inside quiet hours")
	}
	want := time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)
	if !d.DeferredUntil.Equal(want) {
		t.Errorf("DeferredUntil = %v, want %v", d.DeferredUntil, want)
	}
}

func TestResolveDisabledFrequency(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.NotificationFrequency = domain.FrequencyDisabled

	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), prefs, weekdayNoon)
	if len(d.Channels) != 0 {
		t.Errorf("disabled frequency must suppress channels, got %v", d.Channels)
	}
	if !d.InApp {
		t.Error("in-app record survives disabled frequency")
	}
}

func TestResolveBatchedFrequency(t *testing.T) {
	for _, freq := range []string{domain.FrequencyHourly, domain.FrequencyDaily, domain.FrequencyWeekly} {
		prefs := models.DefaultPreferences(1)
		prefs.NotificationFrequency = freq
		d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), prefs, weekdayNoon)
		if len(d.Channels) != 0 {
			t.Errorf("frequency %s must batch instead of firing per event, got %v", freq, d.Channels)
		}
	}
}

func TestResolveWeekendSuppression(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.WeekendNotifications = false
	saturdayNoon := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), prefs, saturdayNoon)
	if len(d.Channels) != 0 {
		t.Errorf("weekend opt-out must suppress channels, got %v", d.Channels)
	}

	// Critical still goes through on weekends.
	d = ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityCritical), prefs, saturdayNoon)
	if len(d.Channels) == 0 {
		t.Error("critical priority must override weekend suppression")
	}
}

func TestResolveChannelTogglesOff(t *testing.T) {
	prefs := models.DefaultPreferences(1)
	prefs.ScheduleEmail = false

	d := ResolveDelivery(notification(domain.CategorySchedule, domain.PriorityHigh), prefs, weekdayNoon)
	if len(d.Channels) != 0 {
		t.Errorf("all channels toggled off for category, got %v", d.Channels)
	}
}
