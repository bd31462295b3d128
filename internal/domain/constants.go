package domain

// Notification categories raised by platform producers.
const (
	CategorySchedule     = "schedule"
	CategoryAvailability = "availability"
	CategoryAssignment   = "assignment"
	CategorySystem       = "system"
	CategoryCompliance   = "compliance"
	CategoryEmergency    = "emergency"
)

const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Non-in-app delivery pacing for a recipient.
const (
	FrequencyImmediate = "immediate"
	FrequencyHourly    = "hourly"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyDisabled  = "disabled"
)

const (
	DigestDaily  = "daily"
	DigestWeekly = "weekly"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	RoleUser    = "USER"
	RoleService = "SERVICE"
)

// MaxEscalationLevel is the ceiling for any escalation chain.
const MaxEscalationLevel = 5

var Categories = []string{
	CategorySchedule,
	CategoryAvailability,
	CategoryAssignment,
	CategorySystem,
	CategoryCompliance,
	CategoryEmergency,
}

var priorityRank = map[string]int{
	PriorityLow:      0,
	PriorityNormal:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

func ValidPriority(s string) bool {
	_, ok := priorityRank[s]
	return ok
}

func ValidFrequency(s string) bool {
	switch s {
	case FrequencyImmediate, FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyDisabled:
		return true
	}
	return false
}

func ValidDigestFrequency(s string) bool {
	return s == DigestDaily || s == DigestWeekly
}

// PriorityRank orders priorities low < normal < high < critical.
// Unknown priorities rank below low.
func PriorityRank(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return -1
}
