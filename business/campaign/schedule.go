package campaign

import (
	"marketingCRM/domain"
	"strings"
	"time"
)

var ErrInvalidSchedule = domain.Invalid("invalid schedule_time, expected an ISO 8601 date-time")

var scheduleLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseScheduleTime reads an ISO 8601 timestamp. A trailing Z means UTC and
// values without an offset are taken as UTC. Blank input means no schedule.
func ParseScheduleTime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range scheduleLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, ErrInvalidSchedule
}
