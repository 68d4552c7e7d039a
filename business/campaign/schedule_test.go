//go:build !integration

package campaign

import (
	"errors"
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-07-01T09:30:00Z", time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-07-01T11:30:00+02:00", time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-07-01T09:30:00", time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-07-01T09:30:00.250", time.Date(2024, 7, 1, 9, 30, 0, 250_000_000, time.UTC)},
		{"2024-07-01", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-06-01 10:00:00+02:00", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-06-01 10:00:00Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01 10:00:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01 10:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseScheduleTime(tt.in)
		if err != nil {
			t.Errorf("ParseScheduleTime(%q) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseScheduleTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseScheduleTimeBlankAndInvalid(t *testing.T) {
	if got, err := ParseScheduleTime("  "); got != nil || err != nil {
		t.Errorf("blank = %v, %v; want nil, nil", got, err)
	}

	for _, in := range []string{"tomorrow", "2024-13-01", "01/07/2024"} {
		if _, err := ParseScheduleTime(in); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("ParseScheduleTime(%q) err = %v, want ErrInvalidSchedule", in, err)
		}
	}
}
