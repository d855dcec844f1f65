package timeline

import (
	"time"
)

const (
	// WallClockLayout is the format of naive local timestamps exchanged
	// with providers and consumers.
	WallClockLayout = "2006-01-02T15:04:05"
	// DateLayout is the format of the day being planned.
	DateLayout = "2006-01-02"
	// ClockLayout is the format of configured times of day.
	ClockLayout = "15:04"
)

var wallClockLayouts = []string{
	WallClockLayout,
	"2006-01-02T15:04",
	DateLayout,
}

// ParseWallClock parses a naive local timestamp. A trailing UTC offset is
// accepted and dropped, keeping the wall-clock reading as written.
func ParseWallClock(s string) (time.Time, bool) {
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return naive(t), true
	}
	return time.Time{}, false
}

// FormatWallClock formats t as a naive local timestamp.
func FormatWallClock(t time.Time) string {
	return t.Format(WallClockLayout)
}

// ParseClock parses an HH:MM time of day into an offset from midnight.
func ParseClock(s string) (time.Duration, bool) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// At combines a date (YYYY-MM-DD) and a clock time (HH:MM).
func At(date, clock string) (time.Time, bool) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	offset, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return day.Add(offset), true
}

// naive keeps the wall-clock fields of t and drops its location.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func latest(t time.Time, others ...time.Time) time.Time {
	for _, o := range others {
		if o.After(t) {
			t = o
		}
	}
	return t
}

func earliest(t time.Time, others ...time.Time) time.Time {
	for _, o := range others {
		if o.Before(t) {
			t = o
		}
	}
	return t
}
