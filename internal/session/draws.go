package session

import (
	"fmt"
	"math"
	"time"
)

// firstDrawWeek anchors week numbering: the Monday of the service's
// first draw. Draws close at local midnight on their week_start day.
var firstDrawWeek = time.Date(2026, time.February, 23, 0, 0, 0, 0, time.Local)

// ParseWeekStart parses a draw's week_start date (YYYY-MM-DD) as local
// midnight on the draw day.
func ParseWeekStart(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week start %q: %w", s, err)
	}
	return t, nil
}

// WeekNumber counts draw weeks from the first one, starting at 1.
func WeekNumber(weekStart time.Time) int {
	weeks := int(math.Round(weekStart.Sub(firstDrawWeek).Hours() / (7 * 24)))
	if weeks < 0 {
		return 1
	}
	return weeks + 1
}

// Countdown returns the time remaining until the draw; zero or
// negative means the draw is happening now.
func Countdown(weekStart, now time.Time) time.Duration {
	return weekStart.Sub(now)
}

// FormatCountdown renders a countdown as HH:MM:SS, or DRAWING NOW once
// the draw time has passed.
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "DRAWING NOW"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
