package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in fixtures.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders t in DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func dateKey(t time.Time) (float64, bool) {
	return float64(t.Unix()), true
}
