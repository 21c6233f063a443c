package services

import (
	"strconv"
	"time"
)

// ResolveDays parses a user-supplied days value, silently falling back to
// the configured default when the value is empty or unparseable. A bad
// query parameter must never fail the request.
func ResolveDays(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return days
}

// DateRange returns the trailing window [now - days, now].
func DateRange(now time.Time, days int) (time.Time, time.Time) {
	return now.AddDate(0, 0, -days), now
}
