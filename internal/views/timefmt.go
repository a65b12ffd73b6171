package views

import (
	"math"
	"time"

	"github.com/anonto42/ecobite/web/internal/models"
)

const day = 24 * time.Hour

// IsExpired reports whether a known expiry is at or before now. An unknown
// expiry never counts as expired.
func IsExpired(expiry models.Timestamp, now time.Time) bool {
	return !expiry.IsZero() && !expiry.After(now)
}

// TimeUntil renders the time remaining to expiry in whole days, rounded up.
// It returns "today" when no positive day count remains.
func TimeUntil(expiry models.Timestamp, now time.Time) string {
	days := int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
	if days > 0 {
		return plural(days, "day")
	}
	return "today"
}

// ExpiryLabel is the expiry line shown on post cards.
func ExpiryLabel(expiry models.Timestamp, now time.Time) string {
	switch {
	case expiry.IsZero():
		return "No expiry"
	case IsExpired(expiry, now):
		return "Expired"
	default:
		return "Expires in " + TimeUntil(expiry, now)
	}
}

// FormatDateTime renders a timestamp for display, or "-" when unknown.
func FormatDateTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format("Jan 2, 2006 15:04 UTC")
}

// DaysSince counts whole days elapsed since t.
func DaysSince(t models.Timestamp, now time.Time) int {
	if t.IsZero() || now.Before(t.Time) {
		return 0
	}
	return int(now.Sub(t.Time) / day)
}
