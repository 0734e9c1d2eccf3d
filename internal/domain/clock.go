package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// FetchDateLayout is the calendar-day format used in the fetch_date query
// parameter and payload field.
const FetchDateLayout = "2006-01-02"

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by Today. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// FormatFetchDate returns t as a YYYY-MM-DD calendar day in UTC.
func FormatFetchDate(t time.Time) string {
	return t.UTC().Format(FetchDateLayout)
}

// Today returns the current UTC calendar day.
func Today() string {
	return FormatFetchDate(clock.Now())
}
