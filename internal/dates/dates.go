// Package dates is the only place the engine tells time. Every component
// works in canonical days: calendar dates normalized to UTC and written
// YYYY-MM-DD, so the same instant never lands on two different days for
// users in different timezones, and day arithmetic is immune to DST skew.
package dates

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// InvalidDateError reports an input that cannot be normalized to a canonical
// day. Unlike storage faults this propagates: guessing a date would silently
// corrupt the streak record.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Input)
}

// CanonicalDay normalizes an instant to its UTC calendar day.
func CanonicalDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDay validates a canonical day string and returns it as a UTC midnight
// instant.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: day}
	}
	return t, nil
}

// CanonicalDayFrom normalizes a date-like string (canonical day, RFC 3339
// timestamp) to a canonical day.
func CanonicalDayFrom(input string) (string, error) {
	if t, err := time.ParseInLocation(dayLayout, input, time.UTC); err == nil {
		return CanonicalDay(t), nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return CanonicalDay(t), nil
	}
	return "", &InvalidDateError{Input: input}
}

// CanonicalDayFromMillis normalizes an epoch-milliseconds timestamp.
func CanonicalDayFromMillis(ms int64) string {
	return CanonicalDay(time.UnixMilli(ms))
}

// DayDiff returns the exact signed count of calendar days from a to b,
// positive when b is later. Computed by epoch-day subtraction of the two UTC
// midnights, never by local-time subtraction.
func DayDiff(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	const secondsPerDay = 24 * 60 * 60
	return int(tb.Unix()/secondsPerDay - ta.Unix()/secondsPerDay), nil
}

// AddDays returns the canonical day n calendar days after day (n may be
// negative).
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return CanonicalDay(t.AddDate(0, 0, n)), nil
}

// Weekday reports the day of week of a canonical day.
func Weekday(day string) (time.Weekday, error) {
	t, err := ParseDay(day)
	if err != nil {
		return time.Sunday, err
	}
	return t.Weekday(), nil
}
