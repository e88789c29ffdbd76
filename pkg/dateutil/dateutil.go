package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the calendar date format used on the wire and in storage
const Layout = "2006-01-02"

// ErrInvalidFormat is returned when a date string is not a valid YYYY-MM-DD date
var ErrInvalidFormat = errors.New("invalid date format")

// ParseDateString parses a YYYY-MM-DD string into a calendar date.
// The date is built from its year/month/day fields directly (midnight UTC),
// so the result never drifts by a day depending on the host timezone.
func ParseDateString(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		if !isDigits(part) {
			return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
		}
		fields[i] = n
	}

	year, month, day := fields[0], fields[1], fields[2]
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: %q is out of range", ErrInvalidFormat, s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// isDigits reports whether s is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(Layout)
}

// DateKey builds the YYYY-MM-DD key for the given fields
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// YearBounds returns the first and last date keys of a year
func YearBounds(year int) (from, to string) {
	return DateKey(year, time.January, 1), DateKey(year, time.December, 31)
}

// EachDay calls fn for every calendar day from start to end inclusive.
// Iteration uses calendar arithmetic (AddDate), not fixed 24h steps.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	start = StartOfDay(start)
	end = StartOfDay(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the first day of the month
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// Today returns today's local date as a UTC calendar date
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
