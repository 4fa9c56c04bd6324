package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates. Bookings
// operate on whole days; any time-of-day component is discarded at the
// boundary so timezone offsets cannot manufacture phantom conflicts.
const DateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.Time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd: %w", dateStr, err)
	}
	return t, nil
}

// NormalizeDate renders t as a yyyy-mm-dd string in UTC.
func NormalizeDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the current UTC calendar date.
func Today() string {
	return NormalizeDate(time.Now())
}

// DaysInclusive returns the number of days a range spans counting both the
// start and the end date. start == end is a one-day rental.
func DaysInclusive(startStr, endStr string) (int32, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return 0, err
	}
	diff := int32(end.Sub(start).Hours() / 24)
	if diff < 0 {
		return 0, fmt.Errorf("end date %s is before start date %s", endStr, startStr)
	}
	return diff + 1, nil
}
