package utils

import (
	"time"

	"propshare-backend/internal/domain"
)

// DateLayout is the wire format for all calendar dates. Dates are
// interpreted as UTC midnight; time-of-day never participates in
// availability math.
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd string into a UTC-midnight time.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a valid yyyy-mm-dd date")
	}
	return t.UTC(), nil
}

// ParseRange parses and validates a half-open [start, end) date range.
func ParseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseDate("start_date", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate("end_date", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, domain.NewValidationError("end_date", "must be after start_date")
	}
	return start, end, nil
}

// Nights returns the number of nights in [start, end) from UTC-midnight
// truncated boundaries, never less than 1.
func Nights(start, end time.Time) int32 {
	start = truncateToUTCDay(start)
	end = truncateToUTCDay(end)
	nights := int32(end.Sub(start).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// RangesOverlap reports whether two half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one day. Ranges that merely touch at a
// boundary do not overlap: checkout day is free for a new check-in.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DayWithin reports whether the single UTC day falls inside the half-open
// range. Equivalent to RangesOverlap with a one-day window.
func DayWithin(day, start, end time.Time) bool {
	return RangesOverlap(day, day.AddDate(0, 0, 1), start, end)
}

func truncateToUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
