package utils

import (
	"testing"
	"time"

	"propshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate("date", s)
	assert.NoError(t, err)
	return d
}

func TestParseRange(t *testing.T) {
	t.Run("Valid range", func(t *testing.T) {
		start, end, err := ParseRange("2026-07-01", "2026-07-04")
		assert.NoError(t, err)
		assert.Equal(t, int32(3), Nights(start, end))
	})

	t.Run("Malformed date", func(t *testing.T) {
		_, _, err := ParseRange("07/01/2026", "2026-07-04")
		assert.Error(t, err)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})

	t.Run("End equals start", func(t *testing.T) {
		_, _, err := ParseRange("2026-07-01", "2026-07-01")
		assert.Error(t, err)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})

	t.Run("End before start", func(t *testing.T) {
		_, _, err := ParseRange("2026-07-04", "2026-07-01")
		assert.Error(t, err)
	})
}

func TestNights(t *testing.T) {
	t.Run("Ignores time of day", func(t *testing.T) {
		start := time.Date(2026, 7, 1, 23, 30, 0, 0, time.UTC)
		end := time.Date(2026, 7, 3, 0, 15, 0, 0, time.UTC)
		assert.Equal(t, int32(2), Nights(start, end))
	})

	t.Run("Minimum one night", func(t *testing.T) {
		d := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, int32(1), Nights(d, d))
	})
}

func TestRangesOverlap(t *testing.T) {
	jul := func(day int) time.Time {
		return time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		overlap                        bool
	}{
		{"Disjoint", 1, 3, 5, 8, false},
		{"Touching boundary is free", 1, 5, 5, 8, false},
		{"Touching boundary reversed", 5, 8, 1, 5, false},
		{"One day shared", 1, 6, 5, 8, true},
		{"Contained", 2, 4, 1, 8, true},
		{"Identical", 3, 6, 3, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(jul(tt.aStart), jul(tt.aEnd), jul(tt.bStart), jul(tt.bEnd))
			assert.Equal(t, tt.overlap, got)
		})
	}
}

func TestDayWithin(t *testing.T) {
	start := mustDate(t, "2026-07-05")
	end := mustDate(t, "2026-07-08")

	assert.False(t, DayWithin(mustDate(t, "2026-07-04"), start, end))
	assert.True(t, DayWithin(mustDate(t, "2026-07-05"), start, end))
	assert.True(t, DayWithin(mustDate(t, "2026-07-07"), start, end))
	// End date is exclusive: checkout day is available again.
	assert.False(t, DayWithin(mustDate(t, "2026-07-08"), start, end))
}
