package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBoundsUTC(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		hours float64
		start string
	}{
		{name: "standard day", date: "2024-01-15", hours: 24, start: "2024-01-15T05:00:00Z"},
		{name: "spring forward", date: "2024-03-10", hours: 23, start: "2024-03-10T05:00:00Z"},
		{name: "fall back", date: "2024-11-03", hours: 25, start: "2024-11-03T04:00:00Z"},
		{name: "summer day", date: "2024-07-04", hours: 24, start: "2024-07-04T04:00:00Z"},
	}
	loc, err := LoadZone("America/New_York")
	require.NoError(t, err)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseDate(tc.date)
			require.NoError(t, err)

			window, err := DayBoundsUTC(date, "America/New_York")
			require.NoError(t, err)

			assert.Equal(t, tc.start, window.Start.Format(time.RFC3339))
			assert.Equal(t, tc.hours, window.End.Sub(window.Start).Hours())
			assert.Equal(t, time.UTC, window.Start.Location())

			local := window.Start.In(loc)
			assert.Equal(t, tc.date, local.Format("2006-01-02"))
			assert.Equal(t, "00:00:00", local.Format("15:04:05"))
			assert.Equal(t, "00:00:00", window.End.In(loc).Format("15:04:05"))
		})
	}
}

func TestDayBoundsUTCInvalidZone(t *testing.T) {
	_, err := DayBoundsUTC(Date{Year: 2024, Month: time.January, Day: 1}, "Mars/Olympus_Mons")
	assert.True(t, errors.Is(err, ErrInvalidTimeZone))

	_, err = DayBoundsUTC(Date{Year: 2024, Month: time.January, Day: 1}, "")
	assert.True(t, errors.Is(err, ErrInvalidTimeZone))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024-13-01", "01/02/2024", "2024-02-30"} {
		_, err := ParseDate(in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, in)
		assert.Equal(t, "date", verr.Field)
	}
}

func TestDateOfUsesZone(t *testing.T) {
	loc, err := LoadZone("America/New_York")
	require.NoError(t, err)

	late := time.Date(2024, time.January, 2, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", DateOf(late, loc).String())
	assert.Equal(t, "2024-01-02", DateOf(late, time.UTC).String())
}

func TestWindowContainsIsHalfOpen(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, time.UTC)
	start, end := window.Start, window.End
	last := end.Add(-time.Nanosecond)

	assert.True(t, window.Contains(&start))
	assert.True(t, window.Contains(&last))
	assert.False(t, window.Contains(&end))
	assert.False(t, window.Contains(nil))
}

func TestZonesPerTenantOverride(t *testing.T) {
	zones, err := NewZones("America/New_York", map[int64]string{12: "America/Chicago"})
	require.NoError(t, err)

	assert.Equal(t, "America/Chicago", zones.For(12).String())
	assert.Equal(t, "America/New_York", zones.For(7).String())

	_, err = NewZones("America/New_York", map[int64]string{3: "Nowhere/Town"})
	assert.ErrorIs(t, err, ErrInvalidTimeZone)
}
