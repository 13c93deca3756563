package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestBucketizeLabelsAndBounds(t *testing.T) {
	loc := newYork(t)
	date := Date{Year: 2024, Month: time.January, Day: 15}

	buckets := Bucketize(nil, date, loc, DefaultStartHour, DefaultBucketCount)
	require.Len(t, buckets, 13)
	assert.Equal(t, "7AM", buckets[0].HourLabel)
	assert.Equal(t, "12PM", buckets[5].HourLabel)
	assert.Equal(t, "7PM", buckets[12].HourLabel)
	assert.Equal(t, "2024-01-15T12:00:00Z", buckets[0].Start.Format(time.RFC3339))
	for i := 1; i < len(buckets); i++ {
		assert.Equal(t, buckets[i-1].End, buckets[i].Start)
	}
}

func TestBucketizeAcrossDSTChanges(t *testing.T) {
	loc := newYork(t)
	tests := []struct {
		name      string
		date      Date
		firstUTC  time.Time
		checkInAt string
		bucket    int
	}{
		{
			name:      "spring forward",
			date:      Date{Year: 2024, Month: time.March, Day: 10},
			firstUTC:  time.Date(2024, time.March, 10, 11, 0, 0, 0, time.UTC),
			checkInAt: "2024-03-10T13:30:00Z",
			bucket:    2,
		},
		{
			name:      "fall back",
			date:      Date{Year: 2024, Month: time.November, Day: 3},
			firstUTC:  time.Date(2024, time.November, 3, 12, 0, 0, 0, time.UTC),
			checkInAt: "2024-11-03T14:30:00Z",
			bucket:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ActivityRecord{CheckinID: "r1", CheckIn: ts(t, tt.checkInAt)}
			buckets := Bucketize([]ActivityRecord{row}, tt.date, loc, DefaultStartHour, DefaultBucketCount)
			require.Len(t, buckets, 13)
			for i, b := range buckets {
				want := tt.firstUTC.Add(time.Duration(i) * time.Hour)
				assert.Equal(t, want, b.Start, "bucket %d start", i)
				assert.Equal(t, want.Add(time.Hour), b.End, "bucket %d end", i)
				assert.Equal(t, time.UTC, b.Start.Location())
			}
			assert.Equal(t, "7AM", buckets[0].HourLabel)
			assert.Equal(t, "7PM", buckets[12].HourLabel)
			assert.Equal(t, 1, buckets[tt.bucket].Checkins)
			assert.Equal(t, "9AM", buckets[tt.bucket].HourLabel)
		})
	}
}

func TestBucketizeOverlap(t *testing.T) {
	loc := newYork(t)
	date := Date{Year: 2024, Month: time.January, Day: 15}
	// 09:30 to 11:15 local.
	row := ActivityRecord{
		CheckinID: "a",
		CheckIn:   ts(t, "2024-01-15T14:30:00Z"),
		CheckOut:  ts(t, "2024-01-15T16:15:00Z"),
	}

	buckets := Bucketize([]ActivityRecord{row}, date, loc, DefaultStartHour, DefaultBucketCount)
	for _, b := range buckets {
		overlaps := b.Start.Before(*row.CheckOut) && b.End.After(*row.CheckIn)
		assert.Equal(t, overlaps, b.Active == 1, b.HourLabel)
	}
	assert.Equal(t, 1, buckets[2].Checkins, "9AM")
	assert.Equal(t, 1, buckets[4].Checkouts, "11AM")
	assert.Equal(t, 0, buckets[5].Active, "12PM")
}

func TestBucketizeOpenVisitStaysActive(t *testing.T) {
	loc := newYork(t)
	date := Date{Year: 2024, Month: time.January, Day: 15}
	row := ActivityRecord{CheckinID: "a", CheckIn: ts(t, "2024-01-15T17:05:00Z")}

	buckets := Bucketize([]ActivityRecord{row}, date, loc, DefaultStartHour, DefaultBucketCount)
	for i, b := range buckets {
		assert.Equal(t, i >= 5, b.Active == 1, b.HourLabel)
	}
}

func TestBucketizeIgnoresCheckoutOnlyRows(t *testing.T) {
	date := Date{Year: 2024, Month: time.January, Day: 15}
	row := ActivityRecord{CheckinID: "a", CheckOut: ts(t, "2024-01-15T15:00:00Z")}

	buckets := Bucketize([]ActivityRecord{row}, date, time.UTC, DefaultStartHour, DefaultBucketCount)
	for _, b := range buckets {
		assert.Zero(t, b.Active)
	}
	assert.Equal(t, 1, buckets[8].Checkouts)
}

func TestMergeFeedOrderingAndLimit(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, time.UTC)
	rows := make([]ActivityRecord, 0, 40)
	for i := 0; i < 40; i++ {
		in := time.Date(2024, time.January, 1, 8, i, 0, 0, time.UTC)
		out := in.Add(90 * time.Minute)
		rows = append(rows, ActivityRecord{CheckinID: fmt.Sprintf("r%02d", i), CheckIn: &in, CheckOut: &out})
	}

	for _, limit := range []int{0, 1, 10, 50, 80} {
		feed := MergeFeed(rows, window, limit)
		want := limit
		if want > MaxFeedLimit {
			want = MaxFeedLimit
		}
		assert.Len(t, feed, want)
		for i := 1; i < len(feed); i++ {
			assert.False(t, feed[i].At.After(feed[i-1].At))
		}
	}
}

func TestMergeFeedTieBreak(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, time.UTC)
	at := ts(t, "2024-01-01T10:00:00Z")
	rows := []ActivityRecord{
		{CheckinID: "b", CheckIn: at},
		{CheckinID: "a", CheckIn: ts(t, "2024-01-01T09:00:00Z"), CheckOut: at},
		{CheckinID: "a2", CheckIn: at},
	}

	feed := MergeFeed(rows, window, 10)
	require.Len(t, feed, 4)
	assert.Equal(t, "a", feed[0].RecordID)
	assert.Equal(t, ActionCheckedOut, feed[0].Action)
	assert.Equal(t, "a2", feed[1].RecordID)
	assert.Equal(t, "b", feed[2].RecordID)
	assert.Equal(t, ActionCheckedIn, feed[3].Action)
	assert.Equal(t, "out-a-2024-01-01T10:00:00Z", feed[0].ID)
}

func TestMergeFeedSkipsEventsOutsideWindow(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 2}, time.UTC)
	rows := []ActivityRecord{{
		CheckinID:   "x",
		PersonName:  "Ann",
		CompanyName: "Acme",
		BoatName:    "Sea Breeze",
		CheckIn:     ts(t, "2024-01-01T22:00:00Z"),
		CheckOut:    ts(t, "2024-01-02T01:00:00Z"),
	}}

	feed := MergeFeed(rows, window, 10)
	require.Len(t, feed, 1)
	assert.Equal(t, ActionCheckedOut, feed[0].Action)
	assert.Equal(t, "Ann", feed[0].Vendor)
	assert.Equal(t, "Acme", feed[0].Company)
	assert.Equal(t, "Sea Breeze", feed[0].Target)
}

func TestComputeMetricsNinetyMinuteVisit(t *testing.T) {
	loc := newYork(t)
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, loc)
	rows := []ActivityRecord{{
		CheckinID: "1",
		CheckIn:   ts(t, "2024-01-01T12:00:00Z"),
		CheckOut:  ts(t, "2024-01-01T13:30:00Z"),
	}}

	m := ComputeMetrics(rows, window)
	assert.Equal(t, ActivityMetrics{
		ActiveVendors:     0,
		Checkins:          1,
		Checkouts:         1,
		TotalVendorsToday: 1,
		AvgTimeOnSiteMins: 90,
	}, m)
}

func TestComputeMetricsAverageAndClamp(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, time.UTC)
	rows := []ActivityRecord{
		{CheckinID: "1", CheckIn: ts(t, "2024-01-01T08:00:00Z"), CheckOut: ts(t, "2024-01-01T08:10:00Z")},
		{CheckinID: "2", CheckIn: ts(t, "2024-01-01T08:00:00Z"), CheckOut: ts(t, "2024-01-01T08:15:00Z")},
		// clock skew: check-out before check-in counts as zero minutes
		{CheckinID: "3", CheckIn: ts(t, "2024-01-01T09:00:00Z"), CheckOut: ts(t, "2024-01-01T08:00:00Z")},
		{CheckinID: "4", CheckIn: ts(t, "2024-01-01T10:00:00Z")},
	}

	m := ComputeMetrics(rows, window)
	assert.Equal(t, 1, m.ActiveVendors)
	assert.Equal(t, 4, m.Checkins)
	assert.Equal(t, 3, m.Checkouts)
	assert.Equal(t, 8, m.AvgTimeOnSiteMins)
}

func TestComputeMetricsEmpty(t *testing.T) {
	window := WindowIn(Date{Year: 2024, Month: time.January, Day: 1}, time.UTC)
	assert.Equal(t, ActivityMetrics{}, ComputeMetrics(nil, window))
}

func TestFlagged(t *testing.T) {
	cases := map[string]bool{
		``:                  false,
		`null`:              false,
		`[]`:                false,
		`{}`:                false,
		`""`:                false,
		`["late"]`:          true,
		`{"reason":"late"}`: true,
		`"late"`:            true,
		`true`:              false,
		`not json`:          false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ActivityRecord{Flags: []byte(raw)}.Flagged(), raw)
	}
}
