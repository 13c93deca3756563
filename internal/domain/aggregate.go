package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	// DefaultStartHour is the first local hour of the hourly chart.
	DefaultStartHour = 7
	// DefaultBucketCount covers 7AM through 7PM.
	DefaultBucketCount = 13
	// MaxFeedLimit bounds the number of feed events returned.
	MaxFeedLimit = 50
)

// Bucketize splits date into count one-hour windows starting at startHour
// local time and counts check-ins, check-outs and overlapping visits in each.
// All comparisons happen on instants; the label is cosmetic.
func Bucketize(rows []ActivityRecord, date Date, loc *time.Location, startHour, count int) []HourlyBucket {
	if count <= 0 {
		return []HourlyBucket{}
	}
	first := date.at(startHour, loc)
	buckets := make([]HourlyBucket, 0, count)
	for i := 0; i < count; i++ {
		start := first.Add(time.Duration(i) * time.Hour)
		end := start.Add(time.Hour)
		bucket := HourlyBucket{
			HourLabel: start.In(loc).Format("3PM"),
			Start:     start.UTC(),
			End:       end.UTC(),
		}
		for _, row := range rows {
			if within(row.CheckIn, start, end) {
				bucket.Checkins++
			}
			if within(row.CheckOut, start, end) {
				bucket.Checkouts++
			}
			if row.ActiveDuring(start, end) {
				bucket.Active++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func within(t *time.Time, start, end time.Time) bool {
	return t != nil && !t.Before(start) && t.Before(end)
}

// MergeFeed builds the reverse-chronological check-in/check-out feed for the
// window. Equal instants are ordered by record id, then check-out first.
// The result never exceeds limit (itself capped at MaxFeedLimit).
func MergeFeed(rows []ActivityRecord, window DayWindow, limit int) []FeedEvent {
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if limit <= 0 {
		return []FeedEvent{}
	}

	events := make([]FeedEvent, 0, len(rows))
	for _, row := range rows {
		if window.Contains(row.CheckIn) {
			events = append(events, newFeedEvent(row, ActionCheckedIn, *row.CheckIn))
		}
	}
	for _, row := range rows {
		if window.Contains(row.CheckOut) {
			events = append(events, newFeedEvent(row, ActionCheckedOut, *row.CheckOut))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.At.Equal(b.At) {
			return a.At.After(b.At)
		}
		if a.RecordID != b.RecordID {
			return a.RecordID < b.RecordID
		}
		return a.Action == ActionCheckedOut && b.Action == ActionCheckedIn
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events
}

func newFeedEvent(row ActivityRecord, action FeedAction, at time.Time) FeedEvent {
	prefix := "in"
	if action == ActionCheckedOut {
		prefix = "out"
	}
	return FeedEvent{
		ID:       fmt.Sprintf("%s-%s-%s", prefix, row.CheckinID, at.UTC().Format(time.RFC3339Nano)),
		RecordID: row.CheckinID,
		Vendor:   row.PersonName,
		Company:  row.CompanyName,
		Action:   action,
		Target:   row.BoatName,
		At:       at,
	}
}

// ComputeMetrics aggregates rows for the dashboard header. ActiveVendors
// counts everyone on site regardless of the day they arrived; the average
// only covers visits that ended inside the window.
func ComputeMetrics(rows []ActivityRecord, window DayWindow) ActivityMetrics {
	var (
		metrics   ActivityMetrics
		totalMins int
		completed int
	)
	for _, row := range rows {
		if row.OnSite() {
			metrics.ActiveVendors++
		}
		if window.Contains(row.CheckIn) {
			metrics.Checkins++
		}
		if window.Contains(row.CheckOut) {
			metrics.Checkouts++
			if row.CheckIn != nil {
				totalMins += minutesOnSite(*row.CheckIn, *row.CheckOut)
				completed++
			}
		}
	}
	if completed > 0 {
		metrics.AvgTimeOnSiteMins = int(math.Round(float64(totalMins) / float64(completed)))
	}
	metrics.TotalVendorsToday = metrics.Checkins
	return metrics
}

func minutesOnSite(in, out time.Time) int {
	mins := math.Round(out.Sub(in).Minutes())
	if mins < 0 {
		return 0
	}
	return int(mins)
}
