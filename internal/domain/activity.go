package domain

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// ActivityRecord is one vendor visit as stored by the check-in system.
type ActivityRecord struct {
	CheckinID    string
	TenantID     int64
	PersonName   string
	CompanyName  string
	BoatName     string
	CheckIn      *time.Time
	CheckOut     *time.Time
	Flags        json.RawMessage
	ContactPhone string
	ContactEmail string
	PhotoRef     string
}

// Flagged reports whether the record carries any flag. Arrays and objects
// count when non-empty, strings when non-blank.
func (r ActivityRecord) Flagged() bool {
	raw := bytes.TrimSpace(r.Flags)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case string:
		return v != ""
	default:
		return false
	}
}

// OnSite reports whether the visitor has checked in and not yet out.
func (r ActivityRecord) OnSite() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// ActiveDuring reports whether the visit interval overlaps [start, end).
// A record without a check-in is never active.
func (r ActivityRecord) ActiveDuring(start, end time.Time) bool {
	if r.CheckIn == nil || !r.CheckIn.Before(end) {
		return false
	}
	return r.CheckOut == nil || r.CheckOut.After(start)
}

// LastSeen returns the check-out if present, else the check-in.
func (r ActivityRecord) LastSeen() *time.Time {
	if r.CheckOut != nil {
		return r.CheckOut
	}
	return r.CheckIn
}

// HourlyBucket holds the activity counts of one local hour.
type HourlyBucket struct {
	HourLabel string
	Start     time.Time
	End       time.Time
	Active    int
	Checkins  int
	Checkouts int
}

// FeedAction is the direction of a feed event.
type FeedAction string

const (
	ActionCheckedIn  FeedAction = "checked in"
	ActionCheckedOut FeedAction = "checked out"
)

// FeedEvent is one entry of the live activity feed.
type FeedEvent struct {
	ID       string
	RecordID string
	Vendor   string
	Company  string
	Action   FeedAction
	Target   string
	At       time.Time
}

// ActivityMetrics summarises one day of activity.
type ActivityMetrics struct {
	ActiveVendors     int
	Checkins          int
	Checkouts         int
	TotalVendorsToday int
	AvgTimeOnSiteMins int
}

// DaySelection is the outcome of the smart-day lookup: the rows of the day
// actually used and whether it differs from today.
type DaySelection struct {
	Rows     []ActivityRecord
	Date     Date
	Window   DayWindow
	Fallback bool
}
