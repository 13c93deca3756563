package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, NewValidationError("date", "expected YYYY-MM-DD")
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// MarshalText renders the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// at returns hour:00 of d in loc. When a zone skips that wall-clock time,
// time.Date normalises to the first instant that exists.
func (d Date) at(hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

// DayWindow is the half-open UTC range [Start, End) covering one local day.
type DayWindow struct {
	Date  Date
	Start time.Time
	End   time.Time
}

// Contains reports whether t is set and falls inside the window.
func (w DayWindow) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// LoadZone loads an IANA zone. Empty names are rejected instead of silently
// mapping to UTC.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimeZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	return loc, nil
}

// WindowIn computes the UTC bounds of date in loc. End is the next local
// midnight, so days around DST transitions are 23 or 25 hours long.
func WindowIn(date Date, loc *time.Location) DayWindow {
	start := date.at(0, loc)
	next := time.Date(date.Year, date.Month, date.Day+1, 0, 0, 0, 0, loc)
	return DayWindow{Date: date, Start: start.UTC(), End: next.UTC()}
}

// DayBoundsUTC computes the UTC bounds of date in the named zone.
func DayBoundsUTC(date Date, zone string) (DayWindow, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return DayWindow{}, err
	}
	return WindowIn(date, loc), nil
}

// Zones maps tenants to their business time zone.
type Zones struct {
	fallback *time.Location
	tenants  map[int64]*time.Location
}

// NewZones loads the default zone and the per-tenant overrides.
func NewZones(defaultZone string, perTenant map[int64]string) (*Zones, error) {
	fallback, err := LoadZone(defaultZone)
	if err != nil {
		return nil, err
	}
	zones := &Zones{fallback: fallback, tenants: make(map[int64]*time.Location, len(perTenant))}
	for id, name := range perTenant {
		loc, err := LoadZone(name)
		if err != nil {
			return nil, fmt.Errorf("tenant %d: %w", id, err)
		}
		zones.tenants[id] = loc
	}
	return zones, nil
}

// For returns the zone configured for tenantID, or the default zone.
func (z *Zones) For(tenantID int64) *time.Location {
	if loc, ok := z.tenants[tenantID]; ok {
		return loc
	}
	return z.fallback
}
