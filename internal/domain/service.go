// Package domain defines the business logic of the marina dashboard.
package domain

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/logging"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/observability"
)

const (
	// DefaultActivityLimit is the activity log page size.
	DefaultActivityLimit = 200
	// MaxActivityLimit bounds the activity log page size.
	MaxActivityLimit = 2000
	// DefaultFeedLimit is the feed size when none is requested.
	DefaultFeedLimit = 10
)

// TenantDirectory looks tenants up in the tenant table.
type TenantDirectory interface {
	ListTenants(ctx context.Context) ([]Tenant, error)
	// FindTenantBySlug returns nil, nil when no tenant has the slug.
	FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// ActivityStore reads the check-in log.
type ActivityStore interface {
	ListActivity(ctx context.Context, tenantID int64, limit int) ([]ActivityRecord, error)
	// ActivityBetween returns rows whose check-in or check-out lies in [start, end).
	ActivityBetween(ctx context.Context, tenantID int64, start, end time.Time) ([]ActivityRecord, error)
	// LatestActivity returns the row with the latest check-in, or nil.
	LatestActivity(ctx context.Context, tenantID int64) (*ActivityRecord, error)
}

// BoatStore reads the boat registry.
type BoatStore interface {
	ListBoats(ctx context.Context, tenantID int64, filter BoatFilter) ([]Boat, error)
}

// VendorStore reads the vendor registry.
type VendorStore interface {
	ListVendors(ctx context.Context, tenantID int64, filter VendorFilter) ([]Vendor, error)
}

// EconomicsStore calls the economics procedures. Days of 0 leaves the
// procedure default in place.
type EconomicsStore interface {
	TopVendors(ctx context.Context, tenantID int64, limit int) ([]WageRow, error)
	TopVessels(ctx context.Context, tenantID int64, limit int) ([]WageRow, error)
	EconomicSummary(ctx context.Context, tenantID int64, days int) (EconomicSummary, error)
	EconomicTrend(ctx context.Context, tenantID int64, query TrendQuery) ([]TrendPoint, error)
	QuickStats(ctx context.Context, tenantID int64) (QuickStats, error)
}

// DiagnosticStore reports what the economics source tables hold.
type DiagnosticStore interface {
	Diagnose(ctx context.Context, tenantID int64) ([]SourceDiagnostic, error)
}

// Store is the full set of reads the service needs.
type Store interface {
	TenantDirectory
	ActivityStore
	BoatStore
	VendorStore
	EconomicsStore
	DiagnosticStore
}

// Service orchestrates dashboard reads.
type Service struct {
	store Store
	zones *Zones
	now   func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used to determine "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service.
func NewService(store Store, zones *Zones, opts ...Option) *Service {
	s := &Service{store: store, zones: zones, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Zone returns the business zone of tenantID.
func (s *Service) Zone(tenantID int64) *time.Location {
	return s.zones.For(tenantID)
}

// SelectDay returns today's rows, or the rows of the latest day that has
// any activity when today is empty.
func (s *Service) SelectDay(ctx context.Context, tenantID int64, loc *time.Location) (DaySelection, error) {
	today := DateOf(s.now(), loc)
	window := WindowIn(today, loc)

	rows, err := s.store.ActivityBetween(ctx, tenantID, window.Start, window.End)
	if err != nil {
		return DaySelection{}, Upstream("activity_between", err)
	}
	if len(rows) > 0 {
		return DaySelection{Rows: rows, Date: today, Window: window}, nil
	}

	latest, err := s.store.LatestActivity(ctx, tenantID)
	if err != nil {
		return DaySelection{}, Upstream("latest_activity", err)
	}
	var seen *time.Time
	if latest != nil {
		seen = latest.LastSeen()
	}
	if seen == nil {
		return DaySelection{Rows: []ActivityRecord{}, Date: today, Window: window}, nil
	}

	day := DateOf(*seen, loc)
	window = WindowIn(day, loc)
	rows, err = s.store.ActivityBetween(ctx, tenantID, window.Start, window.End)
	if err != nil {
		return DaySelection{}, Upstream("activity_between", err)
	}
	if rows == nil {
		rows = []ActivityRecord{}
	}
	fallback := day != today
	if fallback {
		observability.RecordDayFallback()
	}
	return DaySelection{Rows: rows, Date: day, Window: window, Fallback: fallback}, nil
}

// ActivityMetrics computes the header metrics of the selected day.
func (s *Service) ActivityMetrics(ctx context.Context, tenantID int64) (DaySelection, ActivityMetrics, error) {
	sel, err := s.SelectDay(ctx, tenantID, s.Zone(tenantID))
	if err != nil {
		return DaySelection{}, ActivityMetrics{}, err
	}
	return sel, ComputeMetrics(sel.Rows, sel.Window), nil
}

// HourlyActivity buckets the selected day into the 7AM..7PM chart.
func (s *Service) HourlyActivity(ctx context.Context, tenantID int64) (DaySelection, []HourlyBucket, error) {
	loc := s.Zone(tenantID)
	sel, err := s.SelectDay(ctx, tenantID, loc)
	if err != nil {
		return DaySelection{}, nil, err
	}
	return sel, Bucketize(sel.Rows, sel.Date, loc, DefaultStartHour, DefaultBucketCount), nil
}

// ActivityFeed returns the latest limit events of the selected day.
func (s *Service) ActivityFeed(ctx context.Context, tenantID int64, limit int) (DaySelection, []FeedEvent, error) {
	sel, err := s.SelectDay(ctx, tenantID, s.Zone(tenantID))
	if err != nil {
		return DaySelection{}, nil, err
	}
	return sel, MergeFeed(sel.Rows, sel.Window, limit), nil
}

// ListActivity returns the most recent activity log rows.
func (s *Service) ListActivity(ctx context.Context, tenantID int64, limit int) ([]ActivityRecord, error) {
	rows, err := s.store.ListActivity(ctx, tenantID, ClampActivityLimit(limit))
	return rows, Upstream("list_activity", err)
}

// ClampActivityLimit applies the default and the upper bound.
func ClampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	default:
		return limit
	}
}

// ClampFeedLimit maps a requested feed size onto [1, MaxFeedLimit]. Zero
// means unset and selects DefaultFeedLimit.
func ClampFeedLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultFeedLimit
	case limit < 1:
		return 1
	case limit > MaxFeedLimit:
		return MaxFeedLimit
	default:
		return limit
	}
}

// ListTenants returns every marina.
func (s *Service) ListTenants(ctx context.Context) ([]Tenant, error) {
	tenants, err := s.store.ListTenants(ctx)
	return tenants, Upstream("list_tenants", err)
}

// ListBoats returns the boats of tenantID.
func (s *Service) ListBoats(ctx context.Context, tenantID int64, filter BoatFilter) ([]Boat, error) {
	boats, err := s.store.ListBoats(ctx, tenantID, filter)
	return boats, Upstream("list_boats", err)
}

// ListVendors returns the vendors of tenantID.
func (s *Service) ListVendors(ctx context.Context, tenantID int64, filter VendorFilter) ([]Vendor, error) {
	vendors, err := s.store.ListVendors(ctx, tenantID, filter)
	return vendors, Upstream("list_vendors", err)
}

// EconomicSummary returns the headline totals.
func (s *Service) EconomicSummary(ctx context.Context, tenantID int64, days int) (EconomicSummary, error) {
	summary, err := s.store.EconomicSummary(ctx, tenantID, days)
	return summary, Upstream("econ_summary", err)
}

// EconomicTrend returns the trend series, applying defaults.
func (s *Service) EconomicTrend(ctx context.Context, tenantID int64, query TrendQuery) ([]TrendPoint, error) {
	if query.Granularity == "" {
		query.Granularity = GranularityDay
	}
	if query.Days <= 0 {
		query.Days = DefaultTrendDays
	}
	points, err := s.store.EconomicTrend(ctx, tenantID, query)
	return points, Upstream("econ_trend", err)
}

// QuickStats returns the rolling averages.
func (s *Service) QuickStats(ctx context.Context, tenantID int64) (QuickStats, error) {
	stats, err := s.store.QuickStats(ctx, tenantID)
	return stats, Upstream("econ_quick_stats", err)
}

// TopVendors returns the vendors with the highest wages. Failures degrade to
// an empty list.
func (s *Service) TopVendors(ctx context.Context, tenantID int64, limit int) []WageRow {
	rows, err := s.store.TopVendors(ctx, tenantID, topLimit(limit))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("tenant_id", tenantID).Msg("top vendors unavailable")
		return []WageRow{}
	}
	return rows
}

// TopVessels returns the vessels with the highest wages. Failures degrade to
// an empty list.
func (s *Service) TopVessels(ctx context.Context, tenantID int64, limit int) []WageRow {
	rows, err := s.store.TopVessels(ctx, tenantID, topLimit(limit))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("tenant_id", tenantID).Msg("top vessels unavailable")
		return []WageRow{}
	}
	return rows
}

func topLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return limit
}

// EconomicOverview fetches every economics view concurrently. Summary, trend
// and quick stats fail the overview; the top lists degrade.
func (s *Service) EconomicOverview(ctx context.Context, tenantID int64, query TrendQuery) (EconomicOverview, error) {
	var overview EconomicOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.EconomicSummary(gctx, tenantID, 0)
		overview.Summary = summary
		return err
	})
	g.Go(func() error {
		trend, err := s.EconomicTrend(gctx, tenantID, query)
		overview.Trend = trend
		return err
	})
	g.Go(func() error {
		quick, err := s.QuickStats(gctx, tenantID)
		overview.Quick = quick
		return err
	})
	g.Go(func() error {
		overview.Vendors = s.TopVendors(gctx, tenantID, DefaultTopLimit)
		return nil
	})
	g.Go(func() error {
		overview.Vessels = s.TopVessels(gctx, tenantID, DefaultTopLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return EconomicOverview{}, err
	}
	return overview, nil
}

// Diagnose reports the economics source tables of tenantID.
func (s *Service) Diagnose(ctx context.Context, tenantID int64) ([]SourceDiagnostic, error) {
	report, err := s.store.Diagnose(ctx, tenantID)
	return report, Upstream("diagnose", err)
}
