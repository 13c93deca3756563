package postgrest

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

// ListTenants returns every tenant ordered by name.
func (s *Store) ListTenants(ctx context.Context) (tenants []domain.Tenant, err error) {
	defer observe("list_tenants", time.Now(), &err)

	params := url.Values{}
	params.Set("select", "id,slug,name")
	params.Set("order", "name.asc,id.asc")
	rows, _, err := s.selectRows(ctx, persistence.TenantTable, params)
	if err != nil {
		return nil, err
	}
	tenants = make([]domain.Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, domain.TenantFromRow(row))
	}
	return tenants, nil
}

// FindTenantBySlug returns the tenant with the lowest id carrying slug.
func (s *Store) FindTenantBySlug(ctx context.Context, slug string) (tenant *domain.Tenant, err error) {
	defer observe("find_tenant", time.Now(), &err)

	params := url.Values{}
	params.Set("select", "id,slug,name")
	params.Set("slug", "eq."+slug)
	params.Set("order", "id.asc")
	params.Set("limit", "1")
	rows, _, err := s.selectRows(ctx, persistence.TenantTable, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	t := domain.TenantFromRow(rows[0])
	return &t, nil
}

// ListActivity returns the latest limit rows by check-in.
func (s *Store) ListActivity(ctx context.Context, tenantID int64, limit int) (records []domain.ActivityRecord, err error) {
	defer observe("list_activity", time.Now(), &err)

	params := query(persistence.ActivityColumns, tenantID)
	params.Set("order", "check_in.desc.nullslast")
	params.Set("limit", strconv.Itoa(limit))
	return s.activity(ctx, params)
}

// ActivityBetween returns rows with a check-in or a check-out in [start, end).
func (s *Store) ActivityBetween(ctx context.Context, tenantID int64, start, end time.Time) (records []domain.ActivityRecord, err error) {
	defer observe("activity_between", time.Now(), &err)

	params := query(persistence.ActivityColumns, tenantID)
	params.Set("or", touchesWindow(start, end))
	params.Set("order", "check_in.asc")
	params.Set("limit", strconv.Itoa(persistence.MaxWindowRows))
	return s.activity(ctx, params)
}

// LatestActivity returns the row with the latest check-in, or nil.
func (s *Store) LatestActivity(ctx context.Context, tenantID int64) (record *domain.ActivityRecord, err error) {
	defer observe("latest_activity", time.Now(), &err)

	params := query(persistence.ActivityColumns, tenantID)
	params.Set("order", "check_in.desc.nullslast")
	params.Set("limit", "1")
	records, err := s.activity(ctx, params)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

func (s *Store) activity(ctx context.Context, params url.Values) ([]domain.ActivityRecord, error) {
	rows, _, err := s.selectRows(ctx, persistence.ActivityTable, params)
	if err != nil {
		return nil, err
	}
	records := make([]domain.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ActivityFromRow(row))
	}
	return records, nil
}

// ListBoats returns boats ordered by name.
func (s *Store) ListBoats(ctx context.Context, tenantID int64, filter domain.BoatFilter) (boats []domain.Boat, err error) {
	defer observe("list_boats", time.Now(), &err)

	params := query(persistence.BoatColumns, tenantID)
	params.Set("archived", "eq."+strconv.FormatBool(filter.Archived))
	params.Set("order", "boat_name.asc")
	if q := strings.TrimSpace(filter.Query); q != "" {
		params.Set("or", anyILike(persistence.BoatSearchColumns, q))
	}
	rows, _, err := s.selectRows(ctx, persistence.BoatTable, params)
	if err != nil {
		return nil, err
	}
	boats = make([]domain.Boat, 0, len(rows))
	for _, row := range rows {
		boats = append(boats, domain.BoatFromRow(row))
	}
	return boats, nil
}

// ListVendors returns vendors ordered by last update.
func (s *Store) ListVendors(ctx context.Context, tenantID int64, filter domain.VendorFilter) (vendors []domain.Vendor, err error) {
	defer observe("list_vendors", time.Now(), &err)

	params := query(persistence.VendorColumns, tenantID)
	params.Set("order", "updated_at.desc.nullslast")
	params.Set("limit", strconv.Itoa(domain.MaxVendorRows))
	if status := strings.TrimSpace(filter.Status); status != "" {
		params.Set("status", "eq."+status)
	}
	if vendorType := strings.TrimSpace(filter.Type); vendorType != "" {
		params.Set("vendor_type", "ilike."+containsValue(vendorType))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		params.Set("or", anyILike(persistence.VendorSearchColumns, q))
	}
	rows, _, err := s.selectRows(ctx, persistence.VendorTable, params)
	if err != nil {
		return nil, err
	}
	vendors = make([]domain.Vendor, 0, len(rows))
	for _, row := range rows {
		vendors = append(vendors, domain.VendorFromRow(row))
	}
	return vendors, nil
}

// TopVendors calls the top vendors procedure.
func (s *Store) TopVendors(ctx context.Context, tenantID int64, limit int) (items []domain.WageRow, err error) {
	defer observe("top_vendors", time.Now(), &err)

	rows, err := s.rpc(ctx, persistence.FnTopVendors, map[string]any{"p_tenant_id": tenantID, "p_limit": limit})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeWageRows(rows, domain.VendorNameFields), nil
}

// TopVessels calls the top vessels procedure.
func (s *Store) TopVessels(ctx context.Context, tenantID int64, limit int) (items []domain.WageRow, err error) {
	defer observe("top_vessels", time.Now(), &err)

	rows, err := s.rpc(ctx, persistence.FnTopVessels, map[string]any{"p_tenant_id": tenantID, "p_limit": limit})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeWageRows(rows, domain.VesselNameFields), nil
}

// EconomicSummary calls the summary procedure.
func (s *Store) EconomicSummary(ctx context.Context, tenantID int64, days int) (summary domain.EconomicSummary, err error) {
	defer observe("econ_summary", time.Now(), &err)

	args := map[string]any{"p_tenant_id": tenantID}
	if days > 0 {
		args["p_days"] = days
	}
	rows, err := s.rpc(ctx, persistence.FnEconSummary, args)
	if err != nil {
		return domain.EconomicSummary{}, err
	}
	return domain.NormalizeSummary(rows), nil
}

// EconomicTrend calls the trend procedure.
func (s *Store) EconomicTrend(ctx context.Context, tenantID int64, q domain.TrendQuery) (points []domain.TrendPoint, err error) {
	defer observe("econ_trend", time.Now(), &err)

	rows, err := s.rpc(ctx, persistence.FnEconTrend, map[string]any{
		"p_tenant_id":   tenantID,
		"p_granularity": string(q.Granularity),
		"p_days":        q.Days,
	})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeTrend(rows), nil
}

// QuickStats calls the quick stats procedure.
func (s *Store) QuickStats(ctx context.Context, tenantID int64) (stats domain.QuickStats, err error) {
	defer observe("econ_quick_stats", time.Now(), &err)

	rows, err := s.rpc(ctx, persistence.FnQuickStats, map[string]any{"p_tenant_id": tenantID})
	if err != nil {
		return domain.QuickStats{}, err
	}
	return domain.NormalizeQuickStats(rows), nil
}

// Diagnose counts and samples every economics source table. A failing table
// is reported in its entry and does not fail the others.
func (s *Store) Diagnose(ctx context.Context, tenantID int64) (report []domain.SourceDiagnostic, err error) {
	defer observe("diagnose", time.Now(), &err)

	report = make([]domain.SourceDiagnostic, 0, len(persistence.DiagnosticSources))
	for _, table := range persistence.DiagnosticSources {
		entry := domain.SourceDiagnostic{Source: table, Rows: -1, Columns: []string{}, Sample: []domain.Row{}}

		params := query([]string{"*"}, tenantID)
		params.Set("limit", strconv.Itoa(domain.DiagnosticSampleSize))
		rows, resp, err := s.selectCounted(ctx, table, params)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			entry.Err = err.Error()
		default:
			entry.Rows = contentRangeTotal(resp.Header().Get("Content-Range"))
			entry.Sample = rows
			if len(rows) > 0 {
				entry.Columns = persistence.SortedKeys(rows[0])
			}
		}
		report = append(report, entry)
	}
	return report, nil
}
