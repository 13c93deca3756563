package api

import (
	"net/http"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

// SummaryView is the body of GET /api/economics/summary.
type SummaryView struct {
	YesterdayValue    float64 `json:"yday_value"`
	Week              float64 `json:"week"`
	Month             float64 `json:"month"`
	AllTime           float64 `json:"all_time"`
	ActiveVendorsYday int     `json:"active_vendors_yday"`
	Cutoff            *string `json:"cutoff"`
}

// TrendPointView is one point of the wage trend.
type TrendPointView struct {
	D     string  `json:"d"`
	Value float64 `json:"value"`
}

// TrendResponse is the body of GET /api/economics/trend.
type TrendResponse struct {
	Items []TrendPointView `json:"items"`
}

// QuickStatsView is the body of GET /api/economics/quick-stats.
type QuickStatsView struct {
	DailyAvg30 float64 `json:"daily_avg_30"`
	Cutoff     *string `json:"cutoff"`
}

// VendorWageView is one entry of the top vendors list.
type VendorWageView struct {
	Name        string  `json:"name"`
	CompanyName string  `json:"company_name"`
	Hours       float64 `json:"hours"`
	TotalWages  float64 `json:"total_wages"`
}

// VesselWageView is one entry of the top vessels list.
type VesselWageView struct {
	Name       string  `json:"name"`
	BoatName   string  `json:"boat_name"`
	Hours      float64 `json:"hours"`
	TotalWages float64 `json:"total_wages"`
}

// TopVendorsResponse is the body of GET /api/economics/vendors.
type TopVendorsResponse struct {
	Items []VendorWageView `json:"items"`
}

// TopVesselsResponse is the body of GET /api/economics/vessels.
type TopVesselsResponse struct {
	Items []VesselWageView `json:"items"`
}

// OverviewResponse is the body of GET /api/economics/overview.
type OverviewResponse struct {
	Summary    SummaryView      `json:"summary"`
	Trend      []TrendPointView `json:"trend"`
	QuickStats QuickStatsView   `json:"quick_stats"`
	Vendors    []VendorWageView `json:"vendors"`
	Vessels    []VesselWageView `json:"vessels"`
}

// SourceView is one table of the economics diagnostic.
type SourceView struct {
	Source  string       `json:"source"`
	Rows    *int64       `json:"rows"`
	Columns []string     `json:"columns"`
	Sample  []domain.Row `json:"sample"`
	Error   string       `json:"error,omitempty"`
}

// DiagnosticResponse is the body of GET /api/economics/diagnostic.
type DiagnosticResponse struct {
	TenantID int64        `json:"tenant_id"`
	Sources  []SourceView `json:"sources"`
}

func (h *Handler) economicSummary(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := summaryParams{Days: q.Int("days")}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}
	summary, err := h.service.EconomicSummary(r.Context(), tenantID, params.Days)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryView(summary))
}

func (h *Handler) economicTrend(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	query, err := trendQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	points, err := h.service.EconomicTrend(r.Context(), tenantID, query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TrendResponse{Items: toTrendViews(points)})
}

func (h *Handler) quickStats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	stats, err := h.service.QuickStats(r.Context(), tenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuickStatsView(stats))
}

func (h *Handler) topVendors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	limit, err := topLimit(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rows := h.service.TopVendors(r.Context(), tenantID, limit)
	writeJSON(w, http.StatusOK, TopVendorsResponse{Items: toVendorViews(rows)})
}

func (h *Handler) topVessels(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	limit, err := topLimit(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rows := h.service.TopVessels(r.Context(), tenantID, limit)
	writeJSON(w, http.StatusOK, TopVesselsResponse{Items: toVesselViews(rows)})
}

func (h *Handler) economicOverview(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	query, err := trendQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	overview, err := h.service.EconomicOverview(r.Context(), tenantID, query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OverviewResponse{
		Summary:    toSummaryView(overview.Summary),
		Trend:      toTrendViews(overview.Trend),
		QuickStats: toQuickStatsView(overview.Quick),
		Vendors:    toVendorViews(overview.Vendors),
		Vessels:    toVesselViews(overview.Vessels),
	})
}

func (h *Handler) economicDiagnostic(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	report, err := h.service.Diagnose(r.Context(), tenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := DiagnosticResponse{TenantID: tenantID, Sources: make([]SourceView, 0, len(report))}
	for _, entry := range report {
		view := SourceView{Source: entry.Source, Columns: entry.Columns, Sample: entry.Sample, Error: entry.Err}
		if entry.Rows >= 0 {
			rows := entry.Rows
			view.Rows = &rows
		}
		resp.Sources = append(resp.Sources, view)
	}
	writeJSON(w, http.StatusOK, resp)
}

func trendQuery(r *http.Request) (domain.TrendQuery, error) {
	q := newQueryReader(r)
	params := trendParams{Days: q.Int("days"), Granularity: q.String("granularity")}
	if err := q.Validate(params); err != nil {
		return domain.TrendQuery{}, err
	}
	return domain.TrendQuery{Granularity: domain.Granularity(params.Granularity), Days: params.Days}, nil
}

func topLimit(r *http.Request) (int, error) {
	q := newQueryReader(r)
	params := topParams{Limit: q.Int("limit")}
	if err := q.Validate(params); err != nil {
		return 0, err
	}
	return params.Limit, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toSummaryView(s domain.EconomicSummary) SummaryView {
	return SummaryView{
		YesterdayValue:    s.YesterdayValue,
		Week:              s.Week,
		Month:             s.Month,
		AllTime:           s.AllTime,
		ActiveVendorsYday: s.ActiveVendorsYesterday,
		Cutoff:            nullable(s.Cutoff),
	}
}

func toQuickStatsView(s domain.QuickStats) QuickStatsView {
	return QuickStatsView{DailyAvg30: s.DailyAvg30, Cutoff: nullable(s.Cutoff)}
}

func toTrendViews(points []domain.TrendPoint) []TrendPointView {
	out := make([]TrendPointView, 0, len(points))
	for _, p := range points {
		out = append(out, TrendPointView{D: p.Date, Value: p.Value})
	}
	return out
}

func toVendorViews(rows []domain.WageRow) []VendorWageView {
	out := make([]VendorWageView, 0, len(rows))
	for _, row := range rows {
		out = append(out, VendorWageView{Name: row.Name, CompanyName: row.Name, Hours: row.Hours, TotalWages: row.TotalWages})
	}
	return out
}

func toVesselViews(rows []domain.WageRow) []VesselWageView {
	out := make([]VesselWageView, 0, len(rows))
	for _, row := range rows {
		out = append(out, VesselWageView{Name: row.Name, BoatName: row.Name, Hours: row.Hours, TotalWages: row.TotalWages})
	}
	return out
}
