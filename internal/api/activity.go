package api

import (
	"net/http"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

// ActivityView is one row of the activity log table.
type ActivityView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Company    string     `json:"company"`
	Boat       string     `json:"boat"`
	Notes      string     `json:"notes"`
	Checkin    string     `json:"checkin"`
	Checkout   string     `json:"checkout"`
	CheckinAt  *time.Time `json:"checkin_at"`
	CheckoutAt *time.Time `json:"checkout_at"`
	Flagged    bool       `json:"flagged"`
	Avatar     string     `json:"avatar"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
}

// ListActivityResponse is the body of GET /api/activity.
type ListActivityResponse struct {
	Items []ActivityView `json:"items"`
	Total int            `json:"total"`
}

// ActivityMetricsResponse is the body of GET /api/activity/metrics.
type ActivityMetricsResponse struct {
	ActiveVendors     int `json:"active_vendors"`
	Checkins          int `json:"checkins"`
	Checkouts         int `json:"checkouts"`
	TotalVendorsToday int `json:"total_vendors_today"`
	AvgTimeOnSiteMins int `json:"avg_time_on_site_mins"`
	DayInfo
}

// HourlyView is one bar of the hourly chart.
type HourlyView struct {
	Hour      string `json:"hour"`
	Active    int    `json:"active"`
	Checkins  int    `json:"checkins"`
	Checkouts int    `json:"checkouts"`
}

// HourlyResponse is the body of GET /api/activity/hourly.
type HourlyResponse struct {
	Items []HourlyView `json:"items"`
	DayInfo
}

// FeedView is one entry of the live feed.
type FeedView struct {
	ID      string    `json:"id"`
	Vendor  string    `json:"vendor"`
	Company string    `json:"company"`
	Action  string    `json:"action"`
	Target  string    `json:"target"`
	At      time.Time `json:"at"`
}

// FeedResponse is the body of GET /api/activity/feed.
type FeedResponse struct {
	Items []FeedView `json:"items"`
	DayInfo
}

func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := activityListParams{Limit: q.Int("limit")}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := h.service.ListActivity(r.Context(), tenantID, params.Limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	loc := h.service.Zone(tenantID)
	resp := ListActivityResponse{Items: make([]ActivityView, 0, len(rows))}
	for _, row := range rows {
		resp.Items = append(resp.Items, toActivityView(row, loc))
	}
	resp.Total = len(resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activityMetrics(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	sel, metrics, err := h.service.ActivityMetrics(r.Context(), tenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivityMetricsResponse{
		ActiveVendors:     metrics.ActiveVendors,
		Checkins:          metrics.Checkins,
		Checkouts:         metrics.Checkouts,
		TotalVendorsToday: metrics.TotalVendorsToday,
		AvgTimeOnSiteMins: metrics.AvgTimeOnSiteMins,
		DayInfo:           dayInfo(sel),
	})
}

func (h *Handler) activityHourly(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	sel, buckets, err := h.service.HourlyActivity(r.Context(), tenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := HourlyResponse{Items: make([]HourlyView, 0, len(buckets)), DayInfo: dayInfo(sel)}
	for _, b := range buckets {
		resp.Items = append(resp.Items, HourlyView{Hour: b.HourLabel, Active: b.Active, Checkins: b.Checkins, Checkouts: b.Checkouts})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activityFeed(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := feedParams{Limit: q.Int("limit")}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}

	sel, events, err := h.service.ActivityFeed(r.Context(), tenantID, domain.ClampFeedLimit(params.Limit))
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := FeedResponse{Items: make([]FeedView, 0, len(events)), DayInfo: dayInfo(sel)}
	for _, e := range events {
		resp.Items = append(resp.Items, FeedView{
			ID:      e.ID,
			Vendor:  e.Vendor,
			Company: e.Company,
			Action:  string(e.Action),
			Target:  e.Target,
			At:      e.At,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toActivityView(row domain.ActivityRecord, loc *time.Location) ActivityView {
	return ActivityView{
		ID:         row.CheckinID,
		Name:       row.PersonName,
		Company:    row.CompanyName,
		Boat:       row.BoatName,
		Notes:      "-",
		Checkin:    formatLocal(row.CheckIn, loc),
		Checkout:   formatLocal(row.CheckOut, loc),
		CheckinAt:  row.CheckIn,
		CheckoutAt: row.CheckOut,
		Flagged:    row.Flagged(),
		Avatar:     row.PhotoRef,
		Phone:      row.ContactPhone,
		Email:      row.ContactEmail,
	}
}
