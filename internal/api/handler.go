// Package api exposes the HTTP handlers of the marina dashboard.
package api

import (
	"net/http"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/tenant"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// root answers the platform health check on "/".
func root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errTypeNotFound, "route not found")
}

// tenantFrom returns the resolved tenant, or writes the error response.
func tenantFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := tenant.FromContext(r.Context())
	if !ok {
		respondError(w, r, domain.ErrMissingIdentifier)
		return 0, false
	}
	return id, true
}

// DayInfo labels dashboard responses with the day actually shown.
type DayInfo struct {
	DateUsed string `json:"date_used"`
	Fallback bool   `json:"fallback"`
}

func dayInfo(sel domain.DaySelection) DayInfo {
	return DayInfo{DateUsed: sel.Date.String(), Fallback: sel.Fallback}
}

// MarinaView is one entry of the marina picker.
type MarinaView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListMarinasResponse is the body of GET /api/marinas.
type ListMarinasResponse struct {
	Items []MarinaView `json:"items"`
}

func (h *Handler) listMarinas(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.service.ListTenants(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := ListMarinasResponse{Items: make([]MarinaView, 0, len(tenants))}
	for _, t := range tenants {
		resp.Items = append(resp.Items, MarinaView{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	writeJSON(w, http.StatusOK, resp)
}

// localStamp is the display format of check-in times.
const localStamp = "1/2/2006, 3:04:05 PM"

func formatLocal(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format(localStamp)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
