package api

import (
	"net/http"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

// BoatView is one row of the boat registry table.
type BoatView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Location     string `json:"location"`
	Owner        string `json:"owner"`
	Captain      string `json:"captain"`
	Renewal      string `json:"renewal"`
	Archived     bool   `json:"archived"`
}

// ListBoatsResponse is the body of GET /api/boats.
type ListBoatsResponse struct {
	Items []BoatView `json:"items"`
	Total int        `json:"total"`
}

// VendorView is one row of the vendor table.
type VendorView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	VendorType string     `json:"vendor_type"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// ListVendorsResponse is the body of GET /api/vendors.
type ListVendorsResponse struct {
	Total int          `json:"total"`
	Items []VendorView `json:"items"`
}

func (h *Handler) listBoats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := boatParams{Archived: q.Bool("archived"), Query: q.String("q")}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}

	boats, err := h.service.ListBoats(r.Context(), tenantID, domain.BoatFilter{Archived: params.Archived, Query: params.Query})
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := ListBoatsResponse{Items: make([]BoatView, 0, len(boats))}
	for _, b := range boats {
		resp.Items = append(resp.Items, BoatView{
			ID:           b.ID,
			Name:         orDash(b.Name),
			Manufacturer: orDash(b.Manufacturer),
			Location:     orDash(b.Location),
			Owner:        b.Owner(),
			Captain:      b.Captain(),
			Renewal:      "No renewals",
			Archived:     b.Archived,
		})
	}
	resp.Total = len(resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := vendorParams{Query: q.String("q"), Status: q.String("status"), Type: q.String("type")}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}

	vendors, err := h.service.ListVendors(r.Context(), tenantID, domain.VendorFilter{
		Query:  params.Query,
		Status: params.Status,
		Type:   params.Type,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := ListVendorsResponse{Items: make([]VendorView, 0, len(vendors))}
	for _, v := range vendors {
		resp.Items = append(resp.Items, VendorView{
			ID:         v.ID,
			Name:       v.Name,
			Email:      v.Email,
			Phone:      v.Phone,
			VendorType: v.VendorType,
			Status:     v.Status,
			CreatedAt:  v.CreatedAt,
			UpdatedAt:  v.UpdatedAt,
		})
	}
	resp.Total = len(resp.Items)
	writeJSON(w, http.StatusOK, resp)
}
