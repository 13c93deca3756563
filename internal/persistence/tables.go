// Package persistence contains helpers shared by store implementations.
package persistence

import (
	"sort"
	"strings"
)

// Table names of the data service.
const (
	TenantTable     = "multitenancy_tenant"
	ActivityTable   = "advp_clients_activitylogs"
	BoatTable       = "advp_overall_boat"
	VendorTable     = "advp_vendors"
	VendorHoursMap  = "advp_vendor_hours_daily_map"
	MarinaWageTable = "advp_marina_wages"
)

// Procedure names of the data service.
const (
	FnTopVendors  = "get_top_vendors_by_tenant"
	FnTopVessels  = "get_top_vessels_by_tenant"
	FnEconSummary = "get_econ_summary"
	FnEconTrend   = "get_econ_trend_map"
	FnQuickStats  = "get_econ_quick_stats"
)

// ActivityColumns are selected from the activity log.
var ActivityColumns = []string{
	"checkin_id", "tenant_id", "full_name", "company_name", "boat_name",
	"check_in", "check_out", "flags",
	"vendor_employee_phone", "vendor_employee_email", "face_photo",
}

// BoatColumns are selected from the boat registry.
var BoatColumns = []string{
	"admiral_boat_id", "boat_name", "manufacturer", "location",
	"owner_name", "owner_surname", "captain_name", "captain_surname", "archived",
}

// BoatSearchColumns are matched by the boat free-text query.
var BoatSearchColumns = []string{
	"boat_name", "manufacturer", "location",
	"owner_name", "owner_surname", "captain_name", "captain_surname",
}

// VendorColumns are selected from the vendor registry.
var VendorColumns = []string{
	"id", "name", "email", "phone", "vendor_type", "status", "created_at", "updated_at",
}

// VendorSearchColumns are matched by the vendor free-text query.
var VendorSearchColumns = []string{"name", "email", "phone", "vendor_type", "status"}

// DiagnosticSources are reported by the economics diagnostic, in order.
var DiagnosticSources = []string{VendorHoursMap, ActivityTable, MarinaWageTable}

// MaxWindowRows caps the rows fetched for one day window.
const MaxWindowRows = 5000

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike trims q and escapes the LIKE metacharacters in it.
func EscapeLike(q string) string {
	return likeEscaper.Replace(strings.TrimSpace(q))
}

// ContainsPattern turns q into an ILIKE pattern matching q as a literal
// substring.
func ContainsPattern(q string) string {
	return "%" + EscapeLike(q) + "%"
}

// SortedKeys returns the column names of a sample row.
func SortedKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
