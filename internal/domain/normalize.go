package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Field fallback orders for rows returned by the remote procedures. The
// first field present with a usable value wins.
var (
	VendorNameFields = []string{"company_name", "vendor_name", "name"}
	VesselNameFields = []string{"boat_name", "vessel_name", "name"}
	HoursFields      = []string{"hours", "total_hours"}
	WagesFields      = []string{"total_wages", "wages", "total"}
	TrendDateFields  = []string{"bucket_date", "d", "date"}
)

// Row is an untyped upstream row keyed by column name.
type Row map[string]any

// String returns the first non-empty field rendered as text.
func (r Row) String(fields ...string) string {
	for _, f := range fields {
		if s := textOf(r[f]); s != "" {
			return s
		}
	}
	return ""
}

// Float returns the first field that holds a number or numeric string.
func (r Row) Float(fields ...string) float64 {
	for _, f := range fields {
		if v, ok := floatOf(r[f]); ok {
			return v
		}
	}
	return 0
}

// Int returns Float truncated to an int.
func (r Row) Int(fields ...string) int {
	return int(r.Float(fields...))
}

// Bool returns the first field holding a boolean or "true"/"false".
func (r Row) Bool(fields ...string) bool {
	for _, f := range fields {
		switch v := r[f].(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return false
}

// Time returns the first field holding a timestamp, or nil.
func (r Row) Time(fields ...string) *time.Time {
	for _, f := range fields {
		switch v := r[f].(type) {
		case time.Time:
			t := v
			return &t
		case *time.Time:
			if v != nil {
				return v
			}
		case string:
			if t, ok := parseTimestamp(v); ok {
				return &t
			}
		}
	}
	return nil
}

// JSON re-encodes a field, for columns stored as json.
func (r Row) JSON(field string) json.RawMessage {
	v, ok := r[field]
	if !ok || v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return formatCutoff(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func floatOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// formatCutoff renders dates as YYYY-MM-DD and timestamps as RFC3339.
func formatCutoff(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.UTC().Format(time.RFC3339)
}

// NormalizeWageRows maps procedure rows onto WageRow using nameFields for the
// label, ordered by wages descending.
func NormalizeWageRows(rows []Row, nameFields []string) []WageRow {
	out := make([]WageRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, WageRow{
			Name:       row.String(nameFields...),
			Hours:      row.Float(HoursFields...),
			TotalWages: row.Float(WagesFields...),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalWages > out[j].TotalWages })
	return out
}

// NormalizeSummary reads the first summary row; missing rows give zeros.
func NormalizeSummary(rows []Row) EconomicSummary {
	if len(rows) == 0 {
		return EconomicSummary{}
	}
	row := rows[0]
	return EconomicSummary{
		YesterdayValue:         row.Float("yday_value"),
		Week:                   row.Float("week_value", "week"),
		Month:                  row.Float("month_value", "month"),
		AllTime:                row.Float("all_time_value", "all_time"),
		ActiveVendorsYesterday: row.Int("active_vendors_yday"),
		Cutoff:                 row.String("cutoff"),
	}
}

// NormalizeTrend maps trend rows onto TrendPoint.
func NormalizeTrend(rows []Row) []TrendPoint {
	out := make([]TrendPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, TrendPoint{
			Date:  row.String(TrendDateFields...),
			Value: row.Float("value"),
		})
	}
	return out
}

// NormalizeQuickStats reads the first quick-stats row.
func NormalizeQuickStats(rows []Row) QuickStats {
	if len(rows) == 0 {
		return QuickStats{}
	}
	return QuickStats{
		DailyAvg30: rows[0].Float("daily_avg_30"),
		Cutoff:     rows[0].String("cutoff"),
	}
}

// ActivityFromRow maps an activity log row.
func ActivityFromRow(row Row) ActivityRecord {
	return ActivityRecord{
		CheckinID:    row.String("checkin_id"),
		TenantID:     int64(row.Float("tenant_id")),
		PersonName:   row.String("full_name"),
		CompanyName:  row.String("company_name"),
		BoatName:     row.String("boat_name"),
		CheckIn:      row.Time("check_in"),
		CheckOut:     row.Time("check_out"),
		Flags:        row.JSON("flags"),
		ContactPhone: row.String("vendor_employee_phone"),
		ContactEmail: row.String("vendor_employee_email"),
		PhotoRef:     row.String("face_photo"),
	}
}

// BoatFromRow maps a boat row.
func BoatFromRow(row Row) Boat {
	return Boat{
		ID:             row.String("admiral_boat_id"),
		Name:           row.String("boat_name"),
		Manufacturer:   row.String("manufacturer"),
		Location:       row.String("location"),
		OwnerName:      row.String("owner_name"),
		OwnerSurname:   row.String("owner_surname"),
		CaptainName:    row.String("captain_name"),
		CaptainSurname: row.String("captain_surname"),
		Archived:       row.Bool("archived"),
	}
}

// VendorFromRow maps a vendor row.
func VendorFromRow(row Row) Vendor {
	return Vendor{
		ID:         row.String("id"),
		Name:       row.String("name"),
		Email:      row.String("email"),
		Phone:      row.String("phone"),
		VendorType: row.String("vendor_type"),
		Status:     row.String("status"),
		CreatedAt:  row.Time("created_at"),
		UpdatedAt:  row.Time("updated_at"),
	}
}

// TenantFromRow maps a tenant directory row.
func TenantFromRow(row Row) Tenant {
	return Tenant{
		ID:   int64(row.Float("id")),
		Slug: row.String("slug"),
		Name: row.String("name"),
	}
}
