package postgrest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

type recorded struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   map[string]any
}

type fakeREST struct {
	mu       sync.Mutex
	requests []recorded
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query(), header: r.Header.Clone()}
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.respond(w, r)
}

func (f *fakeREST) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newFake(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*fakeREST, *Store) {
	t.Helper()
	fake := &fakeREST{respond: respond}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, NewStore(Config{BaseURL: srv.URL + "/", ServiceKey: "service-role", Timeout: 2 * time.Second})
}

func writeBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestFindTenantBySlug(t *testing.T) {
	fake, store := newFake(t, writeBody(`[{"id": 12, "slug": "harbor-point", "name": "Harbor Point"}]`))

	tenant, err := store.FindTenantBySlug(context.Background(), "harbor-point")
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, int64(12), tenant.ID)

	req := fake.last()
	assert.Equal(t, "/rest/v1/multitenancy_tenant", req.path)
	assert.Equal(t, "eq.harbor-point", req.query.Get("slug"))
	assert.Equal(t, "id.asc", req.query.Get("order"))
	assert.Equal(t, "1", req.query.Get("limit"))
	assert.Equal(t, "service-role", req.header.Get("apikey"))
	assert.Equal(t, "Bearer service-role", req.header.Get("Authorization"))
}

func TestFindTenantBySlugMissing(t *testing.T) {
	_, store := newFake(t, writeBody(`[]`))

	tenant, err := store.FindTenantBySlug(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestActivityBetweenFilters(t *testing.T) {
	fake, store := newFake(t, writeBody(`[
		{"checkin_id": "a1", "tenant_id": 12, "full_name": "Ann", "check_in": "2024-01-01T12:00:00+00:00",
		 "check_out": "2024-01-01T13:30:00+00:00", "flags": ["late"]}
	]`))

	start := time.Date(2024, time.January, 1, 5, 0, 0, 0, time.UTC)
	rows, err := store.ActivityBetween(context.Background(), 12, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a1", rows[0].CheckinID)
	assert.True(t, rows[0].Flagged())
	assert.Equal(t, 90.0, rows[0].CheckOut.Sub(*rows[0].CheckIn).Minutes())

	req := fake.last()
	assert.Equal(t, "/rest/v1/advp_clients_activitylogs", req.path)
	assert.Equal(t, "eq.12", req.query.Get("tenant_id"))
	assert.Equal(t,
		`(and(check_in.gte."2024-01-01T05:00:00Z",check_in.lt."2024-01-02T05:00:00Z"),and(check_out.gte."2024-01-01T05:00:00Z",check_out.lt."2024-01-02T05:00:00Z"))`,
		req.query.Get("or"))
	assert.Equal(t, "5000", req.query.Get("limit"))
}

func TestLatestActivityOrdering(t *testing.T) {
	fake, store := newFake(t, writeBody(`[]`))

	rec, err := store.LatestActivity(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, "check_in.desc.nullslast", fake.last().query.Get("order"))
	assert.Equal(t, "1", fake.last().query.Get("limit"))
}

func TestListBoatsSearch(t *testing.T) {
	fake, store := newFake(t, writeBody(`[{"admiral_boat_id": "b1", "boat_name": "Sea Breeze", "owner_name": "Ann", "archived": false}]`))

	boats, err := store.ListBoats(context.Background(), 12, domain.BoatFilter{Query: `50%_off`})
	require.NoError(t, err)
	require.Len(t, boats, 1)
	assert.Equal(t, "Ann", boats[0].Owner())

	q := fake.last().query
	assert.Equal(t, "eq.false", q.Get("archived"))
	assert.Equal(t, "boat_name.asc", q.Get("order"))
	assert.Contains(t, q.Get("or"), `boat_name.ilike."*50\\%\\_off*"`)
	assert.Contains(t, q.Get("or"), `captain_surname.ilike.`)
}

func TestListVendorsFilters(t *testing.T) {
	fake, store := newFake(t, writeBody(`[{"id": 4, "name": "Acme", "status": "active", "updated_at": "2024-01-03T00:00:00Z"}]`))

	vendors, err := store.ListVendors(context.Background(), 12, domain.VendorFilter{Status: "active", Type: "detail", Query: "acme"})
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "4", vendors[0].ID)
	require.NotNil(t, vendors[0].UpdatedAt)

	q := fake.last().query
	assert.Equal(t, "eq.active", q.Get("status"))
	assert.Equal(t, "ilike.*detail*", q.Get("vendor_type"))
	assert.Equal(t, "500", q.Get("limit"))
	assert.Equal(t, "updated_at.desc.nullslast", q.Get("order"))
	assert.Contains(t, q.Get("or"), `email.ilike."*acme*"`)
}

func TestRPCNormalization(t *testing.T) {
	fake, store := newFake(t, writeBody(`[
		{"vendor_name": "Blue Water", "total_hours": "3.5", "wages": 120.75},
		{"company_name": "Acme", "hours": 10, "total_wages": 500.5}
	]`))

	rows, err := store.TopVendors(context.Background(), 12, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.WageRow{Name: "Acme", Hours: 10, TotalWages: 500.5}, rows[0])
	assert.Equal(t, domain.WageRow{Name: "Blue Water", Hours: 3.5, TotalWages: 120.75}, rows[1])

	req := fake.last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/rest/v1/rpc/get_top_vendors_by_tenant", req.path)
	assert.Equal(t, map[string]any{"p_tenant_id": 12.0, "p_limit": 5.0}, req.body)
}

func TestEconomicSummaryAndTrend(t *testing.T) {
	fake, store := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/rpc/get_econ_summary":
			writeBody(`[{"yday_value": "10.5", "week_value": 70, "month_value": 300, "all_time_value": 9000.25, "active_vendors_yday": 4, "cutoff": "2024-01-01"}]`)(w, r)
		default:
			writeBody(`[{"bucket_date": "2024-01-01", "value": "12"}]`)(w, r)
		}
	})

	summary, err := store.EconomicSummary(context.Background(), 12, 30)
	require.NoError(t, err)
	assert.Equal(t, domain.EconomicSummary{YesterdayValue: 10.5, Week: 70, Month: 300, AllTime: 9000.25, ActiveVendorsYesterday: 4, Cutoff: "2024-01-01"}, summary)
	assert.Equal(t, 30.0, fake.last().body["p_days"])

	points, err := store.EconomicTrend(context.Background(), 12, domain.TrendQuery{Granularity: domain.GranularityWeek, Days: 90})
	require.NoError(t, err)
	assert.Equal(t, []domain.TrendPoint{{Date: "2024-01-01", Value: 12}}, points)
	assert.Equal(t, "week", fake.last().body["p_granularity"])
}

func TestUpstreamErrors(t *testing.T) {
	_, store := newFake(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code": "PGRST202", "message": "Could not find the function"}`)
	})

	_, err := store.QuickStats(context.Background(), 12)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "PGRST202", apiErr.Code)
	assert.Contains(t, err.Error(), "Could not find the function")
}

func TestDiagnose(t *testing.T) {
	_, store := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/advp_marina_wages":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message": "permission denied"}`)
		default:
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			w.Header().Set("Content-Range", "0-0/42")
			writeBody(`[{"tenant_id": 12, "wages": 10}]`)(w, r)
		}
	})

	report, err := store.Diagnose(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, report, 3)
	assert.Equal(t, "advp_vendor_hours_daily_map", report[0].Source)
	assert.Equal(t, int64(42), report[0].Rows)
	assert.Equal(t, []string{"tenant_id", "wages"}, report[0].Columns)
	assert.Equal(t, int64(-1), report[2].Rows)
	assert.Contains(t, report[2].Err, "permission denied")
}

func TestContentRangeTotal(t *testing.T) {
	assert.Equal(t, int64(57), contentRangeTotal("0-4/57"))
	assert.Equal(t, int64(0), contentRangeTotal("*/0"))
	assert.Equal(t, int64(-1), contentRangeTotal("0-4/*"))
	assert.Equal(t, int64(-1), contentRangeTotal(""))
}

func TestContainsValueSharesLikeEscaping(t *testing.T) {
	assert.Equal(t, `*50\%\_off*`, containsValue(" 50%_off "))
	assert.Equal(t, "*"+persistence.EscapeLike(`a\b`)+"*", containsValue(`a\b`))
	assert.Equal(t, `"*x\\\\y*"`, quoted(containsValue(`x\y`)))
}
