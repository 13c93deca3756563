package domain

// Granularity is the bucket size of the economic trend.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

const (
	// DefaultTrendDays is the trend range when none is requested.
	DefaultTrendDays = 180
	// DefaultTopLimit is the size of the top vendor/vessel lists.
	DefaultTopLimit = 5
)

// TrendQuery selects the economic trend series.
type TrendQuery struct {
	Granularity Granularity
	Days        int
}

// EconomicSummary holds the headline economic totals of a marina.
type EconomicSummary struct {
	YesterdayValue         float64
	Week                   float64
	Month                  float64
	AllTime                float64
	ActiveVendorsYesterday int
	Cutoff                 string
}

// TrendPoint is one bucket of the economic trend.
type TrendPoint struct {
	Date  string
	Value float64
}

// QuickStats holds the rolling averages shown next to the trend chart.
type QuickStats struct {
	DailyAvg30 float64
	Cutoff     string
}

// WageRow is a canonical top-list entry: a vendor company or a vessel with
// the hours worked and wages paid.
type WageRow struct {
	Name       string
	Hours      float64
	TotalWages float64
}

// EconomicOverview joins every economics view of one dashboard.
type EconomicOverview struct {
	Summary EconomicSummary
	Trend   []TrendPoint
	Quick   QuickStats
	Vendors []WageRow
	Vessels []WageRow
}
