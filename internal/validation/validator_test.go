package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

type trendParams struct {
	Days        int    `query:"days" validate:"omitempty,min=1,max=3650"`
	Granularity string `query:"granularity" validate:"omitempty,oneof=day week month"`
	Date        string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(trendParams{}))
	assert.NoError(t, Struct(trendParams{Days: 90, Granularity: "week", Date: "2024-03-10"}))
}

func TestStructReportsQueryName(t *testing.T) {
	tests := []struct {
		name   string
		params trendParams
		field  string
		reason string
	}{
		{"days too large", trendParams{Days: 5000}, "days", "must be at most 3650"},
		{"negative days", trendParams{Days: -1}, "days", "must be at least 1"},
		{"granularity", trendParams{Granularity: "hour"}, "granularity", "must be one of: day, week, month"},
		{"date", trendParams{Date: "03/10/2024"}, "date", "must be a date formatted as 2006-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.params)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}
