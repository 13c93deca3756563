package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/validation"
)

// Activity and feed limits are clamped, never rejected.
type activityListParams struct {
	Limit int `query:"limit"`
}

type feedParams struct {
	Limit int `query:"limit"`
}

type exportParams struct {
	Format  string `query:"format" validate:"omitempty,oneof=csv xlsx"`
	Query   string `query:"q"`
	Flagged bool   `query:"flagged"`
	Date    string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type boatParams struct {
	Archived bool   `query:"archived"`
	Query    string `query:"q"`
}

type vendorParams struct {
	Query  string `query:"q"`
	Status string `query:"status"`
	Type   string `query:"type"`
}

type summaryParams struct {
	Days int `query:"days" validate:"omitempty,min=1,max=3650"`
}

type trendParams struct {
	Days        int    `query:"days" validate:"omitempty,min=1,max=3650"`
	Granularity string `query:"granularity" validate:"omitempty,oneof=day week month"`
}

type topParams struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

// queryReader reads typed query parameters, keeping the first parse error.
type queryReader struct {
	r   *http.Request
	err error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{r: r}
}

func (q *queryReader) raw(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

func (q *queryReader) String(name string) string {
	return q.raw(name)
}

func (q *queryReader) Int(name string) int {
	raw := q.raw(name)
	if raw == "" || q.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.err = domain.NewValidationError(name, "must be an integer")
		return 0
	}
	return v
}

func (q *queryReader) Bool(name string) bool {
	raw := q.raw(name)
	if raw == "" || q.err != nil {
		return false
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		q.err = domain.NewValidationError(name, "must be true or false")
		return false
	}
}

// Validate returns the first parse error, then the struct validation result.
func (q *queryReader) Validate(params any) error {
	if q.err != nil {
		return q.err
	}
	return validation.Struct(params)
}
