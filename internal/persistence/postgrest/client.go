// Package postgrest reads the dashboard data through a PostgREST endpoint,
// such as the REST API of a hosted Supabase project.
package postgrest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/observability"
)

const backend = "postgrest"

// Config configures the PostgREST client.
type Config struct {
	// BaseURL is the project URL; /rest/v1 is appended.
	BaseURL string
	// ServiceKey is sent as apikey and bearer token.
	ServiceKey string
	Timeout    time.Duration
}

// APIError is a non-success response of the REST endpoint.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("postgrest: %d: %s", e.Status, e.Message)
}

// Store provides PostgREST-backed reads for every dashboard view.
type Store struct {
	http *resty.Client
}

var _ domain.Store = (*Store)(nil)

// NewStore constructs a Store.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/rest/v1").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.ServiceKey).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if cfg.ServiceKey != "" {
		client.SetAuthToken(cfg.ServiceKey)
	}
	return &Store{http: client}
}

// observe is deferred with the address of the named error result.
func observe(op string, start time.Time, err *error) {
	observability.ObserveUpstream(backend, op, start, *err)
}

// selectRows runs GET /<table> with the given filters.
func (s *Store) selectRows(ctx context.Context, table string, params url.Values) ([]domain.Row, *resty.Response, error) {
	return s.get(ctx, s.http.R(), table, params)
}

// selectCounted is selectRows with the exact total in Content-Range.
func (s *Store) selectCounted(ctx context.Context, table string, params url.Values) ([]domain.Row, *resty.Response, error) {
	return s.get(ctx, s.http.R().SetHeader("Prefer", "count=exact"), table, params)
}

func (s *Store) get(ctx context.Context, req *resty.Request, table string, params url.Values) ([]domain.Row, *resty.Response, error) {
	resp, err := req.
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get("/" + table)
	if err != nil {
		return nil, resp, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, resp, err
	}
	rows, err := decodeRows(resp.Body())
	return rows, resp, err
}

// rpc runs POST /rpc/<fn> with named arguments.
func (s *Store) rpc(ctx context.Context, fn string, args map[string]any) ([]domain.Row, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(args).
		Post("/rpc/" + fn)
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeRows(resp.Body())
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Message: strings.TrimSpace(string(resp.Body()))}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status()
	}
	return apiErr
}

// decodeRows decodes an array of objects, a single object or null. Numbers
// are kept as json.Number so decimals survive.
func decodeRows(body []byte) ([]domain.Row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Row{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '{' {
		var row domain.Row
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		return []domain.Row{row}, nil
	}
	var rows []domain.Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	return rows, nil
}

// contentRangeTotal reads the total of a "0-4/57" or "*/0" Content-Range.
func contentRangeTotal(header string) int64 {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return -1
	}
	total, err := strconv.ParseInt(header[i+1:], 10, 64)
	if err != nil {
		return -1
	}
	return total
}
