package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/logging"
)

// Error types reported in the "type" field of error bodies.
const (
	errTypeMissingTenant = "missing_tenant"
	errTypeUnknownTenant = "unknown_tenant"
	errTypeValidation    = "validation_failed"
	errTypeUpstream      = "upstream_error"
	errTypeServer        = "server_error"
	errTypeNotFound      = "not_found"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Type: errType})
}

// respondError maps err onto a status code and logs server side failures.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType, message := classify(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeError(w, status, errType, message)
}

func classify(err error) (int, string, string) {
	var (
		validation *domain.ValidationError
		upstream   *domain.UpstreamError
	)
	switch {
	case errors.Is(err, domain.ErrMissingIdentifier):
		return http.StatusBadRequest, errTypeMissingTenant, err.Error()
	case errors.Is(err, domain.ErrUnknownTenant):
		return http.StatusBadRequest, errTypeUnknownTenant, err.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, errTypeValidation, validation.Error()
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, errTypeUpstream, upstream.Error()
	default:
		return http.StatusInternalServerError, errTypeServer, "internal server error"
	}
}

// tenantError is the tenant.ErrorWriter used by the router.
func tenantError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err)
}
