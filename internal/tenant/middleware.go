package tenant

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	// HeaderName carries the tenant identifier.
	HeaderName = "X-Tenant-Id"
	// QueryParam and RouteParam name the tenantId parameter.
	QueryParam = "tenantId"
	RouteParam = "tenantId"
	// legacyQueryParam is still sent by older dashboard builds.
	legacyQueryParam = "tenant"
)

// Source extracts a raw identifier from a request, or "".
type Source func(r *http.Request) string

// Header reads the identifier from a request header.
func Header(name string) Source {
	return func(r *http.Request) string { return r.Header.Get(name) }
}

// Query reads the identifier from a query parameter.
func Query(name string) Source {
	return func(r *http.Request) string { return r.URL.Query().Get(name) }
}

// Route reads the identifier from a chi route parameter.
func Route(name string) Source {
	return func(r *http.Request) string { return chi.URLParam(r, name) }
}

// DefaultSources lists the identifier sources in precedence order.
func DefaultSources() []Source {
	return []Source{Header(HeaderName), Query(QueryParam), Query(legacyQueryParam), Route(RouteParam)}
}

// RawIdentifier returns the first non-blank value of sources.
func RawIdentifier(r *http.Request, sources []Source) string {
	for _, source := range sources {
		if v := strings.TrimSpace(source(r)); v != "" {
			return v
		}
	}
	return ""
}

// Skipper allows callers to bypass resolution for specific requests.
type Skipper func(r *http.Request) bool

// ErrorWriter renders a resolution failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware resolves the tenant of every request and stores its id on the
// request context.
type Middleware struct {
	Resolver *Resolver
	Sources  []Source
	Skipper  Skipper
	OnError  ErrorWriter
}

// NewMiddleware constructs a middleware using DefaultSources.
func NewMiddleware(resolver *Resolver, onError ErrorWriter) Middleware {
	return Middleware{Resolver: resolver, Sources: DefaultSources(), OnError: onError}
}

// Wrap wraps an http.Handler with tenant resolution.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	sources := m.Sources
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.Resolver.Resolve(r.Context(), RawIdentifier(r, sources))
		if err != nil {
			if m.OnError != nil {
				m.OnError(w, r, err)
			} else {
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
