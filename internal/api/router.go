package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/logging"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/tenant"
)

// RouterConfig configures the HTTP edge.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter wires every endpoint. Tenant-scoped routes are served under
// /api and again under /api/tenants/{tenantId}.
func NewRouter(handler *Handler, resolver *tenant.Resolver, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(instrument)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins)))
	if cfg.RateLimitEnabled {
		r.Use(httprate.Limit(
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			}),
		))
	}

	r.NotFound(notFound)
	r.Get("/", root)
	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	scoped := tenant.NewMiddleware(resolver, tenantError)
	r.Route("/api", func(r chi.Router) {
		r.Get("/marinas", handler.listMarinas)
		r.Group(func(r chi.Router) {
			r.Use(scoped.Wrap)
			handler.tenantRoutes(r)
		})
		r.Route("/tenants/{tenantId}", func(r chi.Router) {
			r.Use(scoped.Wrap)
			handler.tenantRoutes(r)
		})
	})
	return r
}

func (h *Handler) tenantRoutes(r chi.Router) {
	r.Route("/activity", func(r chi.Router) {
		r.Get("/", h.listActivity)
		r.Get("/export", h.exportActivity)
		r.Get("/metrics", h.activityMetrics)
		r.Get("/hourly", h.activityHourly)
		r.Get("/feed", h.activityFeed)
	})
	r.Get("/boats", h.listBoats)
	r.Get("/vendors", h.listVendors)
	r.Route("/economics", func(r chi.Router) {
		r.Get("/summary", h.economicSummary)
		r.Get("/trend", h.economicTrend)
		r.Get("/quick-stats", h.quickStats)
		r.Get("/vendors", h.topVendors)
		r.Get("/vessels", h.topVessels)
		r.Get("/overview", h.economicOverview)
		r.Get("/diagnostic", h.economicDiagnostic)
	})
}

// corsOptions allows credentialed requests. An empty list or "*" echoes the
// caller's origin, since browsers refuse a literal "*" with credentials.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", tenant.HeaderName, logging.RequestIDHeader},
		ExposedHeaders:   []string{logging.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if anyOrigin(origins) {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return opts
}

func anyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
