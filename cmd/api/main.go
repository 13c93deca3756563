package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/api"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/cache"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/config"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/logging"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence/postgres"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence/postgrest"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/tenant"
	httptransport "github.com/join-admiral/ADVP-Economic-Dashboard/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Caller: cfg.Logging.Caller})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.ResolvedBackend()).Msg("failed to open store")
	}
	defer closeStore()

	tenantZones, err := cfg.TenantZones()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid tenant time zones")
	}
	zones, err := domain.NewZones(cfg.Business.Timezone, tenantZones)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid business time zone")
	}
	service := domain.NewService(store, zones)

	var slugs tenant.SlugCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		slugs = cache.NewRedisSlugCache(client, cfg.Redis.TenantTTL)
		logging.Info().Dur("ttl", cfg.Redis.TenantTTL).Msg("tenant slug cache enabled")
	}
	resolver := tenant.NewResolver(store, slugs)

	router := api.NewRouter(api.NewHandler(service), resolver, api.RouterConfig{
		CORSOrigins:       cfg.CORS.Origins,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.Server.ListenAddress(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, router)

	logging.Info().
		Str("backend", cfg.ResolvedBackend()).
		Str("timezone", cfg.Business.Timezone).
		Msg("marina dashboard api starting")

	if err := httptransport.ListenAndServe(ctx, server, cfg.Server.ShutdownTimeout); err != nil {
		logging.Error().Err(err).Msg("server error")
		stop()
		closeStore()
		os.Exit(1)
	}
	logging.Info().Msg("marina dashboard api stopped")
}

// openStore builds the configured backend and returns its cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (domain.Store, func(), error) {
	switch cfg.ResolvedBackend() {
	case config.BackendPostgREST:
		store := postgrest.NewStore(postgrest.Config{
			BaseURL:    cfg.Store.SupabaseURL,
			ServiceKey: cfg.Store.SupabaseServiceRole,
			Timeout:    cfg.Store.Timeout,
		})
		return store, func() {}, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStore(pool), pool.Close, nil
	}
}
