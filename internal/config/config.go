// Package config centralises configuration loading for the dashboard API.
//
// Values are layered: struct defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

// Store backends.
const (
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
)

// Config captures runtime configuration values for the dashboard API.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Redis     RedisConfig     `koanf:"redis"`
	Business  BusinessConfig  `koanf:"business"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig tunes the HTTP listener.
type ServerConfig struct {
	Port int `koanf:"port"`
	// Address overrides Port when set, e.g. "127.0.0.1:4000".
	Address         string        `koanf:"address"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ListenAddress returns the address the server binds to.
func (s ServerConfig) ListenAddress() string {
	if s.Address != "" {
		return s.Address
	}
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(s.Port))
}

// StoreConfig selects and configures the upstream data service.
type StoreConfig struct {
	// Backend is postgres or postgrest. Empty picks postgrest when a
	// Supabase URL is configured and postgres otherwise.
	Backend             string        `koanf:"backend"`
	PostgresURL         string        `koanf:"postgres_url"`
	SupabaseURL         string        `koanf:"supabase_url"`
	SupabaseServiceRole string        `koanf:"supabase_service_role"`
	Timeout             time.Duration `koanf:"timeout"`
}

// RedisConfig enables the tenant slug cache when URL is set.
type RedisConfig struct {
	URL       string        `koanf:"url"`
	TenantTTL time.Duration `koanf:"tenant_ttl"`
}

// BusinessConfig holds the time zones used to compute local days.
type BusinessConfig struct {
	Timezone string `koanf:"timezone"`
	// TenantTimezones maps tenant ids to IANA zone names.
	TenantTimezones map[string]string `koanf:"tenant_timezones"`
}

// CORSConfig lists the allowed browser origins. "*" reflects any origin.
type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// RateLimitConfig configures the optional per-IP limiter.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            4000,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Timeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			TenantTTL: 10 * time.Minute,
		},
		Business: BusinessConfig{
			Timezone: "America/New_York",
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:  false,
			Requests: 300,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ResolvedBackend returns the configured backend, applying auto-selection.
func (c *Config) ResolvedBackend() string {
	if b := strings.ToLower(strings.TrimSpace(c.Store.Backend)); b != "" {
		return b
	}
	if c.Store.SupabaseURL != "" {
		return BackendPostgREST
	}
	return BackendPostgres
}

// TenantZones parses the per-tenant zone overrides.
func (c *Config) TenantZones() (map[int64]string, error) {
	zones := make(map[int64]string, len(c.Business.TenantTimezones))
	for key, zone := range c.Business.TenantTimezones {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("business.tenant_timezones: invalid tenant id %q", key)
		}
		zones[id] = strings.TrimSpace(zone)
	}
	return zones, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Address == "" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.ResolvedBackend() {
	case BackendPostgres:
		if c.Store.PostgresURL == "" {
			errs = append(errs, errors.New("store.postgres_url is required for the postgres backend"))
		}
	case BackendPostgREST:
		if c.Store.SupabaseURL == "" {
			errs = append(errs, errors.New("store.supabase_url is required for the postgrest backend"))
		}
		if c.Store.SupabaseServiceRole == "" {
			errs = append(errs, errors.New("store.supabase_service_role is required for the postgrest backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is not one of postgres, postgrest", c.Store.Backend))
	}

	if _, err := domain.LoadZone(c.Business.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("business.timezone: %w", err))
	}
	if zones, err := c.TenantZones(); err != nil {
		errs = append(errs, err)
	} else {
		for id, zone := range zones {
			if _, err := domain.LoadZone(zone); err != nil {
				errs = append(errs, fmt.Errorf("business.tenant_timezones[%d]: %w", id, err))
			}
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate_limit requires positive requests and window"))
	}
	return errors.Join(errs...)
}
