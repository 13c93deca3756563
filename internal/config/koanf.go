package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the YAML file to load.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envMappings maps environment variables onto koanf paths. Unlisted
// variables are ignored.
var envMappings = map[string]string{
	"port":                  "server.port",
	"http_address":          "server.address",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"shutdown_timeout":      "server.shutdown_timeout",
	"store_backend":         "store.backend",
	"postgres_url":          "store.postgres_url",
	"database_url":          "store.postgres_url",
	"supabase_url":          "store.supabase_url",
	"supabase_service_role": "store.supabase_service_role",
	"upstream_timeout":      "store.timeout",
	"redis_url":             "redis.url",
	"tenant_cache_ttl":      "redis.tenant_ttl",
	"business_timezone":     "business.timezone",
	"tenant_timezones":      "business.tenant_timezones",
	"cors_origin":           "cors.origins",
	"rate_limit_enabled":    "rate_limit.enabled",
	"rate_limit_requests":   "rate_limit.requests",
	"rate_limit_window":     "rate_limit.window",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads the layered configuration and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitList(k, "cors.origins"); err != nil {
		return nil, err
	}
	if err := splitPairs(k, "business.tenant_timezones"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitList turns a comma separated string at path into a list.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := splitTrim(raw, ",")
	if len(parts) == 0 {
		return nil
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// splitPairs turns "12=America/Chicago,40=Europe/Rome" at path into a map.
func splitPairs(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	pairs := make(map[string]any)
	for _, part := range splitTrim(raw, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found || strings.TrimSpace(key) == "" {
			return fmt.Errorf("%s: expected id=zone, got %q", path, part)
		}
		pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	k.Delete(path)
	if len(pairs) == 0 {
		return nil
	}
	if err := k.Set(path, pairs); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func splitTrim(value, sep string) []string {
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
