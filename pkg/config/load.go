package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type lookupFunc func(key string) (string, bool)

// Load layers the defaults, the optional TOML file named by CONFIG_FILE and
// the process environment, in that order.
func Load() (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile merges a TOML file into the config. Tables named in the file
// replace the matching rate limit or cache entry as a whole.
func (c *AppConfig) LoadFile(path string) error {
	meta, err := toml.DecodeFile(path, c)

	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	return nil
}

func (c *AppConfig) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup("HOST"); ok && v != "" {
		c.Server.Host = v
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = v
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := lookup("LOKI_URL"); ok {
		c.LokiURL = v
	}

	if v, ok := lookup("ENVIRONMENT"); ok && v != "" {
		c.Environment = v
	}

	if v, ok := lookup("GIN_MODE"); ok && v == "release" {
		c.Environment = "production"
		c.EnforceHTTPS = true
	}

	flags := []struct {
		key    string
		target *bool
	}{
		{"ENFORCE_HTTPS", &c.EnforceHTTPS},
		{"RATE_LIMIT_ENABLED", &c.RateLimitEnabled},
		{"CACHE_ENABLED", &c.CacheEnabled},
		{"TELEMETRY_ENABLED", &c.Telemetry.Enabled},
	}

	for _, flag := range flags {
		v, ok := lookup(flag.key)
		if !ok || v == "" {
			continue
		}

		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", flag.key, v, err)
		}

		*flag.target = parsed
	}

	if v, ok := lookup("METRICS_PORT"); ok && v != "" {
		c.Telemetry.MetricsPort = v
	}

	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.Telemetry.OTLPEndpoint = v
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}

	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		c.TrustedProxies = splitList(v)
	}

	return nil
}

func splitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
