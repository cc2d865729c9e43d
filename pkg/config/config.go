package config

import (
	"net"
	"time"
)

const ServiceName = "memtodo"

type AppConfig struct {
	ServiceName string `toml:"service_name"`
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`
	LokiURL     string `toml:"loki_url"`

	Server ServerConfig `toml:"server"`
	CORS   CORSConfig   `toml:"cors"`

	EnforceHTTPS bool `toml:"enforce_https"`

	// TrustedProxies lists the peers whose X-Forwarded-For is honoured when
	// resolving the client IP. Empty trusts no one.
	TrustedProxies []string `toml:"trusted_proxies"`

	RateLimitEnabled bool                       `toml:"rate_limit_enabled"`
	RateLimitConfigs map[string]RateLimitConfig `toml:"rate_limits"`

	CacheEnabled bool                   `toml:"cache_enabled"`
	CacheConfigs map[string]CacheConfig `toml:"cache"`

	Telemetry TelemetryConfig `toml:"telemetry"`
}

type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `toml:"allowed_origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// RateLimitConfig keys are "METHOD /route" or a bare route; "default"
// applies to everything else.
type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

type CacheConfig struct {
	TTL     time.Duration `toml:"ttl"`
	Enabled bool          `toml:"enabled"`
}

type TelemetryConfig struct {
	Enabled        bool   `toml:"enabled"`
	ServiceVersion string `toml:"service_version"`
	MetricsPort    string `toml:"metrics_port"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName: ServiceName,
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            "3030",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8000"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		},
		EnforceHTTPS:     false,
		RateLimitEnabled: false,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /api/todos": {
				Requests: 20,
				Window:   time.Minute,
			},
			"PATCH /api/todos/:id": {
				Requests: 30,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]CacheConfig{
			"/api/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"/api/todos/:id": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"default": {
				TTL:     0,
				Enabled: false,
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			ServiceVersion: "1.0.0",
			MetricsPort:    "9091",
		},
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
