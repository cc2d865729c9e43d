package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func envFrom(values map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestGetDefaultConfig(t *testing.T) {
	RegisterTestingT(t)

	cfg := GetDefaultConfig()

	Expect(cfg.Server.Addr()).To(Equal("127.0.0.1:3030"))
	Expect(cfg.CORS.AllowedOrigins).To(ConsistOf("http://localhost:3000", "http://localhost:8000"))
	Expect(cfg.CORS.AllowedMethods).To(ConsistOf("GET", "POST", "PATCH", "DELETE"))
	Expect(cfg.CORS.AllowCredentials).To(BeTrue())
	Expect(cfg.RateLimitConfigs).To(HaveKey("POST /api/todos"))
	Expect(cfg.RateLimitConfigs["POST /api/todos"].Requests).To(Equal(20))
	Expect(cfg.RateLimitConfigs["default"].Requests).To(Equal(60))
	Expect(cfg.CacheConfigs["/api/todos"].TTL).To(Equal(3 * time.Second))
	Expect(cfg.RateLimitEnabled).To(BeFalse())
	Expect(cfg.TrustedProxies).To(BeEmpty())
	Expect(cfg.IsProduction()).To(BeFalse())
}

func TestApplyEnv(t *testing.T) {
	RegisterTestingT(t)

	cfg := GetDefaultConfig()

	err := cfg.applyEnv(envFrom(map[string]string{
		"HOST":                 "0.0.0.0",
		"PORT":                 "8080",
		"RATE_LIMIT_ENABLED":   "true",
		"CACHE_ENABLED":        "0",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"METRICS_PORT":         "9100",
		"TRUSTED_PROXIES":      "10.0.0.1, 10.1.0.0/16",
	}))

	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.Server.Addr()).To(Equal("0.0.0.0:8080"))
	Expect(cfg.RateLimitEnabled).To(BeTrue())
	Expect(cfg.CacheEnabled).To(BeFalse())
	Expect(cfg.CORS.AllowedOrigins).To(Equal([]string{"https://a.example", "https://b.example"}))
	Expect(cfg.Telemetry.MetricsPort).To(Equal("9100"))
	Expect(cfg.TrustedProxies).To(Equal([]string{"10.0.0.1", "10.1.0.0/16"}))
}

func TestApplyEnv_ReleaseModeEnforcesHTTPS(t *testing.T) {
	RegisterTestingT(t)

	cfg := GetDefaultConfig()
	Expect(cfg.applyEnv(envFrom(map[string]string{"GIN_MODE": "release"}))).To(Succeed())

	Expect(cfg.IsProduction()).To(BeTrue())
	Expect(cfg.EnforceHTTPS).To(BeTrue())

	cfg = GetDefaultConfig()
	Expect(cfg.applyEnv(envFrom(map[string]string{"GIN_MODE": "release", "ENFORCE_HTTPS": "false"}))).To(Succeed())

	Expect(cfg.EnforceHTTPS).To(BeFalse())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	RegisterTestingT(t)

	Expect(GetDefaultConfig().applyEnv(envFrom(map[string]string{"PORT": "http"}))).ToNot(Succeed())
	Expect(GetDefaultConfig().applyEnv(envFrom(map[string]string{"CACHE_ENABLED": "maybe"}))).ToNot(Succeed())
}

func TestLoadFile(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "memtodo.toml")
	content := `
log_level = "debug"
trusted_proxies = ["10.0.0.1"]

[server]
port = "4040"

[rate_limits."POST /api/todos"]
requests = 2
window = "30s"
`
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

	cfg := GetDefaultConfig()
	Expect(cfg.LoadFile(path)).To(Succeed())

	Expect(cfg.LogLevel).To(Equal("debug"))
	Expect(cfg.Server.Port).To(Equal("4040"))
	Expect(cfg.Server.Host).To(Equal("127.0.0.1"))
	Expect(cfg.TrustedProxies).To(Equal([]string{"10.0.0.1"}))
	Expect(cfg.RateLimitConfigs["POST /api/todos"]).To(Equal(RateLimitConfig{Requests: 2, Window: 30 * time.Second}))
	Expect(cfg.RateLimitConfigs).To(HaveKey("default"))
}

func TestLoadFile_UnknownKey(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "memtodo.toml")
	Expect(os.WriteFile(path, []byte("colour = \"blue\"\n"), 0o600)).To(Succeed())

	Expect(GetDefaultConfig().LoadFile(path)).To(MatchError(ContainSubstring("unknown keys")))
}

func TestLoad_FromEnvironment(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "memtodo.toml")
	Expect(os.WriteFile(path, []byte("[server]\nport = \"5050\"\n"), 0o600)).To(Succeed())

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HOST", "localhost")

	cfg, err := Load()

	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.Server.Addr()).To(Equal("localhost:5050"))
}
