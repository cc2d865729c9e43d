package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"memtodo/internal/core/telemetry"
	"memtodo/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)

	router.GET("/api/todos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(RequestIDKey)})
	})

	return router
}

func TestRequestIDMiddleware(t *testing.T) {
	RegisterTestingT(t)

	router := okRouter(RequestIDMiddleware())

	w := perform(router, http.MethodGet, "/api/todos")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	Expect(err).ToNot(HaveOccurred())

	w = perform(router, http.MethodGet, "/api/todos", RequestIDHeader, "abc-123")
	Expect(w.Header().Get(RequestIDHeader)).To(Equal("abc-123"))
	Expect(w.Body.String()).To(ContainSubstring("abc-123"))
}

func TestHTTPSMiddleware(t *testing.T) {
	RegisterTestingT(t)

	disabled := okRouter(NewHTTPSEnforcer(false, zap.NewNop()).HTTPSMiddleware())
	Expect(perform(disabled, http.MethodGet, "http://api.example.com/api/todos").Code).To(Equal(http.StatusOK))

	enforcer := NewHTTPSEnforcer(true, zap.NewNop())
	Expect(enforcer.IsEnabled()).To(BeTrue())
	router := okRouter(enforcer.HTTPSMiddleware())

	w := perform(router, http.MethodGet, "http://api.example.com/api/todos?page=2")
	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://api.example.com/api/todos?page=2"))

	Expect(perform(router, http.MethodGet, "http://api.example.com/api/todos", "X-Forwarded-Proto", "https").Code).To(Equal(http.StatusOK))
	Expect(perform(router, http.MethodGet, "http://localhost:3030/api/todos").Code).To(Equal(http.StatusOK))
}

func TestMetricsMiddleware(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	router := okRouter(MetricsMiddleware(telemetry.NewAppMetrics(registry)))

	perform(router, http.MethodGet, "/api/todos")
	perform(router, http.MethodGet, "/api/todos")
	perform(router, http.MethodGet, "/nowhere")

	Expect(testutil.GatherAndCount(registry, "http_requests_total")).To(Equal(2))
	Expect(testutil.GatherAndCount(registry, "http_active_connections")).To(Equal(1))
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	RegisterTestingT(t)

	router := okRouter(MetricsMiddleware(nil))

	Expect(perform(router, http.MethodGet, "/api/todos").Code).To(Equal(http.StatusOK))
}

func TestCORS(t *testing.T) {
	RegisterTestingT(t)

	handler := CORS(config.GetDefaultConfig().CORS)(okRouter())

	preflight := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	preflight.Header.Set("Access-Control-Request-Headers", "content-type")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, preflight)

	Expect(w.Code).To(BeNumerically("<", 300))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	Expect(w.Header().Get("Access-Control-Allow-Methods")).To(Equal(http.MethodPatch))

	w = perform(handler, http.MethodGet, "/api/todos", "Origin", "http://evil.example")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
}

func TestSetupGinMiddlewareWithConfig(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.Telemetry.Enabled = false
	cfg.RateLimitEnabled = true

	gin.SetMode(gin.TestMode)
	router := gin.New()
	components := SetupGinMiddlewareWithConfig(router, telemetry.NewAppMetrics(prometheus.NewRegistry()), config.NewNopLogger(), cfg)
	router.GET("/api/todos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := perform(router, http.MethodGet, "/api/todos")

	Expect(w.Header().Get(RequestIDHeader)).ToNot(BeEmpty())
	Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("100"))
	Expect(w.Header().Get(CacheHeader)).To(Equal("MISS"))

	Expect(components.RateLimiter).ToNot(BeNil())
	Expect(components.ResponseCache).ToNot(BeNil())
	Expect(components.Stats()).To(HaveLen(2))
	Expect(components.RateLimiter.GetStats()["active_entries"]).To(Equal(1))
	Expect(components.ResponseCache.GetStats()["active_entries"]).To(Equal(1))
}

func TestSetupGinMiddlewareWithConfig_DefaultsSkipRateLimit(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.Telemetry.Enabled = false

	gin.SetMode(gin.TestMode)
	router := gin.New()
	components := SetupGinMiddlewareWithConfig(router, telemetry.NewAppMetrics(prometheus.NewRegistry()), config.NewNopLogger(), cfg)
	router.POST("/api/todos", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})

	for i := 0; i < 25; i++ {
		w := perform(router, http.MethodPost, "/api/todos")

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
	}

	Expect(components.RateLimiter).To(BeNil())
	Expect(components.Stats()).To(HaveLen(1))
}

func TestLoggingMiddleware_TraceFields(t *testing.T) {
	RegisterTestingT(t)

	core, logs := observer.New(zap.InfoLevel)
	provider := sdktrace.NewTracerProvider()

	var spanID string
	withSpan := func(c *gin.Context) {
		ctx, span := provider.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()

		spanID = span.SpanContext().SpanID().String()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}

	router := okRouter(RequestIDMiddleware(), LoggingMiddleware(config.WrapLogger(zap.New(core))), withSpan)
	Expect(perform(router, http.MethodGet, "/api/todos?page=2").Code).To(Equal(http.StatusOK))

	entries := logs.FilterMessage("HTTP Request").All()
	Expect(entries).To(HaveLen(1))

	fields := entries[0].ContextMap()
	Expect(fields).To(HaveKeyWithValue("path", "/api/todos?page=2"))
	Expect(fields).To(HaveKeyWithValue("status", int64(http.StatusOK)))
	Expect(fields).To(HaveKey("request_id"))
	Expect(fields).To(HaveKey("trace_id"))
	Expect(fields).To(HaveKeyWithValue("span_id", spanID))
}
