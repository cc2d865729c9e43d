package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"memtodo/internal/core/telemetry"
	"memtodo/pkg/config"
	. "memtodo/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	CacheHeader      = "X-Cache"
	defaultCacheKey  = "default"
	cacheContentType = "application/json; charset=utf-8"
)

// ResponseCache serves repeated GETs from memory for a short TTL. Any
// successful write drops every entry, so a read issued after a write always
// reaches the store.
type ResponseCache struct {
	cache      *cache.Cache
	config     map[string]config.CacheConfig
	logger     *zap.Logger
	metrics    *telemetry.AppMetrics
	generation atomic.Uint64
	mutex      sync.Mutex
}

type CachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

func NewResponseCache(logger *zap.Logger, metrics *telemetry.AppMetrics, configs map[string]config.CacheConfig) *ResponseCache {
	entries := make(map[string]config.CacheConfig, len(configs))
	for path, entry := range configs {
		entries[path] = entry
	}

	return &ResponseCache{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  entries,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()

			if status := c.Writer.Status(); status >= 200 && status < 300 {
				rc.InvalidateAllCache()
			}
			return
		}

		path := c.FullPath()
		if path == "" {
			c.Next()
			return
		}

		entry := rc.configFor(path)
		if !entry.Enabled || entry.TTL <= 0 {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("cache:%s", c.Request.URL.RequestURI())

		if cached, found := rc.cache.Get(cacheKey); found {
			rc.serveCached(c, path, cacheKey, cached.(CachedResponse))
			return
		}

		ctx, span := CreateChildSpan(c.Request.Context(), "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(ctx, path)
		}

		rc.logger.Debug("Cache miss",
			zap.String("path", path),
			zap.String("cache_key", cacheKey))

		generation := rc.generation.Load()

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header(CacheHeader, "MISS")

		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		rc.store(cacheKey, generation, CachedResponse{
			StatusCode:  status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        bytes.Clone(writer.body.Bytes()),
			Timestamp:   time.Now(),
		}, entry.TTL)
	}
}

// store drops the response when a write finished while the read was in
// flight, since the captured body may predate it.
func (rc *ResponseCache) store(cacheKey string, generation uint64, cached CachedResponse, ttl time.Duration) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if rc.generation.Load() != generation {
		return
	}

	rc.cache.Set(cacheKey, cached, ttl)
}

func (rc *ResponseCache) serveCached(c *gin.Context, path, cacheKey string, cached CachedResponse) {
	age := time.Since(cached.Timestamp)

	_, span := CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
		attribute.String("cache.key", cacheKey),
		attribute.String("cache.path", path),
		attribute.String("cache.age", age.String()),
		attribute.Int("cache.body_size", len(cached.Body)),
	})
	defer span.End()

	if rc.metrics != nil {
		rc.metrics.RecordCacheHit(c.Request.Context(), path)
	}

	rc.logger.Debug("Cache hit",
		zap.String("path", path),
		zap.String("cache_key", cacheKey),
		zap.Duration("age", age))

	contentType := cached.ContentType
	if contentType == "" {
		contentType = cacheContentType
	}

	c.Header(CacheHeader, "HIT")
	c.Header("X-Cache-Age", fmt.Sprintf("%.0f", age.Seconds()))
	c.Data(cached.StatusCode, contentType, cached.Body)
	c.Abort()
}

func (rc *ResponseCache) configFor(path string) config.CacheConfig {
	if entry, ok := rc.config[path]; ok {
		return entry
	}

	return rc.config[defaultCacheKey]
}

func (rc *ResponseCache) InvalidateAllCache() {
	rc.mutex.Lock()
	rc.generation.Add(1)
	rc.cache.Flush()
	rc.mutex.Unlock()

	rc.logger.Debug("All cache invalidated")
}

func (rc *ResponseCache) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"active_entries": rc.cache.ItemCount(),
		"configs":        len(rc.config),
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
