package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisc "github.com/leadforge/site/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const (
	APICachePrefix          = "lf-api-cache:"
	defaultHTTPCacheTTL     = 30 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20
	staleWhileRevalidate    = 60
)

type HTTPCacheOptions struct {
	TTL             time.Duration
	EnableCDNHeader bool
	Disable         bool
	SkipPaths       []string
	MaxBodyBytes    int
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
	Body        []byte `json:"-"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > w.maxBodyBytes {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache serves anonymous GET responses from Redis for opts.TTL.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}
	ttlSeconds := int(opts.TTL / time.Second)

	return func(c *gin.Context) {
		if opts.Disable || rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		if shouldSkipCachePath(c.Request.URL.Path, opts.SkipPaths) || IsAuthenticated(c) {
			c.Next()
			return
		}

		cacheKey := APICachePrefix + c.Request.URL.RequestURI()
		if payload, ok := readCachedResponse(c.Request.Context(), rdb, cacheKey); ok {
			c.Header("x-lf-cache", "hit")
			setCacheHeader(c.Writer, ttlSeconds, opts)
			c.Data(payload.Status, payload.ContentType, payload.Body)
			c.Abort()
			return
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: opts.MaxBodyBytes}
		c.Writer = buffer
		c.Header("x-lf-cache", "miss")
		c.Next()

		status := c.Writer.Status()
		if !isCacheableResponse(status, c.Writer.Header()) || buffer.overflow || len(buffer.body) == 0 {
			return
		}
		setCacheHeader(c.Writer, ttlSeconds, opts)

		raw, err := json.Marshal(cachedHTTPResponse{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(buffer.body),
		})
		if err != nil {
			return
		}
		_ = rdb.Set(c.Request.Context(), cacheKey, raw, opts.TTL).Err()
	}
}

// PurgeHTTPCache drops every cached response. Content writers call it after mutations.
func PurgeHTTPCache(ctx context.Context, rc *redisc.Client) (int64, error) {
	if rc == nil || rc.Raw() == nil {
		return 0, nil
	}
	return rc.DeletePrefix(ctx, APICachePrefix)
}

func readCachedResponse(ctx context.Context, rdb *redis.Client, cacheKey string) (cachedHTTPResponse, bool) {
	raw, err := rdb.Get(ctx, cacheKey).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedHTTPResponse{}, false
	}
	var payload cachedHTTPResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return cachedHTTPResponse{}, false
	}
	if payload.Status <= 0 {
		payload.Status = http.StatusOK
	}
	if payload.ContentType == "" {
		payload.ContentType = "application/json; charset=utf-8"
	}
	body, err := base64.StdEncoding.DecodeString(payload.BodyBase64)
	if err != nil {
		return cachedHTTPResponse{}, false
	}
	payload.Body = body
	return payload, true
}

func shouldSkipCachePath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func isCacheableResponse(status int, headers http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	cacheControl := strings.ToLower(headers.Get("Cache-Control"))
	return !strings.Contains(cacheControl, "no-cache") &&
		!strings.Contains(cacheControl, "no-store") &&
		!strings.Contains(cacheControl, "private")
}

func setCacheHeader(w gin.ResponseWriter, ttlSeconds int, opts HTTPCacheOptions) {
	if w.Header().Get("Cache-Control") != "" {
		return
	}
	value := "public, max-age=" + strconv.Itoa(ttlSeconds)
	if opts.EnableCDNHeader {
		value += ", s-maxage=" + strconv.Itoa(ttlSeconds) + ", stale-while-revalidate=" + strconv.Itoa(staleWhileRevalidate)
	}
	w.Header().Set("Cache-Control", value)
}
