package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "Idempotency-Key"
	idempotenceTTL    = 60 * time.Second
	maxHashedBody     = 64 << 10
)

// Idempotence rejects a repeated write within 60s of an identical one. The key
// is the Idempotency-Key header or a hash of method, URL, body and client IP.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := "lf:idempotence:" + key
		ctx := c.Request.Context()

		// SetNX claims the key atomically.
		claimed, err := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !claimed {
			msg := "identical request already accepted, retry in a minute"
			if val, _ := rdb.Get(ctx, redisKey).Result(); val == "0" {
				msg = "identical request is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxHashedBody+1))
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
	if len(body) == 0 || len(body) > maxHashedBody {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.ClientIP()
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
