// Package health reports whether the backing stores are reachable.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{db: db, rdb: rdb}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.check)
}

// check GET /health
func (h *Handler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	dbOK := h.pingDB(ctx)
	redisOK := h.rdb != nil && h.rdb.Ping(ctx).Err() == nil

	status, code := "ok", http.StatusOK
	if !dbOK || !redisOK {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"database": dbOK,
		"redis":    redisOK,
	})
}

func (h *Handler) pingDB(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	return err == nil && sqlDB.PingContext(ctx) == nil
}
