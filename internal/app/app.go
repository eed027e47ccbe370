package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/database"
	"github.com/leadforge/site/internal/middleware"
	pkgcron "github.com/leadforge/site/internal/pkg/cron"
	pkgredis "github.com/leadforge/site/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rc:     rc,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(logger),
	}
	svcs, err := app.buildServices(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	app.registerRoutes(svcs)
	app.registerCronJobs(svcs)
	go app.sched.Start(ctx)

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "x-lf-cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOriginFunc = originAllowed(cfg.Site.URL, cfg.AllowedOrigins)
	}
	return c
}

// originAllowed builds the production origin check. The marketing site's own
// origin is always allowed. A pattern is a full origin ("https://leadforge.io"),
// a bare host, a "*.leadforge.io" subdomain wildcard or a "localhost:*" port
// wildcard.
func originAllowed(siteURL string, patterns []string) func(string) bool {
	exact := map[string]bool{}
	var suffixes, hostPrefixes []string
	add := func(p string) {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case p == "":
		case strings.HasPrefix(p, "*."):
			suffixes = append(suffixes, p[1:])
		case strings.HasSuffix(p, ":*"):
			hostPrefixes = append(hostPrefixes, strings.TrimSuffix(p, "*"))
		default:
			if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
				p = u.Scheme + "://" + u.Host
			}
			exact[p] = true
		}
	}
	add(siteURL)
	for _, p := range patterns {
		add(p)
	}

	return func(origin string) bool {
		origin = strings.ToLower(origin)
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		if exact[u.Scheme+"://"+u.Host] || exact[u.Host] {
			return true
		}
		for _, s := range suffixes {
			if strings.HasSuffix(u.Host, s) {
				return true
			}
		}
		for _, p := range hostPrefixes {
			if strings.HasPrefix(u.Host, p) {
				return true
			}
		}
		return false
	}
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	if err := a.rc.Close(); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
