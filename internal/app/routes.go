package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/auth"
	"github.com/leadforge/site/internal/modules/contact"
	"github.com/leadforge/site/internal/modules/content/category"
	"github.com/leadforge/site/internal/modules/content/post"
	"github.com/leadforge/site/internal/modules/media"
	"github.com/leadforge/site/internal/modules/processing/ai"
	"github.com/leadforge/site/internal/modules/processing/generator"
	"github.com/leadforge/site/internal/modules/settings"
	"github.com/leadforge/site/internal/modules/site"
	"github.com/leadforge/site/internal/modules/syndication"
	"github.com/leadforge/site/internal/modules/system/health"
	"github.com/leadforge/site/internal/modules/tasks/crontask"
	"github.com/leadforge/site/internal/pkg/mail"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

type services struct {
	settings   *settings.Service
	posts      *post.Service
	categories *category.Service
	contact    *contact.Service
	auth       *auth.Service
	media      *media.Service
	aiGen      *ai.Generator
	runs       *generator.Registry
	orch       *generator.Orchestrator
}

func (a *App) buildServices(ctx context.Context) (*services, error) {
	s := &services{
		settings:   settings.NewService(a.db),
		posts:      post.NewService(a.db),
		categories: category.NewService(a.db),
		contact:    contact.NewService(a.db),
		auth:       auth.NewService(a.db),
		runs:       generator.NewRegistry(),
	}

	if n := a.cfg.Notify; n.Enable {
		sender := mail.New(mail.Config{Host: n.Host, Port: n.Port, User: n.User, Pass: n.Pass, From: n.From})
		s.contact.WithNotifier(contact.NewLeadMailer(sender, n.To, a.cfg.Site.Name, a.cfg.Site.URL), n.MinTier, a.logger)
	}

	if err := s.auth.EnsureAdmin(ctx, a.cfg.Admin, a.logger); err != nil {
		return nil, err
	}

	completer, err := ai.NewCompleter(ai.SelectProvider(a.cfg.AI), a.cfg.Generator.MaxTokens)
	if err != nil {
		a.logger.Warn("AI provider unavailable, generation endpoints will fail", zap.Error(err))
		completer = ai.Unavailable(err)
	}
	s.aiGen = ai.NewGenerator(completer, a.logger)

	genLogger := a.logger.Named("generator")
	s.orch = generator.NewOrchestrator(s.aiGen, s.posts, generator.Options{
		Concurrency: a.cfg.Generator.Concurrency,
		OnProgress: func(runID string, progress int) {
			genLogger.Debug("progress", zap.String("run", runID), zap.Int("progress", progress))
		},
	}, a.logger)

	var store media.ObjectStore
	if a.cfg.StorageEnabled() {
		store, err = media.NewS3Store(a.cfg.Storage)
		if err != nil {
			return nil, err
		}
	} else {
		a.logger.Info("storage not configured, media uploads disabled")
	}
	s.media = media.NewService(a.db, store, a.cfg.Storage.Prefix)
	return s, nil
}

func (a *App) registerRoutes(s *services) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	syndication.NewHandler(s.posts, a.cfg.Site, a.logger).RegisterRoutes(&r.RouterGroup)

	authMW := middleware.Auth(db)
	staffMW := []gin.HandlerFunc{authMW, middleware.RequireRole(db, models.RoleAdmin, models.RoleEditor)}
	adminMW := []gin.HandlerFunc{authMW, middleware.RequireRole(db, models.RoleAdmin)}

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		TTL:             15 * time.Second,
		EnableCDNHeader: true,
		Disable:         a.cfg.IsDev(),
		SkipPaths:       []string{apiPrefix + "/admin/*", apiPrefix + "/auth/*", apiPrefix + "/health"},
	}))

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	health.NewHandler(db, a.rc.Raw()).RegisterRoutes(api)
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{"timestamp": up.Milliseconds(), "humanize": humanizeDuration(up)})
	})

	// Public site
	site.NewHandler(s.posts, a.logger).RegisterRoutes(api)
	post.NewHandler(s.posts, a.rc, a.logger).RegisterRoutes(api, staffMW...)
	category.NewHandler(s.categories, a.rc).RegisterRoutes(api, staffMW...)

	contactMW := []gin.HandlerFunc{
		middleware.RateLimit(a.rc.Raw(), middleware.RateLimitOptions{
			Scope:  "contact",
			Max:    5,
			Window: 10 * time.Minute,
			Logger: a.logger,
		}),
		middleware.Idempotence(a.rc.Raw()),
	}
	contact.NewHandler(s.contact).RegisterRoutes(api, contactMW, staffMW...)

	// Auth & users
	auth.NewHandler(s.auth, !a.cfg.IsDev()).RegisterRoutes(api, []gin.HandlerFunc{authMW}, adminMW)

	// Generation
	ai.NewHandler(s.aiGen, a.cfg.AI, a.logger).RegisterRoutes(api, staffMW...)
	generator.NewHandler(s.orch, s.runs, s.settings, a.logger).RegisterRoutes(api, staffMW...)
	settings.NewHandler(s.settings).RegisterRoutes(api, adminMW...)

	// Media & jobs
	media.NewHandler(s.media, a.logger).RegisterRoutes(api, staffMW...)
	crontask.NewHandler(a.sched).RegisterRoutes(api, adminMW...)
}

var processStart = time.Now()
