package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/modules/settings"
	"github.com/leadforge/site/internal/pkg/response"
	"go.uber.org/zap"
)

// SettingsSource supplies the content defaults a new run starts from.
type SettingsSource interface {
	Get(ctx context.Context) (settings.ContentSettings, error)
}

type Handler struct {
	orch     *Orchestrator
	runs     *Registry
	settings SettingsSource
	logger   *zap.Logger

	heartbeat time.Duration
}

func NewHandler(orch *Orchestrator, runs *Registry, src SettingsSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orch:      orch,
		runs:      runs,
		settings:  src,
		logger:    logger.Named("generator"),
		heartbeat: 15 * time.Second,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/generator/runs", authMW...)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/submit", h.submit)
	g.PUT("/:id/outline", h.editOutline)
	g.POST("/:id/back", h.back)
	g.POST("/:id/confirm", h.confirm)
	g.GET("/:id/events", h.events)
}

func (h *Handler) run(c *gin.Context) (*Run, bool) {
	run, err := h.runs.Get(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.NotFoundMsg(c, "generation run not found")
		return nil, false
	}
	return run, true
}

// GET /admin/generator/runs
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.runs.List(middleware.CurrentUserID(c)))
}

// POST /admin/generator/runs
func (h *Handler) create(c *gin.Context) {
	defaults, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.logger.Warn("load content settings, using defaults", zap.Error(err))
		defaults = settings.Defaults()
	}
	run := h.runs.Create(middleware.CurrentUserID(c), defaults)
	response.Created(c, run.Snapshot())
}

// GET /admin/generator/runs/:id
func (h *Handler) get(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}
	response.OK(c, run.Snapshot())
}

// DELETE /admin/generator/runs/:id
func (h *Handler) remove(c *gin.Context) {
	if err := h.runs.Delete(c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		response.NotFoundMsg(c, "generation run not found")
		return
	}
	response.NoContent(c)
}

// POST /admin/generator/runs/:id/submit
func (h *Handler) submit(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}
	var in ParameterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.orch.Submit(c.Request.Context(), run, in); err != nil {
		h.stageError(c, run, err)
		return
	}
	response.OK(c, run.Snapshot())
}

type outlineBody struct {
	Outline string `json:"outline"`
}

// PUT /admin/generator/runs/:id/outline
func (h *Handler) editOutline(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}
	var body outlineBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.orch.EditOutline(run, body.Outline); err != nil {
		h.stageError(c, run, err)
		return
	}
	response.OK(c, run.Snapshot())
}

// POST /admin/generator/runs/:id/back
func (h *Handler) back(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}
	if err := h.orch.Back(run); err != nil {
		h.stageError(c, run, err)
		return
	}
	response.OK(c, run.Snapshot())
}

// POST /admin/generator/runs/:id/confirm
// Returns 202 once generation has started; follow it on /events.
func (h *Handler) confirm(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}
	if err := h.orch.ConfirmAsync(c.Request.Context(), run); err != nil {
		h.stageError(c, run, err)
		return
	}
	c.JSON(http.StatusAccepted, run.Snapshot())
}

func (h *Handler) stageError(c *gin.Context, run *Run, err error) {
	switch {
	case errors.Is(err, ErrWrongStage), errors.Is(err, ErrBusy):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidParameters), errors.Is(err, ErrEmptyOutline):
		response.UnprocessableEntity(c, err.Error())
	default:
		h.logger.Error("generation failed", zap.String("run", run.ID), zap.Error(err))
		msg := run.Snapshot().Error
		if msg == "" {
			msg = "generation failed"
		}
		response.BadGateway(c, msg)
	}
}

// GET /admin/generator/runs/:id/events
// Streams a snapshot after every change until the run stops being busy.
func (h *Handler) events(c *gin.Context) {
	run, ok := h.run(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendEvent := func(eventType string, data any) {
		payload, _ := json.Marshal(data)
		fmt.Fprintf(c.Writer, "data: %s\n\n", fmt.Sprintf(`{"type":%q,"data":%s}`, eventType, payload))
		c.Writer.Flush()
	}

	updates, cancel := run.Watch()
	defer cancel()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		case snap := <-updates:
			if !snap.Done() {
				sendEvent("progress", snap)
				continue
			}
			switch {
			case snap.PostID != "":
				sendEvent("done", snap)
			case snap.Error != "":
				sendEvent("error", snap)
			default:
				sendEvent("idle", snap)
			}
			return
		}
	}
}
