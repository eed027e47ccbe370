package crontask

import (
	"github.com/gin-gonic/gin"
	pkgcron "github.com/leadforge/site/internal/pkg/cron"
	"github.com/leadforge/site/internal/pkg/response"
)

// Handler wraps the scheduler for HTTP access.
type Handler struct {
	sched *pkgcron.Scheduler
}

func NewHandler(sched *pkgcron.Scheduler) *Handler {
	return &Handler{sched: sched}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/cron", authMW...)
	g.GET("", h.list)
	g.POST("/:name/run", h.run)
}

// GET /admin/cron
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.sched.List())
}

// POST /admin/cron/:name/run
// Runs the job synchronously and reports its resulting status.
func (h *Handler) run(c *gin.Context) {
	name := c.Param("name")
	if err := h.sched.Run(c.Request.Context(), name); err != nil {
		response.NotFoundMsg(c, "cron job not found")
		return
	}
	for _, item := range h.sched.List() {
		if item.Name == name {
			response.OK(c, item)
			return
		}
	}
	response.NoContent(c)
}
