package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/settings", authMW...)
	g.GET("/content", h.get)
	g.PATCH("/content", h.patch)
}

// GET /admin/settings/content
func (h *Handler) get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, s)
}

// PATCH /admin/settings/content
func (h *Handler) patch(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s, err := h.svc.Update(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, s)
}
