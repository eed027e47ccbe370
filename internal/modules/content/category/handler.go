package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	redisc "github.com/leadforge/site/internal/pkg/redis"
	"github.com/leadforge/site/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	cache *redisc.Client
}

func NewHandler(svc *Service, cache *redisc.Client) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.GET("/:query", h.getByQuery)

	authed := rg.Group("/admin/categories", authMW...)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cats)
}

func (h *Handler) getByQuery(c *gin.Context) {
	cat, err := h.svc.GetByQuery(c.Request.Context(), c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicate):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrEmptySlug):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	_, _ = middleware.PurgeHTTPCache(c.Request.Context(), h.cache)
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	_, _ = middleware.PurgeHTTPCache(c.Request.Context(), h.cache)
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFound(c)
		return
	}
	_, _ = middleware.PurgeHTTPCache(c.Request.Context(), h.cache)
	response.NoContent(c)
}
