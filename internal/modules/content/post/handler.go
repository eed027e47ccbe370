package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/richtext"
	"github.com/leadforge/site/internal/pkg/pagination"
	redisc "github.com/leadforge/site/internal/pkg/redis"
	"github.com/leadforge/site/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc    *Service
	cache  *redisc.Client
	logger *zap.Logger
}

func NewHandler(svc *Service, cache *redisc.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, cache: cache, logger: logger.Named("post")}
}

// RegisterRoutes mounts the public blog routes and the admin post editor.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	posts := rg.Group("/posts")
	posts.GET("", h.listPublished)
	posts.GET("/:slug", h.getBySlug)

	admin := rg.Group("/admin/posts", authMW...)
	admin.GET("", h.list)
	admin.POST("", h.create)
	admin.POST("/import", h.importMarkdown)
	admin.GET("/:id", h.get)
	admin.PUT("/:id", h.update)
	admin.PATCH("/:id", h.update)
	admin.POST("/:id/publish", h.publish)
	admin.POST("/:id/unpublish", h.unpublish)
	admin.DELETE("/:id", h.delete)
}

// purge drops cached public responses after a write.
func (h *Handler) purge(c *gin.Context) {
	if _, err := middleware.PurgeHTTPCache(c.Request.Context(), h.cache); err != nil {
		h.logger.Warn("purge http cache", zap.Error(err))
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrEmptySlug), errors.Is(err, richtext.ErrNoTitle):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) listWith(c *gin.Context, publishedOnly bool) {
	q := pagination.FromContext(c, pagination.Posts)
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	posts, pag, err := h.svc.List(c.Request.Context(), q, lq, publishedOnly)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toResponse(&posts[i], false)
	}
	response.Paged(c, items, pag)
}

// listPublished GET /posts
func (h *Handler) listPublished(c *gin.Context) { h.listWith(c, true) }

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	p, err := h.svc.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(p, true))
}

// list GET /admin/posts
func (h *Handler) list(c *gin.Context) { h.listWith(c, false) }

// get GET /admin/posts/:id
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(p, true))
}

// create POST /admin/posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p.Status == models.PostPublished {
		h.purge(c)
	}
	response.Created(c, toResponse(p, true))
}

// importMarkdown POST /admin/posts/import
func (h *Handler) importMarkdown(c *gin.Context) {
	var dto importDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.ImportMarkdown(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResponse(p, true))
}

// update PUT /admin/posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	h.purge(c)
	response.OK(c, toResponse(p, true))
}

// publish POST /admin/posts/:id/publish
func (h *Handler) publish(c *gin.Context) { h.setStatus(c, models.PostPublished) }

// unpublish POST /admin/posts/:id/unpublish
func (h *Handler) unpublish(c *gin.Context) { h.setStatus(c, models.PostDraft) }

func (h *Handler) setStatus(c *gin.Context, status models.PostStatus) {
	p, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	h.purge(c)
	response.OK(c, toResponse(p, true))
}

// delete DELETE /admin/posts/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "post not found")
		return
	}
	h.purge(c)
	response.NoContent(c)
}
