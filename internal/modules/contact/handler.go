package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/pagination"
	"github.com/leadforge/site/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public form behind publicMW (rate limit,
// idempotence) and the inbox behind authMW.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, publicMW []gin.HandlerFunc, authMW ...gin.HandlerFunc) {
	public := rg.Group("/contact", publicMW...)
	public.POST("", h.submit)

	inbox := rg.Group("/admin/contacts", authMW...)
	inbox.GET("", h.list)
	inbox.GET("/unread", h.unread)
	inbox.GET("/:id", h.get)
	inbox.PATCH("/:id/status", h.setStatus)
	inbox.DELETE("/:id", h.delete)
}

// submit POST /contact
func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "please check the highlighted fields")
		return
	}
	if _, err := h.svc.Submit(c.Request.Context(), &dto, c.ClientIP()); err != nil {
		response.InternalError(c, errors.New("could not save your message, please try again"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": 1, "message": "thanks, we will be in touch shortly"})
}

// list GET /admin/contacts
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	subs, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c, pagination.Inbox), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, subs, pag)
}

// unread GET /admin/contacts/unread
func (h *Handler) unread(c *gin.Context) {
	n, err := h.svc.CountNew(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": n})
}

// get GET /admin/contacts/:id
func (h *Handler) get(c *gin.Context) {
	sub, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sub)
}

type statusBody struct {
	Status models.ContactStatus `json:"status" binding:"required"`
}

// setStatus PATCH /admin/contacts/:id/status
func (h *Handler) setStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	found, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

// delete DELETE /admin/contacts/:id
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
	response.NoContent(c)
}
