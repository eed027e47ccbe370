package media

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/pkg/pagination"
	"github.com/leadforge/site/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger.Named("media")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/admin/media", authMW...)
	g.GET("", h.list)
	g.POST("", h.upload)
	g.DELETE("/:id", h.delete)
}

// upload POST /admin/media (multipart field "file")
func (h *Handler) upload(c *gin.Context) {
	if !h.svc.Enabled() {
		response.ServiceUnavailable(c, ErrStorageDisabled.Error())
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	m, err := h.svc.Upload(c.Request.Context(), middleware.CurrentUserID(c), Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        f,
	})
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, ErrUnsupportedType):
		response.UnprocessableEntity(c, err.Error())
	case err != nil:
		h.logger.Error("upload", zap.String("file", fileHeader.Filename), zap.Error(err))
		response.BadGateway(c, "upload to storage failed")
	default:
		response.Created(c, m)
	}
}

// list GET /admin/media
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c, pagination.Media))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// delete DELETE /admin/media/:id
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if !found && err == nil {
		response.NotFoundMsg(c, "media not found")
		return
	}
	if err != nil {
		if !found {
			response.InternalError(c, err)
			return
		}
		h.logger.Warn("remove object", zap.String("id", c.Param("id")), zap.Error(err))
	}
	response.NoContent(c)
}
