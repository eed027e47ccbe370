package ai

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appcfg "github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	gen    *Generator
	cfg    appcfg.AIConfig
	logger *zap.Logger
}

func NewHandler(gen *Generator, cfg appcfg.AIConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gen: gen, cfg: cfg, logger: logger.Named("ai")}
}

// RegisterRoutes mounts the generation proxy. The method guard runs before
// authMW so a wrong verb is always 405.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	g := rg.Group("/ai")
	providers := g.Group("/providers", authMW...)
	providers.GET("", h.listProviders)

	gen := g.Group("/generate", postOnly)
	gen.Use(authMW...)
	gen.Any("/title", h.generateTitle)
	gen.Any("/outline", h.generateOutline)
	gen.Any("/section", h.generateSection)
}

func postOnly(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	c.Next()
}

// POST /ai/generate/title
func (h *Handler) generateTitle(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	title, err := h.gen.Title(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("generate title", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to generate title")
		return
	}
	c.JSON(http.StatusOK, titleResponse{Title: title})
}

// POST /ai/generate/outline
func (h *Handler) generateOutline(c *gin.Context) {
	var req OutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	outline, err := h.gen.Outline(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("generate outline", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to generate outline")
		return
	}
	c.JSON(http.StatusOK, outlineResponse{Outline: outline})
}

// POST /ai/generate/section
func (h *Handler) generateSection(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	content, err := h.gen.Section(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("generate section", zap.Int("index", req.SectionIndex), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to generate section")
		return
	}
	c.JSON(http.StatusOK, sectionResponse{Content: content})
}

// GET /ai/providers  [admin]
func (h *Handler) listProviders(c *gin.Context) {
	active := SelectProvider(h.cfg)
	out := make([]providerInfo, 0, len(h.cfg.Providers))
	for _, p := range h.cfg.Providers {
		info := providerInfo{
			ID:      p.ID,
			Name:    p.Name,
			Type:    p.Type,
			Model:   p.DefaultModel,
			Enabled: p.Enabled,
		}
		if active != nil && active.ID == p.ID {
			info.Active = true
			info.Model = active.DefaultModel
		}
		out = append(out, info)
	}
	response.OK(c, out)
}
