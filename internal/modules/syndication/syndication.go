// Package syndication serves the sitemap and the blog feeds.
package syndication

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/models"
	"go.uber.org/zap"
)

const (
	feedSize    = 20
	sitemapSize = 5000
)

// PostSource lists published posts, newest first.
type PostSource interface {
	Latest(ctx context.Context, n int) ([]models.PostModel, error)
}

type Handler struct {
	posts  PostSource
	site   config.SiteConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(posts PostSource, site config.SiteConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{posts: posts, site: site, logger: logger.Named("syndication"), now: time.Now}
}

// RegisterRoutes mounts the XML endpoints on rg, usually the router root.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sitemap.xml", h.sitemap)
	rg.GET("/feed.xml", h.rss)
	rg.GET("/atom.xml", h.atom)
}

func (h *Handler) postURL(p *models.PostModel) string {
	return h.site.URL + "/blog/" + p.Slug
}

func (h *Handler) load(c *gin.Context, n int) ([]models.PostModel, bool) {
	posts, err := h.posts.Latest(c.Request.Context(), n)
	if err != nil {
		h.logger.Error("load posts", zap.Error(err))
		c.String(http.StatusInternalServerError, "error generating document")
		return nil, false
	}
	return posts, true
}

func writeXML(c *gin.Context, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating document")
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

func publishedAt(p *models.PostModel) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}
