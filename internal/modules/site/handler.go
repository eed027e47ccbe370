package site

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/response"
	"go.uber.org/zap"
)

const latestPostCount = 3

// PostSource lists the newest published posts.
type PostSource interface {
	Latest(ctx context.Context, n int) ([]models.PostModel, error)
}

// PostCard is the summary of a post shown on the landing page.
type PostCard struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"coverImage,omitempty"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type Handler struct {
	posts  PostSource
	logger *zap.Logger
}

func NewHandler(posts PostSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{posts: posts, logger: logger.Named("site")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/site")
	g.GET("/pricing", h.pricing)
	g.GET("/landing", h.landing)
}

// pricing GET /site/pricing
func (h *Handler) pricing(c *gin.Context) {
	response.OK(c, pricing)
}

// landing GET /site/landing
// The page still renders without posts when the blog query fails.
func (h *Handler) landing(c *gin.Context) {
	cards := []PostCard{}
	posts, err := h.posts.Latest(c.Request.Context(), latestPostCount)
	if err != nil {
		h.logger.Warn("load latest posts", zap.Error(err))
	}
	for _, p := range posts {
		cards = append(cards, PostCard{
			Title:       p.Title,
			Slug:        p.Slug,
			Excerpt:     p.Excerpt,
			CoverImage:  p.CoverImage,
			PublishedAt: p.PublishedAt,
		})
	}
	response.OK(c, Landing{
		Headline:    headline,
		Subheadline: subheadline,
		Stats:       stats,
		LatestPosts: cards,
	})
}
