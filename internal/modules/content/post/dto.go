package post

import (
	"time"

	"github.com/leadforge/site/internal/models"
)

// CreatePostDTO is the request body for creating a post.
type CreatePostDTO struct {
	Title      string            `json:"title"      binding:"required"`
	Slug       string            `json:"slug"`
	Content    string            `json:"content"`
	Excerpt    string            `json:"excerpt"`
	CategoryID *string           `json:"categoryId"`
	Tags       []string          `json:"tags"`
	CoverImage string            `json:"coverImage"`
	Status     models.PostStatus `json:"status"`
}

// UpdatePostDTO is the request body for updating a post (all fields optional).
type UpdatePostDTO struct {
	Title      *string  `json:"title"`
	Slug       *string  `json:"slug"`
	Content    *string  `json:"content"`
	Excerpt    *string  `json:"excerpt"`
	CategoryID *string  `json:"categoryId"`
	Tags       []string `json:"tags"`
	CoverImage *string  `json:"coverImage"`
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Status   string `form:"status"`
	AI       *bool  `form:"ai"`
}

type importDTO struct {
	Markdown   string  `json:"markdown"   binding:"required"`
	CategoryID *string `json:"categoryId"`
}

// postResponse is the API response shape for a post.
type postResponse struct {
	ID                string                     `json:"id"`
	Slug              string                     `json:"slug"`
	Title             string                     `json:"title"`
	Content           string                     `json:"content,omitempty"`
	Excerpt           string                     `json:"excerpt"`
	Status            models.PostStatus          `json:"status"`
	CategoryID        *string                    `json:"categoryId"`
	Category          *models.CategoryModel      `json:"category,omitempty"`
	AuthorID          string                     `json:"authorId"`
	Tags              []string                   `json:"tags"`
	CoverImage        string                     `json:"coverImage,omitempty"`
	IsAIGenerated     bool                       `json:"isAiGenerated"`
	GeneratedMetadata *models.GenerationMetadata `json:"generatedMetadata,omitempty"`
	PublishedAt       *time.Time                 `json:"publishedAt"`
	Created           time.Time                  `json:"created"`
	Modified          *time.Time                 `json:"modified"`
}

func toResponse(p *models.PostModel, withContent bool) postResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	var modified *time.Time
	if !p.UpdatedAt.IsZero() {
		modifiedAt := p.UpdatedAt
		modified = &modifiedAt
	}
	resp := postResponse{
		ID:                p.ID,
		Slug:              p.Slug,
		Title:             p.Title,
		Excerpt:           p.Excerpt,
		Status:            p.Status,
		CategoryID:        p.CategoryID,
		Category:          p.Category,
		AuthorID:          p.AuthorID,
		Tags:              tags,
		CoverImage:        p.CoverImage,
		IsAIGenerated:     p.IsAIGenerated,
		GeneratedMetadata: p.GeneratedMetadata,
		PublishedAt:       p.PublishedAt,
		Created:           p.CreatedAt,
		Modified:          modified,
	}
	if withContent {
		resp.Content = p.Content
	}
	return resp
}
