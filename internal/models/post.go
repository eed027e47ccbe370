package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// PostModel is a blog post. Content is stored as HTML.
type PostModel struct {
	Base
	Title             string              `json:"title"              gorm:"not null"`
	Slug              string              `json:"slug"               gorm:"uniqueIndex;not null"`
	Content           string              `json:"content"            gorm:"type:longtext"`
	Excerpt           string              `json:"excerpt"            gorm:"type:text"`
	Status            PostStatus          `json:"status"             gorm:"type:varchar(16);index;not null;default:'draft'"`
	CategoryID        *string             `json:"category_id"        gorm:"index"`
	Category          *CategoryModel      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorID          string              `json:"author_id"          gorm:"type:char(36);index"`
	Tags              StringArray         `json:"tags"               gorm:"type:longtext"`
	CoverImage        string              `json:"cover_image"`
	IsAIGenerated     bool                `json:"is_ai_generated"    gorm:"column:is_ai_generated;default:false"`
	GeneratedMetadata *GenerationMetadata `json:"generated_metadata,omitempty" gorm:"type:longtext;serializer:json"`
	PublishedAt       *time.Time          `json:"published_at"       gorm:"index"`
}

func (PostModel) TableName() string { return "posts" }

// GenerationMetadata snapshots the parameters an AI draft was generated from.
type GenerationMetadata struct {
	Topic              string    `json:"topic"`
	PrimaryKeyword     string    `json:"primaryKeyword"`
	SecondaryKeywords  string    `json:"secondaryKeywords"`
	Tone               string    `json:"tone"`
	WritingStyle       string    `json:"writingStyle"`
	ContentComplexity  string    `json:"contentComplexity"`
	ArticleSize        string    `json:"articleSize"`
	TargetAudience     string    `json:"targetAudience,omitempty"`
	TargetCountries    []string  `json:"targetCountries,omitempty"`
	RequiresResearch   bool      `json:"requiresResearch"`
	CustomInstructions string    `json:"customInstructions,omitempty"`
	Outline            string    `json:"outline"`
	GeneratedAt        time.Time `json:"generatedAt"`
}
