package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/modules/processing/richtext"
	"github.com/leadforge/site/internal/pkg/pagination"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/leadforge/site/internal/pkg/slug"
	"gorm.io/gorm"
)

const excerptLength = 180

var (
	ErrSlugTaken        = errors.New("slug already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidStatus    = errors.New("status must be draft or published")
	ErrEmptySlug        = errors.New("slug must contain letters or digits")
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// isDuplicate reports a MySQL unique-key violation.
func isDuplicate(err error) bool {
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery, publishedOnly bool) ([]models.PostModel, response.Pagination, error) {
	db := s.db.WithContext(ctx).Model(&models.PostModel{})
	if publishedOnly {
		db = db.Where("status = ?", models.PostPublished)
	} else if lq.Status != "" {
		db = db.Where("status = ?", lq.Status)
	}
	if lq.Category != "" {
		db = db.Where("category_id IN (?)", s.db.Model(&models.CategoryModel{}).Select("id").Where("slug = ? OR id = ?", lq.Category, lq.Category))
	}
	if lq.Tag != "" {
		db = db.Where("tags LIKE ?", "%\""+lq.Tag+"\"%")
	}
	if lq.AI != nil {
		db = db.Where("is_ai_generated = ?", *lq.AI)
	}
	if publishedOnly {
		db = db.Order("published_at DESC")
	} else {
		db = db.Order("created_at DESC")
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(db, q, &posts)
	return posts, pag, err
}

// Latest returns the newest n published posts.
func (s *Service) Latest(ctx context.Context, n int) ([]models.PostModel, error) {
	var posts []models.PostModel
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PostPublished).
		Order("published_at DESC").
		Limit(n).
		Find(&posts).Error
	return posts, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.PostModel, error) {
	var p models.PostModel
	if err := s.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetPublishedBySlug returns nil for drafts and unknown slugs.
func (s *Service) GetPublishedBySlug(ctx context.Context, postSlug string) (*models.PostModel, error) {
	var p models.PostModel
	err := s.db.WithContext(ctx).Preload("Category").
		Where("slug = ? AND status = ?", postSlug, models.PostPublished).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) checkCategory(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CategoryModel{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID string, dto *CreatePostDTO) (*models.PostModel, error) {
	status := dto.Status
	if status == "" {
		status = models.PostDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	postSlug := slug.Make(dto.Slug)
	if postSlug == "" {
		postSlug = slug.Make(dto.Title)
	}
	if postSlug == "" {
		postSlug = slug.WithSuffix(dto.Title)
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	doc := richtext.NewDocument(dto.Content)
	p := models.PostModel{
		Title:      strings.TrimSpace(dto.Title),
		Slug:       postSlug,
		Content:    doc.HTML(),
		Excerpt:    excerptFor(dto.Excerpt, doc.HTML()),
		Status:     status,
		CategoryID: emptyToNil(dto.CategoryID),
		AuthorID:   authorID,
		Tags:       models.StringArray(dto.Tags),
		CoverImage: dto.CoverImage,
	}
	if status == models.PostPublished {
		now := s.now()
		p.PublishedAt = &now
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &p, nil
}

// CreateAIDraft stores a generated article. The slug gets a random suffix so
// two runs with the same title never collide. content passes through the same
// sanitizer as editor saves: unsafe markup is dropped and text is re-escaped,
// so quotes come back as &#39; and &#34;. Markup that is already clean and
// quote-free is stored byte for byte.
func (s *Service) CreateAIDraft(ctx context.Context, title, content, authorID string, meta models.GenerationMetadata) (*models.PostModel, error) {
	doc := richtext.NewDocument(content)
	p := models.PostModel{
		Title:             strings.TrimSpace(title),
		Slug:              slug.WithSuffix(title),
		Content:           doc.HTML(),
		Excerpt:           richtext.Excerpt(doc.HTML(), excerptLength),
		Status:            models.PostDraft,
		AuthorID:          authorID,
		Tags:              models.StringArray{},
		IsAIGenerated:     true,
		GeneratedMetadata: &meta,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create ai draft: %w", err)
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil {
		next := slug.Make(*dto.Slug)
		if next == "" {
			return nil, ErrEmptySlug
		}
		updates["slug"] = next
	}
	content := p.Content
	if dto.Content != nil {
		doc := richtext.NewDocument(p.Content)
		doc.OnChange(func(html string) {
			content = html
			updates["content"] = html
		})
		doc.SetHTML(*dto.Content)
	}
	if dto.Excerpt != nil {
		updates["excerpt"] = excerptFor(*dto.Excerpt, content)
	} else if _, changed := updates["content"]; changed && p.Excerpt == richtext.Excerpt(p.Content, excerptLength) {
		updates["excerpt"] = richtext.Excerpt(content, excerptLength)
	}
	if dto.CategoryID != nil {
		if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = emptyToNil(dto.CategoryID)
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(dto.Tags)
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// SetStatus publishes or unpublishes a post. PublishedAt is set on the first
// publish and kept afterwards.
func (s *Service) SetStatus(ctx context.Context, id string, status models.PostStatus) (*models.PostModel, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	p, err := s.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	updates := map[string]interface{}{"status": status}
	if status == models.PostPublished && p.PublishedAt == nil {
		updates["published_at"] = s.now()
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.PostModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// ImportMarkdown creates a draft from a markdown file with optional YAML
// front matter.
func (s *Service) ImportMarkdown(ctx context.Context, authorID string, dto *importDTO) (*models.PostModel, error) {
	fm, body, err := richtext.ParseMarkdownFile(dto.Markdown)
	if err != nil {
		return nil, err
	}
	html, err := richtext.FromMarkdown(body)
	if err != nil {
		return nil, err
	}
	categoryID := dto.CategoryID
	if categoryID == nil && fm.Category != "" {
		var cat models.CategoryModel
		err := s.db.WithContext(ctx).Where("slug = ? OR name = ?", fm.Category, fm.Category).First(&cat).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		categoryID = &cat.ID
	}
	return s.Create(ctx, authorID, &CreatePostDTO{
		Title:      fm.Title,
		Slug:       fm.Slug,
		Content:    html,
		Excerpt:    fm.Excerpt,
		CategoryID: categoryID,
		Tags:       fm.Tags,
	})
}

func excerptFor(explicit, html string) string {
	if e := strings.TrimSpace(explicit); e != "" {
		return e
	}
	return richtext.Excerpt(html, excerptLength)
}

func emptyToNil(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	return id
}
