package category

import (
	"context"
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/slug"
	"gorm.io/gorm"
)

var (
	ErrDuplicate = errors.New("name or slug already exists")
	ErrEmptySlug = errors.New("slug must contain letters or digits")
)

type CreateCategoryDTO struct {
	Name        string `json:"name"        binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// Summary is a category with its published post count.
type Summary struct {
	models.CategoryModel
	PostCount int64 `json:"postCount"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func isDuplicate(err error) bool {
	var me *mysqldriver.MySQLError
	return (errors.As(err, &me) && me.Number == 1062) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	var cats []models.CategoryModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID string
		N          int64
	}
	var rows []countRow
	err := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Select("category_id, COUNT(*) AS n").
		Where("status = ? AND category_id IS NOT NULL", models.PostPublished).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}

	out := make([]Summary, len(cats))
	for i, c := range cats {
		out[i] = Summary{CategoryModel: c, PostCount: counts[c.ID]}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// GetByQuery looks a category up by id, then by slug or name.
func (s *Service) GetByQuery(ctx context.Context, query string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	err := s.db.WithContext(ctx).Where("id = ? OR slug = ? OR name = ?", query, query, query).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	catSlug := slug.Make(dto.Slug)
	if catSlug == "" {
		catSlug = slug.Make(dto.Name)
	}
	if catSlug == "" {
		return nil, ErrEmptySlug
	}
	cat := models.CategoryModel{
		Name:        strings.TrimSpace(dto.Name),
		Slug:        catSlug,
		Description: strings.TrimSpace(dto.Description),
	}
	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(ctx, id)
	if err != nil || cat == nil {
		return cat, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Slug != nil {
		next := slug.Make(*dto.Slug)
		if next == "" {
			return nil, ErrEmptySlug
		}
		updates["slug"] = next
	}
	if dto.Description != nil {
		updates["description"] = strings.TrimSpace(*dto.Description)
	}
	if len(updates) == 0 {
		return cat, nil
	}
	if err := s.db.WithContext(ctx).Model(cat).Updates(updates).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return cat, nil
}

// Delete removes a category and leaves its posts uncategorized.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.CategoryModel{}, "id = ?", id)
		found = res.RowsAffected > 0
		return res.Error
	})
	return found, err
}
