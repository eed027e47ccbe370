package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/metrics"
	"github.com/leadforge/site/internal/pkg/pagination"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("status must be new, read or archived")

// SubmitDTO is the public contact form. Website is a honeypot that humans
// never see.
type SubmitDTO struct {
	Name          string `json:"name"          binding:"required,max=120"`
	Email         string `json:"email"         binding:"required,email,max=254"`
	Company       string `json:"company"       binding:"max=160"`
	JobTitle      string `json:"jobTitle"      binding:"max=120"`
	CompanySize   string `json:"companySize"`
	MonthlyVolume string `json:"monthlyVolume"`
	Timeline      string `json:"timeline"`
	Message       string `json:"message"       binding:"max=5000"`
	Source        string `json:"source"        binding:"max=64"`
	Website       string `json:"website"`
}

type ListQuery struct {
	Status string `form:"status"`
	Tier   string `form:"tier"`
}

type Service struct {
	db    *gorm.DB
	strip *bluemonday.Policy

	notifier Notifier
	minTier  string
	logger   *zap.Logger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, strip: bluemonday.StrictPolicy()}
}

func (s *Service) clean(v string) string {
	return strings.TrimSpace(s.strip.Sanitize(v))
}

// Submit scores and stores a lead. Honeypot hits are dropped without error
// and return nil.
func (s *Service) Submit(ctx context.Context, dto *SubmitDTO, ip string) (*models.ContactSubmissionModel, error) {
	if strings.TrimSpace(dto.Website) != "" {
		metrics.ContactSubmissionsTotal.WithLabelValues("spam").Inc()
		return nil, nil
	}
	score := Score(dto.CompanySize, dto.MonthlyVolume, dto.Timeline, dto.JobTitle)
	sub := models.ContactSubmissionModel{
		Name:          s.clean(dto.Name),
		Email:         strings.ToLower(strings.TrimSpace(dto.Email)),
		Company:       s.clean(dto.Company),
		JobTitle:      s.clean(dto.JobTitle),
		CompanySize:   s.clean(dto.CompanySize),
		MonthlyVolume: s.clean(dto.MonthlyVolume),
		Timeline:      s.clean(dto.Timeline),
		Message:       s.clean(dto.Message),
		Source:        s.clean(dto.Source),
		LeadScore:     score,
		LeadTier:      Tier(score),
		Status:        models.ContactNew,
		IP:            ip,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, err
	}
	metrics.ContactSubmissionsTotal.WithLabelValues(sub.LeadTier).Inc()
	s.notify(ctx, &sub)
	return &sub, nil
}

// List returns the inbox, highest score first within each day.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.ContactSubmissionModel, response.Pagination, error) {
	db := s.db.WithContext(ctx).Model(&models.ContactSubmissionModel{})
	if lq.Status != "" {
		db = db.Where("status = ?", lq.Status)
	}
	if lq.Tier != "" {
		db = db.Where("lead_tier = ?", lq.Tier)
	}
	db = db.Order("DATE(created_at) DESC").Order("lead_score DESC").Order("created_at DESC")

	var subs []models.ContactSubmissionModel
	pag, err := pagination.Paginate(db, q, &subs)
	return subs, pag, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.ContactSubmissionModel, error) {
	var sub models.ContactSubmissionModel
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status models.ContactStatus) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	res := s.db.WithContext(ctx).Model(&models.ContactSubmissionModel{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected > 0, res.Error
}

// CountNew is shown as the inbox badge.
func (s *Service) CountNew(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ContactSubmissionModel{}).Where("status = ?", models.ContactNew).Count(&n).Error
	return n, err
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.ContactSubmissionModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
