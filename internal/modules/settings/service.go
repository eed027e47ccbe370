package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/leadforge/site/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service reads and writes the content-settings row. The decoded value is
// cached until the next Update or Invalidate.
type Service struct {
	db     *gorm.DB
	mu     sync.RWMutex
	cached *ContentSettings
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns a copy of the current settings. A missing row yields Defaults.
func (s *Service) Get(ctx context.Context) (ContentSettings, error) {
	s.mu.RLock()
	if s.cached != nil {
		out := clone(*s.cached)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.loadLocked(ctx)
	if err != nil {
		return ContentSettings{}, err
	}
	return clone(cur), nil
}

// loadLocked returns the cached settings, reading the row on a miss. s.mu must
// be held for writing.
func (s *Service) loadLocked(ctx context.Context) (ContentSettings, error) {
	if s.cached != nil {
		return *s.cached, nil
	}

	cur := Defaults()
	var opt models.OptionModel
	err := s.db.WithContext(ctx).Where("name = ?", OptionKey).First(&opt).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return ContentSettings{}, err
	default:
		if err := json.Unmarshal([]byte(opt.Value), &cur); err != nil {
			return ContentSettings{}, fmt.Errorf("decode %s: %w", OptionKey, err)
		}
		if cur.Validate() != nil {
			cur = fillInvalid(cur)
		}
	}
	s.cached = &cur
	return cur, nil
}

// Update applies patch, validates and persists the result. The lock is held
// from read to write so concurrent patches apply one after the other.
func (s *Service) Update(ctx context.Context, patch Patch) (ContentSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loadLocked(ctx)
	if err != nil {
		return ContentSettings{}, err
	}
	next := patch.apply(clone(cur))
	if err := next.Validate(); err != nil {
		return ContentSettings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return ContentSettings{}, err
	}
	opt := models.OptionModel{Name: OptionKey, Value: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
	if err != nil {
		return ContentSettings{}, err
	}

	s.cached = &next
	return clone(next), nil
}

// Invalidate drops the cache so the next Get reloads from the database.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

var ErrInvalidSettings = errors.New("invalid content settings")

// fillInvalid replaces unknown enum values from a hand-edited row with defaults.
func fillInvalid(s ContentSettings) ContentSettings {
	d := Defaults()
	if !s.DefaultTone.Valid() {
		s.DefaultTone = d.DefaultTone
	}
	if !s.DefaultWritingStyle.Valid() {
		s.DefaultWritingStyle = d.DefaultWritingStyle
	}
	if !s.DefaultComplexity.Valid() {
		s.DefaultComplexity = d.DefaultComplexity
	}
	if !s.DefaultArticleSize.Valid() {
		s.DefaultArticleSize = d.DefaultArticleSize
	}
	return s
}

func clone(s ContentSettings) ContentSettings {
	s.DefaultCountries = append([]string{}, s.DefaultCountries...)
	return s
}
