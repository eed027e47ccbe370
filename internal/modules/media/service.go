package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/pagination"
	"github.com/leadforge/site/internal/pkg/response"
	"gorm.io/gorm"
)

const maxUploadSize = 10 << 20

var (
	ErrStorageDisabled = errors.New("media storage is not configured")
	ErrTooLarge        = errors.New("file exceeds the 10 MB limit")
	ErrUnsupportedType = errors.New("only images and PDF files can be uploaded")
)

var allowedTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// Upload describes one incoming file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	db     *gorm.DB
	store  ObjectStore
	prefix string
	now    func() time.Time
}

// NewService returns a media service. A nil store disables uploads.
func NewService(db *gorm.DB, store ObjectStore, prefix string) *Service {
	return &Service{db: db, store: store, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

func (s *Service) Enabled() bool { return s.store != nil }

// objectKey builds prefix/yyyy/mm/<uuid><ext>.
func (s *Service) objectKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	key := fmt.Sprintf("%s/%s%s", s.now().UTC().Format("2006/01"), uuid.NewString(), ext)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

func (s *Service) Upload(ctx context.Context, uploaderID string, up Upload) (*models.MediaModel, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if up.Size > maxUploadSize {
		return nil, ErrTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(up.ContentType, ";")[0]))
	if !allowedTypes[contentType] {
		return nil, ErrUnsupportedType
	}

	key := s.objectKey(up.FileName)
	url, err := s.store.Put(ctx, key, up.Body, up.Size, contentType)
	if err != nil {
		return nil, err
	}
	m := models.MediaModel{
		Key:         key,
		URL:         url,
		FileName:    path.Base(strings.ReplaceAll(up.FileName, "\\", "/")),
		ContentType: contentType,
		Size:        up.Size,
		UploaderID:  uploaderID,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		_ = s.store.Remove(ctx, key)
		return nil, err
	}
	return &m, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query) ([]models.MediaModel, response.Pagination, error) {
	var items []models.MediaModel
	db := s.db.WithContext(ctx).Model(&models.MediaModel{}).Order("created_at DESC")
	pag, err := pagination.Paginate(db, q, &items)
	return items, pag, err
}

// Delete removes the record and then the object. A failed object removal is
// returned but the record stays deleted.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	var m models.MediaModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return false, err
	}
	if s.store != nil {
		if err := s.store.Remove(ctx, m.Key); err != nil {
			return true, err
		}
	}
	return true, nil
}
