package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/leadforge/site/internal/config"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidRole        = errors.New("role must be admin, editor or viewer")
	ErrLastAdmin          = errors.New("cannot demote the last admin")
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserDTO struct {
	Username string      `json:"username" binding:"required,min=3,max=64"`
	Password string      `json:"password" binding:"required,min=8"`
	Name     string      `json:"name"`
	Email    string      `json:"email"    binding:"omitempty,email"`
	Role     models.Role `json:"role"`
}

func validRole(r models.Role) bool {
	return r == models.RoleAdmin || r == models.RoleEditor || r == models.RoleViewer
}

type Service struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ttl: session.DefaultTTL, now: time.Now}
}

// Login checks the password and opens a session. The same error is returned
// for unknown users and wrong passwords.
func (s *Service) Login(ctx context.Context, dto *LoginDTO, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(dto.Username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := session.Issue(s.db.WithContext(ctx), u.ID, ip, ua, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	now := s.now()
	_ = s.db.WithContext(ctx).Model(&u).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": ip,
	}).Error
	return token, &u, nil
}

func (s *Service) Logout(ctx context.Context, userID, sessionID string) error {
	err := session.Revoke(s.db.WithContext(ctx), userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.UserModel, error) {
	var users []models.UserModel
	return users, s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
}

func (s *Service) CreateUser(ctx context.Context, dto *CreateUserDTO) (*models.UserModel, error) {
	role := dto.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{
		Username: strings.TrimSpace(dto.Username),
		Name:     name,
		Email:    strings.TrimSpace(dto.Email),
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		var me *mysqldriver.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &u, nil
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *Service) SetRole(ctx context.Context, id string, role models.Role) (*models.UserModel, error) {
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	var updated *models.UserModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.UserModel
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		if u.Role == models.RoleAdmin && role != models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.UserModel{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		if err := tx.Model(&u).Update("role", role).Error; err != nil {
			return err
		}
		updated = &u
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return updated, err
}

// EnsureAdmin creates the configured admin account when no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminBootstrapConfig, logger *zap.Logger) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	var admins int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}
	u, err := s.CreateUser(ctx, &CreateUserDTO{
		Username: cfg.Username,
		Password: cfg.Password,
		Email:    cfg.Email,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	logger.Info("bootstrapped admin user", zap.String("username", u.Username))
	return nil
}
