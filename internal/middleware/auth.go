package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/jwt"
	"github.com/leadforge/site/internal/pkg/response"
	sessionpkg "github.com/leadforge/site/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	ContextKeyRole   = "user_role"
	TokenCookie      = "lf_token"
)

// Auth returns a middleware that requires a valid JWT bound to an active session.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateToken(db, extractToken(c)); err == nil {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeySID, claims.SessionID)
		}
		c.Next()
	}
}

// RequireRole must run after Auth. It loads the user's role column and rejects
// the request unless it is one of roles.
func RequireRole(db *gorm.DB, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			response.Unauthorized(c)
			return
		}

		var user models.UserModel
		if err := db.WithContext(c.Request.Context()).Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Unauthorized(c)
				return
			}
			response.InternalError(c, err)
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Set(ContextKeyRole, user.Role)
				c.Next()
				return
			}
		}
		response.Forbidden(c)
	}
}

// ValidateToken parses the token and checks that its session is still active.
func ValidateToken(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie(TokenCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
