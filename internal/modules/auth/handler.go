package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leadforge/site/internal/middleware"
	"github.com/leadforge/site/internal/models"
	"github.com/leadforge/site/internal/pkg/response"
	"github.com/leadforge/site/internal/pkg/session"
)

type loginResponse struct {
	Token string            `json:"token"`
	User  *models.UserModel `json:"user"`
}

type Handler struct {
	svc          *Service
	secureCookie bool
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie}
}

// RegisterRoutes mounts login for everyone, session routes behind authMW and
// user management behind adminMW.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW []gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", h.login)

	authed := a.Group("", authMW...)
	authed.POST("/logout", h.logout)
	authed.GET("/me", h.me)

	users := rg.Group("/admin/users", adminMW...)
	users.GET("", h.listUsers)
	users.POST("", h.createUser)
	users.PATCH("/:id/role", h.setRole)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(c.Request.Context(), &dto, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(session.DefaultTTL.Seconds()), "/", "", h.secureCookie, true)
	response.OK(c, loginResponse{Token: token, User: u})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	response.NoContent(c)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, u)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *Handler) createUser(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, u)
}

type roleBody struct {
	Role models.Role `json:"role" binding:"required"`
}

func (h *Handler) setRole(c *gin.Context) {
	var body roleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetRole(c.Request.Context(), c.Param("id"), body.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrLastAdmin):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, u)
}
