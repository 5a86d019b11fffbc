package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
	"github.com/Osuolale-Olalekan/CBT-app/internal/validator"
)

// AuthHandler serves registration, login, logout and profile endpoints.
// Tokens ride in an HTTP-only cookie.
type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	h.setAuthCookie(c, token)
	response.Success(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	h.setAuthCookie(c, token)
	response.Success(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout handles POST /auth/logout by expiring the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.JWTExpiry.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, maxAge, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}
