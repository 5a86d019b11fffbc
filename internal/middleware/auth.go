package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// Gin context keys populated by RequireAuth.
const (
	ContextKeyUserID     = "auth_user_id"
	ContextKeyRole       = "auth_role"
	ContextKeyDepartment = "auth_department"
)

// AuthMiddleware validates the JWT carried in the auth cookie and scopes
// routes by role. A bearer header or token query parameter is accepted as a
// fallback so non-browser clients and WebSocket upgrades can authenticate.
type AuthMiddleware struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(auth *service.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, cookieName: cookieName}
}

// RequireAuth validates the token and stores the caller's identity on the
// context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := m.auth.ParseToken(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyRole, claims.Role)
		if claims.Department != nil {
			c.Set(ContextKeyDepartment, *claims.Department)
		}
		c.Next()
	}
}

// RequireStudent rejects callers that are not students. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFromContext(c) != model.RoleStudent {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers that are not admins. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFromContext(c) != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// extractToken checks the auth cookie first, then the Authorization header,
// then the token query parameter.
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// UserIDFromContext returns the authenticated user's ID.
func UserIDFromContext(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// RoleFromContext returns the authenticated user's role.
func RoleFromContext(c *gin.Context) model.Role {
	v, ok := c.Get(ContextKeyRole)
	if !ok {
		return ""
	}
	role, _ := v.(model.Role)
	return role
}

// DepartmentFromContext returns the authenticated student's department.
func DepartmentFromContext(c *gin.Context) model.Department {
	v, ok := c.Get(ContextKeyDepartment)
	if !ok {
		return ""
	}
	dept, _ := v.(model.Department)
	return dept
}
