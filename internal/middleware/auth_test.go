package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(nil, "test-secret", time.Hour, 4, zerolog.Nop())
	mw := NewAuthMiddleware(auth, "token")

	r := gin.New()
	authed := r.Group("", mw.RequireAuth())
	authed.GET("/any", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserIDFromContext(c)})
	})
	authed.GET("/student", mw.RequireStudent(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	authed.GET("/admin", mw.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, auth
}

func issueToken(t *testing.T, auth *service.AuthService, role model.Role) string {
	t.Helper()
	dept := model.DepartmentScience
	user := &model.User{ID: uuid.New(), Role: role}
	if role == model.RoleStudent {
		user.Department = &dept
	}
	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	r, auth := newTestRouter(t)
	token := issueToken(t, auth, model.RoleStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthAcceptsBearerAndQueryFallbacks(t *testing.T) {
	r, auth := newTestRouter(t)
	token := issueToken(t, auth, model.RoleStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bearer fallback: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/any?token="+token, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("query fallback: expected 200, got %d", w.Code)
	}
}

func TestRoleGates(t *testing.T) {
	r, auth := newTestRouter(t)
	studentToken := issueToken(t, auth, model.RoleStudent)
	adminToken := issueToken(t, auth, model.RoleAdmin)

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"student on student route", "/student", studentToken, http.StatusOK},
		{"student on admin route", "/admin", studentToken, http.StatusForbidden},
		{"admin on admin route", "/admin", adminToken, http.StatusOK},
		{"admin on student route", "/student", adminToken, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.AddCookie(&http.Cookie{Name: "token", Value: tc.token})
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
