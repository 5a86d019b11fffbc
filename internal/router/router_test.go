package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/handler"
	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// newTestRouter mounts the full route table over nil services. Routing and
// middleware decisions happen before any handler body runs, so unauthenticated
// requests never touch the nil services.
func newTestRouter() *gin.Engine {
	cfg := &config.Config{GinMode: gin.TestMode, CookieName: "token"}
	h := &Handlers{
		Auth:       handler.NewAuthHandler(nil, cfg),
		Session:    handler.NewSessionHandler(nil),
		Submission: handler.NewSubmissionHandler(nil),
		Result:     handler.NewResultHandler(nil),
		Exam:       handler.NewExamHandler(nil),
		Question:   handler.NewQuestionHandler(nil),
		Report:     handler.NewReportHandler(nil),
		User:       handler.NewUserHandler(nil),
		Monitor:    handler.NewMonitorHandler(nil, nil, nil, zerolog.Nop()),
	}
	auth := middleware.NewAuthMiddleware(
		service.NewAuthService(nil, "router-test-secret", time.Hour, 4, zerolog.Nop()),
		cfg.CookieName)
	return Setup(cfg, h, auth)
}

func TestAutosaveRouteIsPost(t *testing.T) {
	r := newTestRouter()
	path := "/api/v1/sessions/" + uuid.NewString() + "/autosave"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("POST autosave: expected 401 from auth middleware, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, path, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("PUT autosave: expected 404, got %d", w.Code)
	}
}

func TestStudentRoutesRequireAuth(t *testing.T) {
	r := newTestRouter()
	examID := uuid.NewString()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/exams"},
		{http.MethodGet, "/api/v1/exams/" + examID + "/paper"},
		{http.MethodPost, "/api/v1/sessions/" + examID},
		{http.MethodGet, "/api/v1/sessions/" + examID},
		{http.MethodPost, "/api/v1/sessions/" + examID + "/autosave"},
		{http.MethodPost, "/api/v1/submissions"},
		{http.MethodGet, "/api/v1/results"},
	}
	for _, req := range requests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(req.method, req.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", req.method, req.path, w.Code)
		}
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
