package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
	"github.com/Osuolale-Olalekan/CBT-app/internal/validator"
)

// SessionHandler serves the student exam session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Start handles POST /sessions/:exam_id. It creates the session on first
// call and restores it unchanged on every call after.
func (h *SessionHandler) Start(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	session, err := h.sessions.StartOrRestore(c.Request.Context(), examID,
		middleware.UserIDFromContext(c), middleware.DepartmentFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// Get handles GET /sessions/:exam_id.
func (h *SessionHandler) Get(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), examID, middleware.UserIDFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// Autosave handles POST /sessions/:exam_id/autosave. The payload replaces
// the whole answer map.
func (h *SessionHandler) Autosave(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.AutosaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	if err := h.sessions.Autosave(c.Request.Context(), examID, middleware.UserIDFromContext(c), &req); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}
