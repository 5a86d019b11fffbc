package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// ResultHandler serves graded result read access.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Get handles GET /results/:result_id. Students can only read their own
// results; admins can read any.
func (h *ResultHandler) Get(c *gin.Context) {
	resultID, ok := parseIDParam(c, "result_id")
	if !ok {
		return
	}

	result, err := h.results.Get(c.Request.Context(), resultID,
		middleware.UserIDFromContext(c), middleware.RoleFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListMine handles GET /results for the authenticated student.
func (h *ResultHandler) ListMine(c *gin.Context) {
	results, err := h.results.ListMine(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// ListByExam handles GET /admin/exams/:exam_id/results.
func (h *ResultHandler) ListByExam(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	results, err := h.results.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}
