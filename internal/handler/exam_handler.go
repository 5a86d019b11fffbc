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

// ExamHandler serves student exam discovery and admin exam management.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// ListForStudent handles GET /exams: the active exams in the student's
// department.
func (h *ExamHandler) ListForStudent(c *gin.Context) {
	exams, err := h.exams.ListForStudent(c.Request.Context(), middleware.DepartmentFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}

	// Strip composition details from the student view.
	view := make([]gin.H, 0, len(exams))
	for _, e := range exams {
		view = append(view, gin.H{
			"id":              e.ID,
			"title":           e.Title,
			"description":     e.Description,
			"duration":        e.DurationMinutes,
			"total_questions": e.TotalQuestions,
		})
	}
	response.Success(c, http.StatusOK, view)
}

// GetPaper handles GET /exams/:exam_id/paper: the ordered questions with
// correct options stripped.
func (h *ExamHandler) GetPaper(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	paper, err := h.exams.GetPaper(c.Request.Context(), examID, middleware.DepartmentFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, paper)
}

// Create handles POST /admin/exams.
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.Create(c.Request.Context(), &req, middleware.UserIDFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, exam)
}

// Get handles GET /admin/exams/:exam_id.
func (h *ExamHandler) Get(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	exam, err := h.exams.Get(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// List handles GET /admin/exams.
func (h *ExamHandler) List(c *gin.Context) {
	page, perPage, limit, offset := parsePagination(c)

	exams, total, err := h.exams.List(c.Request.Context(), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, exams, response.NewPagination(page, perPage, total))
}

// Update handles PUT /admin/exams/:exam_id.
func (h *ExamHandler) Update(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.Update(c.Request.Context(), examID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, exam)
}

// activateRequest toggles an exam's active flag.
type activateRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive handles PATCH /admin/exams/:exam_id/activate.
func (h *ExamHandler) SetActive(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req activateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	if err := h.exams.SetActive(c.Request.Context(), examID, *req.IsActive); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"isActive": *req.IsActive})
}

// Delete handles DELETE /admin/exams/:exam_id.
func (h *ExamHandler) Delete(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	if err := h.exams.Delete(c.Request.Context(), examID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
