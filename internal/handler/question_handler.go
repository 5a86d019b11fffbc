package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
	"github.com/Osuolale-Olalekan/CBT-app/internal/validator"
)

// QuestionHandler serves admin question bank management.
type QuestionHandler struct {
	questions *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Create handles POST /admin/questions.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	q, err := h.questions.Create(c.Request.Context(), &req, middleware.UserIDFromContext(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

// Get handles GET /admin/questions/:question_id.
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}

	q, err := h.questions.Get(c.Request.Context(), questionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// List handles GET /admin/questions with department, subject, difficulty and
// search filters.
func (h *QuestionHandler) List(c *gin.Context) {
	page, perPage, limit, offset := parsePagination(c)
	filter := model.QuestionFilter{
		Department: c.Query("department"),
		Subject:    c.Query("subject"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
	}

	questions, total, err := h.questions.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, questions, response.NewPagination(page, perPage, total))
}

// Update handles PUT /admin/questions/:question_id.
func (h *QuestionHandler) Update(c *gin.Context) {
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	q, err := h.questions.Update(c.Request.Context(), questionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// Delete handles DELETE /admin/questions/:question_id.
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), questionID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Import handles POST /admin/questions/import. The multipart "file" upload
// is parsed by extension; every row is reported as imported or failed.
func (h *QuestionHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	report, err := h.questions.Import(c.Request.Context(), format, file, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImportFormat) {
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
			return
		}
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}
