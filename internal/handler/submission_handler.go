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

// SubmissionHandler serves exam finalization.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit handles POST /submissions. Answers in the payload take precedence
// over the autosaved snapshot; omit them to grade the snapshot as-is.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	result, stats, err := h.submissions.Submit(c.Request.Context(), middleware.UserIDFromContext(c), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"resultId": result.ID,
		"result":   result,
		"stats":    stats,
	})
}
