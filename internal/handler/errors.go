package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// failFromService maps a service sentinel error onto an HTTP status and API
// error code. Unknown errors become a 500 without leaking detail.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
	case errors.Is(err, service.ErrExamNotActive):
		response.Fail(c, http.StatusConflict, response.ErrExamNotActive)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusBadRequest, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	case errors.Is(err, service.ErrQuestionMissing):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrValidation)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseIDParam parses a UUID path parameter, failing the request on bad input.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page and per_page query parameters with defaults.
func parsePagination(c *gin.Context) (page, perPage, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage, perPage, (page - 1) * perPage
}
