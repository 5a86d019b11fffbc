package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
	"github.com/Osuolale-Olalekan/CBT-app/internal/validator"
)

// UserHandler serves admin account management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /admin/users with optional role filter and search.
func (h *UserHandler) List(c *gin.Context) {
	page, perPage, limit, offset := parsePagination(c)

	users, total, err := h.users.List(c.Request.Context(), c.Query("role"), c.Query("search"), limit, offset)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, users, response.NewPagination(page, perPage, total))
}

// Get handles GET /admin/users/:user_id.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Update handles PUT /admin/users/:user_id.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Delete handles DELETE /admin/users/:user_id.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
