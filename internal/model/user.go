package model

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes student and admin accounts.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Department is the academic track a student (or question) belongs to.
type Department string

const (
	DepartmentScience    Department = "Science"
	DepartmentArt        Department = "Art"
	DepartmentCommercial Department = "Commercial"
	// DepartmentGeneral is valid for questions only, never for users.
	DepartmentGeneral Department = "General"
)

// User represents a registered account. Department is set for students and
// empty for admins.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	Department   *Department `json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
	Department string `json:"department" binding:"required,oneof=Science Art Commercial"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// UpdateUserRequest is the admin payload for editing an account.
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Role       string `json:"role" binding:"required,oneof=student admin"`
	Department string `json:"department" binding:"omitempty,oneof=Science Art Commercial"`
	Password   string `json:"password" binding:"omitempty,min=6,max=128"`
}
