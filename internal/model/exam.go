package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam is a timed test composed from the question bank, scoped to one
// department. TotalQuestions is denormalized from the question list so
// grading divides by the exam's own size even if questions are later removed.
type Exam struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	DurationMinutes int         `json:"duration"`
	Department      Department  `json:"department"`
	QuestionIDs     []uuid.UUID `json:"questions"`
	TotalQuestions  int         `json:"total_questions"`
	PassingScore    float64     `json:"passing_score"`
	IsActive        bool        `json:"is_active"`
	CreatedBy       uuid.UUID   `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ExamPaper is the student-facing view of an exam: questions without their
// correct options. Cached in Redis when the exam is activated.
type ExamPaper struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration"`
	TotalQuestions  int                  `json:"total_questions"`
	Questions       []QuestionForStudent `json:"questions"`
}

// CreateExamRequest is the admin payload for composing a new exam.
type CreateExamRequest struct {
	Title        string   `json:"title" binding:"required,min=3,max=255"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	Duration     int      `json:"duration" binding:"required,min=10,max=480"`
	Department   string   `json:"department" binding:"required,oneof=Science Art Commercial"`
	QuestionIDs  []string `json:"questions" binding:"required,min=1,dive,uuid"`
	PassingScore *float64 `json:"passingScore" binding:"omitempty,min=0,max=100"`
	IsActive     *bool    `json:"isActive" binding:"omitempty"`
}

// UpdateExamRequest is the admin payload for editing an exam.
type UpdateExamRequest struct {
	Title        string   `json:"title" binding:"omitempty,min=3,max=255"`
	Description  *string  `json:"description" binding:"omitempty,max=2000"`
	Duration     int      `json:"duration" binding:"omitempty,min=10,max=480"`
	Department   string   `json:"department" binding:"omitempty,oneof=Science Art Commercial"`
	QuestionIDs  []string `json:"questions" binding:"omitempty,min=1,dive,uuid"`
	PassingScore *float64 `json:"passingScore" binding:"omitempty,min=0,max=100"`
	IsActive     *bool    `json:"isActive" binding:"omitempty"`
}
