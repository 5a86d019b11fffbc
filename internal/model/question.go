package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty tags a question for exam composition.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Question is a single multiple-choice item with exactly four options.
// CorrectOption is the zero-based index into Options.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"correct_option"`
	Department    Department `json:"department"`
	Subject       string     `json:"subject"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuestionForStudent is a question stripped of its correct option, safe to
// send to an exam taker.
type QuestionForStudent struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

// CreateQuestionRequest is the payload for adding a question to the bank.
type CreateQuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=500"`
	CorrectOption *int     `json:"correctOption" binding:"required,min=0,max=3"`
	Department    string   `json:"department" binding:"required,oneof=Science Art Commercial General"`
	Subject       string   `json:"subject" binding:"required,min=1,max=100"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
}

// UpdateQuestionRequest is the payload for editing an existing question.
type UpdateQuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=500"`
	CorrectOption *int     `json:"correctOption" binding:"required,min=0,max=3"`
	Department    string   `json:"department" binding:"required,oneof=Science Art Commercial General"`
	Subject       string   `json:"subject" binding:"required,min=1,max=100"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
}

// QuestionFilter narrows admin question listings.
type QuestionFilter struct {
	Department string
	Subject    string
	Difficulty string
	Search     string
}
