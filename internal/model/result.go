package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is one graded answer inside a Result. SelectedOption is nil
// for unanswered questions, which are always recorded with IsCorrect=false.
type AnswerRecord struct {
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedOption *int      `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
}

// Result is the finalized, graded outcome of one exam attempt. Created
// exactly once by the grading engine and immutable thereafter.
type Result struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"userId"`
	ExamID        uuid.UUID      `json:"examId"`
	Answers       []AnswerRecord `json:"answers"`
	Score         int            `json:"score"`
	Percentage    float64        `json:"percentage"`
	TimeSpent     int            `json:"timeSpent"`
	SubmittedAt   time.Time      `json:"submittedAt"`
	AutoSubmitted bool           `json:"autoSubmitted"`
}

// SubmissionStats summarizes a graded submission for the client.
type SubmissionStats struct {
	TotalQuestions int     `json:"totalQuestions"`
	Correct        int     `json:"correct"`
	Wrong          int     `json:"wrong"`
	Unanswered     int     `json:"unanswered"`
	Percentage     float64 `json:"percentage"`
}

// SubmitRequest is the payload that finalizes an exam attempt.
type SubmitRequest struct {
	ExamID        string        `json:"examId" binding:"required,uuid"`
	Answers       []AnswerInput `json:"answers" binding:"dive"`
	TimeSpent     int           `json:"timeSpent" binding:"min=0"`
	AutoSubmitted bool          `json:"autoSubmitted"`
}

// ResultWithStudent is one row of the admin results table: a graded result
// joined with the student's identity.
type ResultWithStudent struct {
	ResultID      uuid.UUID `json:"resultId"`
	UserID        uuid.UUID `json:"userId"`
	StudentName   string    `json:"studentName"`
	StudentEmail  string    `json:"studentEmail"`
	Score         int       `json:"score"`
	Percentage    float64   `json:"percentage"`
	TimeSpent     int       `json:"timeSpent"`
	SubmittedAt   time.Time `json:"submittedAt"`
	AutoSubmitted bool      `json:"autoSubmitted"`
}

// ExamStats is the cached aggregate view of all results for one exam.
type ExamStats struct {
	ExamID       uuid.UUID `json:"exam_id"`
	Participants int       `json:"participants"`
	AverageScore float64   `json:"average_score"`
	HighestScore float64   `json:"highest_score"`
	LowestScore  float64   `json:"lowest_score"`
	PassRate     float64   `json:"pass_rate"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}
