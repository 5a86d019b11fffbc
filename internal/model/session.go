package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerMap holds a session's in-progress answers keyed by question ID.
// A nil value records an explicit "no selection" from the client; grading
// treats it the same as a missing entry. Stored as a single jsonb document
// so replacement is atomic at the row level.
type AnswerMap map[string]*int

// ExamSession is a student's in-progress attempt at one exam. At most one
// session exists per (student, exam) pair; the only legal transitions are
// answer-map replacement while open and the one-way flip of IsSubmitted.
type ExamSession struct {
	ID          uuid.UUID `json:"id"`
	ExamID      uuid.UUID `json:"exam_id"`
	StudentID   uuid.UUID `json:"student_id"`
	StartTime   time.Time `json:"startTime"`
	Answers     AnswerMap `json:"answers"`
	IsSubmitted bool      `json:"isSubmitted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnswerInput is one entry of an autosave or submission payload.
// SelectedOption is a pointer so an explicit null survives decoding.
type AnswerInput struct {
	QuestionID     string `json:"questionId" binding:"required,uuid"`
	SelectedOption *int   `json:"selectedOption" binding:"omitempty,min=0,max=3"`
}

// AutosaveRequest replaces a session's whole answer map. StartTime seeds the
// session when autosave arrives before an explicit session start.
type AutosaveRequest struct {
	Answers   []AnswerInput `json:"answers" binding:"dive"`
	StartTime time.Time     `json:"startTime" binding:"required"`
}

// ToAnswerMap collapses the wire list into the stored map form. Keys are
// normalized to canonical lowercase UUID form so grading lookups always
// match, whatever casing the client sent. Later duplicates of the same
// question win, matching last-write semantics.
func ToAnswerMap(answers []AnswerInput) AnswerMap {
	m := make(AnswerMap, len(answers))
	for _, a := range answers {
		key := a.QuestionID
		if id, err := uuid.Parse(key); err == nil {
			key = id.String()
		}
		m[key] = a.SelectedOption
	}
	return m
}
