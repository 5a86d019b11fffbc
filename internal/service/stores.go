package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// Persistence surfaces the services depend on. The repository package
// satisfies all of them; tests swap in fakes.

// ExamStore is the exam persistence surface.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	Update(ctx context.Context, e *model.Exam) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActiveByDepartment(ctx context.Context, department model.Department) ([]model.Exam, error)
	List(ctx context.Context, limit, offset int) ([]model.Exam, int, error)
}

// QuestionStore is the question bank persistence surface.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	CreateBatch(ctx context.Context, questions []model.Question) (int, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

// SessionStore is the exam session persistence surface.
type SessionStore interface {
	GetByExamAndStudent(ctx context.Context, examID, studentID uuid.UUID) (*model.ExamSession, error)
	Create(ctx context.Context, s *model.ExamSession) (bool, error)
	ReplaceAnswers(ctx context.Context, examID, studentID uuid.UUID, answers model.AnswerMap) (bool, error)
	MarkSubmitted(ctx context.Context, examID, studentID uuid.UUID) error
	CountByExam(ctx context.Context, examID uuid.UUID) (inProgress, submitted int, err error)
}

// ResultStore is the graded result persistence surface.
type ResultStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error)
	Create(ctx context.Context, res *model.Result) error
	ExistsForUserExam(ctx context.Context, userID, examID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Result, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ResultWithStudent, error)
	AggregateByExam(ctx context.Context, examID uuid.UUID, passingScore float64) (*model.ExamStats, error)
}
