package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// QuestionService implements question bank management.
type QuestionService struct {
	questions QuestionStore
	logger    zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, logger zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// Create adds a question to the bank.
func (s *QuestionService) Create(ctx context.Context, req *model.CreateQuestionRequest, createdBy uuid.UUID) (*model.Question, error) {
	q := &model.Question{
		Text:          req.Text,
		Options:       req.Options,
		CorrectOption: *req.CorrectOption,
		Department:    model.Department(req.Department),
		Subject:       req.Subject,
		Difficulty:    difficultyOrDefault(req.Difficulty),
		CreatedBy:     createdBy,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// Get retrieves one question.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

// Update edits an existing question.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	q.Text = req.Text
	q.Options = req.Options
	q.CorrectOption = *req.CorrectOption
	q.Department = model.Department(req.Department)
	q.Subject = req.Subject
	q.Difficulty = difficultyOrDefault(req.Difficulty)

	if err := s.questions.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

// Delete removes a question from the bank.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// List retrieves questions matching the filter.
func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	return s.questions.List(ctx, filter, limit, offset)
}

func difficultyOrDefault(raw string) model.Difficulty {
	if raw == "" {
		return model.DifficultyMedium
	}
	return model.Difficulty(raw)
}
