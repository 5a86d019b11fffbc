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

// ResultService implements result read access. Students see only their own
// results; admins see everything.
type ResultService struct {
	results ResultStore
	logger  zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(results ResultStore, logger zerolog.Logger) *ResultService {
	return &ResultService{
		results: results,
		logger:  logger.With().Str("component", "result_service").Logger(),
	}
}

// Get retrieves one result, enforcing that a student can only read a result
// they own. Any authenticated admin may read any result.
func (s *ResultService) Get(ctx context.Context, resultID, requesterID uuid.UUID, requesterRole model.Role) (*model.Result, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load result: %w", err)
	}
	if requesterRole != model.RoleAdmin && result.UserID != requesterID {
		return nil, ErrForbidden
	}
	return result, nil
}

// ListMine retrieves the requesting student's results.
func (s *ResultService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Result, error) {
	return s.results.ListByUser(ctx, userID)
}

// ListByExam retrieves all results for one exam with student identity.
func (s *ResultService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ResultWithStudent, error) {
	return s.results.ListByExam(ctx, examID)
}
