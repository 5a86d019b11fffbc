package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

const (
	defaultPassingScore = 50.0
	paperCacheTTL       = 12 * time.Hour
)

// ExamService implements exam composition, activation and paper delivery.
// Activating an exam warms the paper cache so students hitting the start
// button do not stampede the database.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	rdb       *redis.Client
	logger    zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, questions QuestionStore, rdb *redis.Client, logger zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		rdb:       rdb,
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

// Create composes a new exam after verifying every referenced question exists.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest, createdBy uuid.UUID) (*model.Exam, error) {
	questionIDs, err := parseUUIDs(req.QuestionIDs)
	if err != nil {
		return nil, ErrQuestionMissing
	}

	count, err := s.questions.CountByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("verify questions: %w", err)
	}
	if count != len(uniqueUUIDs(questionIDs)) {
		return nil, ErrQuestionMissing
	}

	passingScore := defaultPassingScore
	if req.PassingScore != nil {
		passingScore = *req.PassingScore
	}
	isActive := false
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	exam := &model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.Duration,
		Department:      model.Department(req.Department),
		QuestionIDs:     questionIDs,
		TotalQuestions:  len(questionIDs),
		PassingScore:    passingScore,
		IsActive:        isActive,
		CreatedBy:       createdBy,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	if exam.IsActive {
		s.warmPaperCache(ctx, exam.ID)
	}
	s.logger.Info().Str("exam_id", exam.ID.String()).Str("title", exam.Title).Msg("exam created")
	return exam, nil
}

// Update edits an exam. A question list in the payload replaces the exam's
// composition and recomputes the denormalized total.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.Duration != 0 {
		exam.DurationMinutes = req.Duration
	}
	if req.Department != "" {
		exam.Department = model.Department(req.Department)
	}
	if req.PassingScore != nil {
		exam.PassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if req.QuestionIDs != nil {
		questionIDs, err := parseUUIDs(req.QuestionIDs)
		if err != nil {
			return nil, ErrQuestionMissing
		}
		count, err := s.questions.CountByIDs(ctx, questionIDs)
		if err != nil {
			return nil, fmt.Errorf("verify questions: %w", err)
		}
		if count != len(uniqueUUIDs(questionIDs)) {
			return nil, ErrQuestionMissing
		}
		exam.QuestionIDs = questionIDs
		exam.TotalQuestions = len(questionIDs)
	} else {
		// Leave the link table untouched.
		exam.QuestionIDs = nil
	}

	if err := s.exams.Update(ctx, exam); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update exam: %w", err)
	}

	s.invalidatePaperCache(ctx, id)
	if exam.IsActive {
		s.warmPaperCache(ctx, id)
	}
	return s.exams.GetByID(ctx, id)
}

// SetActive toggles an exam. Activation warms the paper cache; deactivation
// drops it.
func (s *ExamService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.exams.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("set active: %w", err)
	}
	if active {
		s.warmPaperCache(ctx, id)
	} else {
		s.invalidatePaperCache(ctx, id)
	}
	s.logger.Info().Str("exam_id", id.String()).Bool("active", active).Msg("exam activation changed")
	return nil
}

// Delete removes an exam and drops its cached paper.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete exam: %w", err)
	}
	s.invalidatePaperCache(ctx, id)
	return nil
}

// Get retrieves one exam with its full composition.
func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}
	return exam, nil
}

// List retrieves all exams paginated for the admin view.
func (s *ExamService) List(ctx context.Context, limit, offset int) ([]model.Exam, int, error) {
	return s.exams.List(ctx, limit, offset)
}

// ListForStudent retrieves the active exams in the student's department.
func (s *ExamService) ListForStudent(ctx context.Context, department model.Department) ([]model.Exam, error) {
	return s.exams.ListActiveByDepartment(ctx, department)
}

// GetPaper delivers the student-facing paper: questions in exam order with
// their correct options stripped. Served from cache when warm, rebuilt from
// the database and re-cached otherwise.
func (s *ExamService) GetPaper(ctx context.Context, examID uuid.UUID, department model.Department) (*model.ExamPaper, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}
	if exam.Department != department {
		return nil, ErrForbidden
	}
	if !exam.IsActive {
		return nil, ErrExamNotActive
	}

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.ExamPaperKey(examID.String())).Bytes()
		if err == nil {
			paper := &model.ExamPaper{}
			if err := json.Unmarshal(raw, paper); err == nil {
				return paper, nil
			}
			// Corrupt cache entry; fall through and rebuild.
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("paper cache read failed")
		}
	}

	paper, err := s.buildPaper(ctx, exam)
	if err != nil {
		return nil, err
	}
	s.cachePaper(ctx, paper)
	return paper, nil
}

func (s *ExamService) buildPaper(ctx context.Context, exam *model.Exam) (*model.ExamPaper, error) {
	questions, err := s.questions.ListByExam(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	stripped := make([]model.QuestionForStudent, 0, len(questions))
	for _, q := range questions {
		stripped = append(stripped, model.QuestionForStudent{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		})
	}
	return &model.ExamPaper{
		ExamID:          exam.ID,
		Title:           exam.Title,
		DurationMinutes: exam.DurationMinutes,
		TotalQuestions:  exam.TotalQuestions,
		Questions:       stripped,
	}, nil
}

func (s *ExamService) warmPaperCache(ctx context.Context, examID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("paper warm: load exam failed")
		return
	}
	paper, err := s.buildPaper(ctx, exam)
	if err != nil {
		s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("paper warm: build failed")
		return
	}
	s.cachePaper(ctx, paper)
}

func (s *ExamService) cachePaper(ctx context.Context, paper *model.ExamPaper) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(paper)
	if err != nil {
		return
	}
	key := config.CacheKey.ExamPaperKey(paper.ExamID.String())
	if err := s.rdb.Set(ctx, key, raw, paperCacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("paper cache write failed")
	}
}

func (s *ExamService) invalidatePaperCache(ctx context.Context, examID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ExamPaperKey(examID.String())).Err(); err != nil {
		s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("paper cache invalidate failed")
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func uniqueUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
