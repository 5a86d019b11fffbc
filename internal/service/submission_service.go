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

// SubmissionService grades an exam attempt exactly once. Whether a result
// row exists for the (student, exam) pair is the authoritative duplicate
// guard; the session's submitted flag is advisory.
type SubmissionService struct {
	sessions  SessionStore
	exams     ExamStore
	questions QuestionStore
	results   ResultStore
	rdb       *redis.Client
	logger    zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(sessions SessionStore, exams ExamStore, questions QuestionStore, results ResultStore, rdb *redis.Client, logger zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		sessions:  sessions,
		exams:     exams,
		questions: questions,
		results:   results,
		rdb:       rdb,
		logger:    logger.With().Str("component", "submission_service").Logger(),
	}
}

// MonitorEvent is published on the exam's Redis channel after each graded
// submission, feeding the admin live monitor.
type MonitorEvent struct {
	Type          string    `json:"type"`
	ExamID        uuid.UUID `json:"exam_id"`
	StudentID     uuid.UUID `json:"student_id"`
	Percentage    float64   `json:"percentage"`
	AutoSubmitted bool      `json:"auto_submitted"`
	InProgress    int       `json:"in_progress"`
	Submitted     int       `json:"submitted"`
	At            time.Time `json:"at"`
}

// Submit finalizes an attempt: it grades the answers, persists the result,
// then marks the session submitted. Answers in the request take precedence
// over the autosaved session snapshot; an empty request falls back to the
// snapshot so an auto-submit at the deadline grades whatever was saved.
func (s *SubmissionService) Submit(ctx context.Context, studentID uuid.UUID, req *model.SubmitRequest) (*model.Result, *model.SubmissionStats, error) {
	examID, err := uuid.Parse(req.ExamID)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load exam: %w", err)
	}

	exists, err := s.results.ExistsForUserExam(ctx, studentID, examID)
	if err != nil {
		return nil, nil, fmt.Errorf("check result: %w", err)
	}
	if exists {
		return nil, nil, ErrAlreadySubmitted
	}

	session, err := s.sessions.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if session.IsSubmitted {
		return nil, nil, ErrAlreadySubmitted
	}

	answers := session.Answers
	if len(req.Answers) > 0 {
		answers = model.ToAnswerMap(req.Answers)
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	records, stats := GradeExam(exam, questions, answers)

	result := &model.Result{
		UserID:        studentID,
		ExamID:        examID,
		Answers:       records,
		Score:         stats.Correct,
		Percentage:    stats.Percentage,
		TimeSpent:     req.TimeSpent,
		SubmittedAt:   time.Now().UTC(),
		AutoSubmitted: req.AutoSubmitted,
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, nil, fmt.Errorf("persist result: %w", err)
	}

	// The result is recorded; a failure here only leaves the advisory flag
	// behind, and the result guard still blocks a retry.
	if err := s.sessions.MarkSubmitted(ctx, examID, studentID); err != nil {
		s.logger.Error().Err(err).
			Str("exam_id", examID.String()).
			Str("student_id", studentID.String()).
			Msg("failed to mark session submitted")
	}

	s.enqueueStatsRefresh(ctx, examID)
	s.publishMonitorEvent(ctx, result)

	s.logger.Info().
		Str("exam_id", examID.String()).
		Str("student_id", studentID.String()).
		Int("score", result.Score).
		Float64("percentage", result.Percentage).
		Bool("auto_submitted", result.AutoSubmitted).
		Msg("exam submitted")
	return result, stats, nil
}

func (s *SubmissionService) enqueueStatsRefresh(ctx context.Context, examID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.LPush(ctx, config.WorkerKey.RefreshStatsQueue, examID.String()).Err(); err != nil {
		s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("failed to enqueue stats refresh")
	}
}

func (s *SubmissionService) publishMonitorEvent(ctx context.Context, result *model.Result) {
	if s.rdb == nil {
		return
	}
	inProgress, submitted, err := s.sessions.CountByExam(ctx, result.ExamID)
	if err != nil {
		s.logger.Warn().Err(err).Str("exam_id", result.ExamID.String()).Msg("failed to count sessions")
	}
	event := MonitorEvent{
		Type:          "submission",
		ExamID:        result.ExamID,
		StudentID:     result.UserID,
		Percentage:    result.Percentage,
		AutoSubmitted: result.AutoSubmitted,
		InProgress:    inProgress,
		Submitted:     submitted,
		At:            result.SubmittedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	channel := config.CacheKey.ExamMonitorChannel(result.ExamID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.logger.Warn().Err(err).Str("channel", channel).Msg("failed to publish monitor event")
	}
}
