package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// SessionService owns the exam session lifecycle: start-or-restore, autosave
// and read-back. Submission finalizes sessions through SubmissionService.
type SessionService struct {
	sessions SessionStore
	exams    ExamStore
	results  ResultStore
	logger   zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions SessionStore, exams ExamStore, results ResultStore, logger zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		exams:    exams,
		results:  results,
		logger:   logger.With().Str("component", "session_service").Logger(),
	}
}

// StartOrRestore returns the student's session for the exam, creating it on
// first call. Repeated calls return the same session with the original start
// time, so a page reload never resets the exam clock. A session that has
// already been submitted is returned as-is; the client reads the flag and
// redirects to the result view.
func (s *SessionService) StartOrRestore(ctx context.Context, examID, studentID uuid.UUID, department model.Department) (*model.ExamSession, error) {
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
	// An inactive exam is indistinguishable from a missing one.
	if !exam.IsActive {
		return nil, ErrNotFound
	}

	existing, err := s.sessions.GetByExamAndStudent(ctx, examID, studentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session := &model.ExamSession{
		ExamID:    examID,
		StudentID: studentID,
		StartTime: time.Now().UTC(),
		Answers:   model.AnswerMap{},
	}
	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !created {
		// Lost a concurrent create; the winner's row is the session.
		return s.sessions.GetByExamAndStudent(ctx, examID, studentID)
	}

	s.logger.Info().
		Str("exam_id", examID.String()).
		Str("student_id", studentID.String()).
		Msg("session started")
	return session, nil
}

// Autosave replaces the session's whole answer map with the client's latest
// snapshot. Concurrent saves resolve to whichever write lands last. A save
// arriving before an explicit start seeds the session with the client's
// start time.
func (s *SessionService) Autosave(ctx context.Context, examID, studentID uuid.UUID, req *model.AutosaveRequest) error {
	submitted, err := s.results.ExistsForUserExam(ctx, studentID, examID)
	if err != nil {
		return fmt.Errorf("check result: %w", err)
	}
	if submitted {
		return ErrAlreadySubmitted
	}

	answers := model.ToAnswerMap(req.Answers)
	matched, err := s.sessions.ReplaceAnswers(ctx, examID, studentID, answers)
	if err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	if matched {
		return nil
	}

	// No open session matched: either none exists yet or it is submitted.
	existing, err := s.sessions.GetByExamAndStudent(ctx, examID, studentID)
	if err == nil {
		if existing.IsSubmitted {
			return ErrAlreadySubmitted
		}
		return ErrNotFound
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("load session: %w", err)
	}

	session := &model.ExamSession{
		ExamID:    examID,
		StudentID: studentID,
		StartTime: req.StartTime,
		Answers:   answers,
	}
	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !created {
		if _, err := s.sessions.ReplaceAnswers(ctx, examID, studentID, answers); err != nil {
			return fmt.Errorf("save answers: %w", err)
		}
	}
	return nil
}

// Get retrieves the student's session for an exam.
func (s *SessionService) Get(ctx context.Context, examID, studentID uuid.UUID) (*model.ExamSession, error) {
	session, err := s.sessions.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}
