package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// SessionRepository handles exam session data access. The answers column is
// a single jsonb document, so a full-map replacement is one atomic row write.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, exam_id, student_id, start_time, answers, is_submitted, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	var answers []byte
	err := row.Scan(&s.ID, &s.ExamID, &s.StudentID, &s.StartTime, &answers,
		&s.IsSubmitted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return s, nil
}

// GetByExamAndStudent retrieves the session for one (student, exam) pair.
func (r *SessionRepository) GetByExamAndStudent(ctx context.Context, examID, studentID uuid.UUID) (*model.ExamSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM exam_sessions
		 WHERE exam_id = $1 AND student_id = $2`, examID, studentID))
}

// Create inserts a new session for the pair. ON CONFLICT DO NOTHING makes
// concurrent duplicate creation best-effort idempotent: the loser sees
// created=false and should re-fetch the winner's row.
func (r *SessionRepository) Create(ctx context.Context, s *model.ExamSession) (bool, error) {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return false, fmt.Errorf("encode answers: %w", err)
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (exam_id, student_id, start_time, answers, is_submitted)
		 VALUES ($1, $2, $3, $4, false)
		 ON CONFLICT (exam_id, student_id) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		s.ExamID, s.StudentID, s.StartTime, answers,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReplaceAnswers overwrites the whole answer map, guarded so a submitted
// session is never mutated. Returns false when no open session matched.
func (r *SessionRepository) ReplaceAnswers(ctx context.Context, examID, studentID uuid.UUID, answers model.AnswerMap) (bool, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return false, fmt.Errorf("encode answers: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET answers = $1, updated_at = NOW()
		 WHERE exam_id = $2 AND student_id = $3 AND NOT is_submitted`,
		raw, examID, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSubmitted flips the one-way submitted flag.
func (r *SessionRepository) MarkSubmitted(ctx context.Context, examID, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET is_submitted = true, updated_at = NOW()
		 WHERE exam_id = $1 AND student_id = $2`,
		examID, studentID)
	return err
}

// CountByExam returns how many sessions exist for an exam, split by
// submission state. Used for the admin monitor snapshot.
func (r *SessionRepository) CountByExam(ctx context.Context, examID uuid.UUID) (inProgress, submitted int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE NOT is_submitted),
			COUNT(*) FILTER (WHERE is_submitted)
		 FROM exam_sessions WHERE exam_id = $1`, examID,
	).Scan(&inProgress, &submitted)
	return
}
