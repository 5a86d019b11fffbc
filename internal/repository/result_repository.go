package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// ResultRepository handles graded result data access. Results are written
// once at submission time and never updated.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, user_id, exam_id, answers, score, percentage, time_spent, submitted_at, auto_submitted`

func scanResult(row interface{ Scan(...any) error }) (*model.Result, error) {
	res := &model.Result{}
	var answers []byte
	err := row.Scan(&res.ID, &res.UserID, &res.ExamID, &answers, &res.Score,
		&res.Percentage, &res.TimeSpent, &res.SubmittedAt, &res.AutoSubmitted)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &res.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return res, nil
}

// GetByID retrieves a result by UUID.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1`, id))
}

// Create inserts a graded result.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO results (user_id, exam_id, answers, score, percentage, time_spent, submitted_at, auto_submitted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		res.UserID, res.ExamID, answers, res.Score, res.Percentage,
		res.TimeSpent, res.SubmittedAt, res.AutoSubmitted,
	).Scan(&res.ID)
}

// ExistsForUserExam reports whether a result is already recorded for the
// pair. This is the duplicate submission guard.
func (r *ResultRepository) ExistsForUserExam(ctx context.Context, userID, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM results WHERE user_id = $1 AND exam_id = $2)`,
		userID, examID,
	).Scan(&exists)
	return exists, err
}

// ListByUser retrieves a student's results, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE user_id = $1 ORDER BY submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		var answers []byte
		if err := rows.Scan(&res.ID, &res.UserID, &res.ExamID, &answers, &res.Score,
			&res.Percentage, &res.TimeSpent, &res.SubmittedAt, &res.AutoSubmitted); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListByExam retrieves all results for one exam joined with student identity,
// highest percentage first. Used for the admin results table and the XLSX
// export.
func (r *ResultRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ResultWithStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, u.name, u.email, r.score, r.percentage,
		        r.time_spent, r.submitted_at, r.auto_submitted
		 FROM results r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.exam_id = $1
		 ORDER BY r.percentage DESC, r.submitted_at ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultWithStudent
	for rows.Next() {
		var res model.ResultWithStudent
		if err := rows.Scan(&res.ResultID, &res.UserID, &res.StudentName, &res.StudentEmail,
			&res.Score, &res.Percentage, &res.TimeSpent, &res.SubmittedAt, &res.AutoSubmitted); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// AggregateByExam computes the live aggregates for one exam in a single
// query. The stats worker caches the outcome in Redis.
func (r *ResultRepository) AggregateByExam(ctx context.Context, examID uuid.UUID, passingScore float64) (*model.ExamStats, error) {
	stats := &model.ExamStats{ExamID: examID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(percentage), 0),
		        COALESCE(MAX(percentage), 0),
		        COALESCE(MIN(percentage), 0),
		        COALESCE(AVG(CASE WHEN percentage >= $2 THEN 100.0 ELSE 0.0 END), 0)
		 FROM results WHERE exam_id = $1`, examID, passingScore,
	).Scan(&stats.Participants, &stats.AverageScore, &stats.HighestScore,
		&stats.LowestScore, &stats.PassRate)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
