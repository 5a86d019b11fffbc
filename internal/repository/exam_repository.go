package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// ExamRepository handles exam data access, including the ordered
// exam_questions link table.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `e.id, e.title, e.description, e.duration_minutes, e.department,
	e.total_questions, e.passing_score, e.is_active, e.created_by, e.created_at, e.updated_at,
	COALESCE(ARRAY(SELECT eq.question_id FROM exam_questions eq
	               WHERE eq.exam_id = e.id ORDER BY eq.position), '{}')`

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes, &e.Department,
		&e.TotalQuestions, &e.PassingScore, &e.IsActive, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt, &e.QuestionIDs)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam with its ordered question ID list.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams e WHERE e.id = $1`, id))
}

// Create inserts an exam and its question links in one transaction.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO exams (title, description, duration_minutes, department,
		                    total_questions, passing_score, is_active, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.DurationMinutes, e.Department,
		e.TotalQuestions, e.PassingScore, e.IsActive, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}

	if err := replaceExamQuestions(ctx, tx, e.ID, e.QuestionIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update overwrites an exam's fields and, when QuestionIDs is non-nil,
// replaces its question links.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, duration_minutes = $3, department = $4,
		     total_questions = $5, passing_score = $6, is_active = $7, updated_at = NOW()
		 WHERE id = $8`,
		e.Title, e.Description, e.DurationMinutes, e.Department,
		e.TotalQuestions, e.PassingScore, e.IsActive, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if e.QuestionIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM exam_questions WHERE exam_id = $1`, e.ID); err != nil {
			return err
		}
		if err := replaceExamQuestions(ctx, tx, e.ID, e.QuestionIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SetActive flips the active flag.
func (r *ExamRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE exams SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an exam; exam_questions rows cascade.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListActiveByDepartment retrieves the active exams a student may take.
func (r *ExamRepository) ListActiveByDepartment(ctx context.Context, department model.Department) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams e
		 WHERE e.department = $1 AND e.is_active
		 ORDER BY e.created_at DESC`, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectExams(rows)
}

// List retrieves all exams paginated, newest first.
func (r *ExamRepository) List(ctx context.Context, limit, offset int) ([]model.Exam, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams e
		 ORDER BY e.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	exams, err := collectExams(rows)
	if err != nil {
		return nil, 0, err
	}
	return exams, total, nil
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes, &e.Department,
			&e.TotalQuestions, &e.PassingScore, &e.IsActive, &e.CreatedBy,
			&e.CreatedAt, &e.UpdatedAt, &e.QuestionIDs); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func replaceExamQuestions(ctx context.Context, tx pgx.Tx, examID uuid.UUID, questionIDs []uuid.UUID) error {
	for i, qid := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO exam_questions (exam_id, question_id, position) VALUES ($1, $2, $3)`,
			examID, qid, i); err != nil {
			return fmt.Errorf("link question %s: %w", qid, err)
		}
	}
	return nil
}
