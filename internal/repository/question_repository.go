package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, text, options, correct_option, department, subject, difficulty, created_by, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	var options []byte
	err := row.Scan(&q.ID, &q.Text, &options, &q.CorrectOption, &q.Department,
		&q.Subject, &q.Difficulty, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return q, nil
}

// GetByID retrieves a question by UUID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (text, options, correct_option, department, subject, difficulty, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		q.Text, options, q.CorrectOption, q.Department, q.Subject, q.Difficulty, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// CreateBatch inserts a set of questions in one transaction. Used by bulk
// import after per-row validation; all-or-nothing for the valid rows.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for i := range questions {
		q := &questions[i]
		options, err := json.Marshal(q.Options)
		if err != nil {
			return 0, fmt.Errorf("encode options: %w", err)
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (text, options, correct_option, department, subject, difficulty, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			q.Text, options, q.CorrectOption, q.Department, q.Subject, q.Difficulty, q.CreatedBy,
		).Scan(&q.ID); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Update overwrites a question's mutable fields.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, options = $2, correct_option = $3, department = $4,
		     subject = $5, difficulty = $6, updated_at = NOW()
		 WHERE id = $7`,
		q.Text, options, q.CorrectOption, q.Department, q.Subject, q.Difficulty, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a question from the bank.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List retrieves questions matching the filter, newest first.
func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	baseQuery := ` FROM questions WHERE 1=1`
	args := []any{}

	if filter.Department != "" {
		args = append(args, filter.Department)
		baseQuery += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		baseQuery += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		baseQuery += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		baseQuery += fmt.Sprintf(" AND text ILIKE $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := collectQuestions(rows)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListByExam retrieves an exam's questions in their composed order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.text, q.options, q.correct_option, q.department, q.subject,
		        q.difficulty, q.created_by, q.created_at, q.updated_at
		 FROM questions q
		 JOIN exam_questions eq ON eq.question_id = q.id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// CountByIDs returns how many of the given question IDs exist. Used to
// validate exam composition before insert.
func (r *QuestionRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE id = ANY($1)`, ids,
	).Scan(&count)
	return count, err
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.Text, &options, &q.CorrectOption, &q.Department,
			&q.Subject, &q.Difficulty, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
