package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// DashboardRepository computes the admin overview counters.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Summary collects the headline counters in one round trip.
func (r *DashboardRepository) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	s := &model.DashboardSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM questions),
			(SELECT COUNT(*) FROM exams),
			(SELECT COUNT(*) FROM exams WHERE is_active),
			(SELECT COUNT(*) FROM results),
			(SELECT COUNT(*) FROM exam_sessions WHERE NOT is_submitted)`,
	).Scan(&s.Students, &s.Questions, &s.Exams, &s.ActiveExams, &s.Submissions, &s.OpenSessions)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecentSubmissions retrieves the latest graded submissions across all exams.
func (r *DashboardRepository) RecentSubmissions(ctx context.Context, limit int) ([]model.RecentSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, u.name, e.title, r.percentage, r.submitted_at
		 FROM results r
		 JOIN users u ON u.id = r.user_id
		 JOIN exams e ON e.id = r.exam_id
		 ORDER BY r.submitted_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.RecentSubmission
	for rows.Next() {
		var sub model.RecentSubmission
		if err := rows.Scan(&sub.ResultID, &sub.StudentName, &sub.ExamTitle,
			&sub.Percentage, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
