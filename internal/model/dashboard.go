package model

import (
	"time"

	"github.com/google/uuid"
)

// DashboardSummary is the admin overview headline counters.
type DashboardSummary struct {
	Students     int `json:"students"`
	Questions    int `json:"questions"`
	Exams        int `json:"exams"`
	ActiveExams  int `json:"active_exams"`
	Submissions  int `json:"submissions"`
	OpenSessions int `json:"open_sessions"`
}

// RecentSubmission is one row of the dashboard's latest-submissions feed.
type RecentSubmission struct {
	ResultID    uuid.UUID `json:"result_id"`
	StudentName string    `json:"student_name"`
	ExamTitle   string    `json:"exam_title"`
	Percentage  float64   `json:"percentage"`
	SubmittedAt time.Time `json:"submitted_at"`
}
