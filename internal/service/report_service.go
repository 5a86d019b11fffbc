package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

const statsCacheTTL = time.Hour

// DashboardStore is the overview counter persistence surface.
type DashboardStore interface {
	Summary(ctx context.Context) (*model.DashboardSummary, error)
	RecentSubmissions(ctx context.Context, limit int) ([]model.RecentSubmission, error)
}

// ReportService implements the admin reporting surface: per-exam aggregate
// stats, the dashboard overview and results export.
type ReportService struct {
	exams     ExamStore
	results   ResultStore
	sessions  SessionStore
	dashboard DashboardStore
	rdb       *redis.Client
	logger    zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(exams ExamStore, results ResultStore, sessions SessionStore, dashboard DashboardStore, rdb *redis.Client, logger zerolog.Logger) *ReportService {
	return &ReportService{
		exams:     exams,
		results:   results,
		sessions:  sessions,
		dashboard: dashboard,
		rdb:       rdb,
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

// ExamStats returns the aggregate stats for one exam. The stats worker keeps
// a cached copy warm; on a cache miss the aggregates are recomputed from the
// database and the cache is healed in place.
func (s *ReportService) ExamStats(ctx context.Context, examID uuid.UUID) (*model.ExamStats, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.ExamStatsKey(examID.String())).Bytes()
		if err == nil {
			stats := &model.ExamStats{}
			if err := json.Unmarshal(raw, stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("exam_id", examID.String()).Msg("stats cache read failed")
		}
	}
	return s.RefreshExamStats(ctx, examID)
}

// RefreshExamStats recomputes an exam's aggregates from the database and
// rewrites the cache entry. The stats worker calls this for each queued exam.
func (s *ReportService) RefreshExamStats(ctx context.Context, examID uuid.UUID) (*model.ExamStats, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}

	stats, err := s.results.AggregateByExam(ctx, examID, exam.PassingScore)
	if err != nil {
		return nil, fmt.Errorf("aggregate results: %w", err)
	}
	stats.RefreshedAt = time.Now().UTC()

	if s.rdb != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			key := config.CacheKey.ExamStatsKey(examID.String())
			if err := s.rdb.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
			}
		}
	}
	return stats, nil
}

// MonitorSnapshot returns the current session counts for one exam. The
// WebSocket monitor sends this on connect before streaming live events.
func (s *ReportService) MonitorSnapshot(ctx context.Context, examID uuid.UUID) (*MonitorEvent, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}
	inProgress, submitted, err := s.sessions.CountByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	return &MonitorEvent{
		Type:       "snapshot",
		ExamID:     examID,
		InProgress: inProgress,
		Submitted:  submitted,
		At:         time.Now().UTC(),
	}, nil
}

// Dashboard collects the admin overview: headline counters plus the latest
// graded submissions.
func (s *ReportService) Dashboard(ctx context.Context) (*model.DashboardSummary, []model.RecentSubmission, error) {
	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard summary: %w", err)
	}
	recent, err := s.dashboard.RecentSubmissions(ctx, 10)
	if err != nil {
		return nil, nil, fmt.Errorf("recent submissions: %w", err)
	}
	return summary, recent, nil
}

// ExportResultsXLSX renders all results for one exam as a spreadsheet,
// ordered best score first.
func (s *ReportService) ExportResultsXLSX(ctx context.Context, examID uuid.UUID) (*bytes.Buffer, string, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("load exam: %w", err)
	}

	results, err := s.results.ListByExam(ctx, examID)
	if err != nil {
		return nil, "", fmt.Errorf("load results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Rank", "Student", "Email", "Score", "Percentage", "Time Spent (s)", "Submitted At", "Auto Submitted"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, res := range results {
		row := i + 2
		values := []interface{}{
			i + 1,
			res.StudentName,
			res.StudentEmail,
			res.Score,
			res.Percentage,
			res.TimeSpent,
			res.SubmittedAt.UTC().Format(time.RFC3339),
			res.AutoSubmitted,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write spreadsheet: %w", err)
	}
	filename := fmt.Sprintf("results_%s.xlsx", exam.ID)
	return buf, filename, nil
}
