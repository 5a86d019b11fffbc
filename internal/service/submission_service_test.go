package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

type submissionFixture struct {
	svc       *SubmissionService
	exam      *model.Exam
	questions []model.Question
	sessions  *fakeSessionStore
	results   *fakeResultStore
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	questions := makeQuestions(3)
	exam := &model.Exam{
		ID:             uuid.New(),
		Title:          "Chemistry Mock",
		Department:     model.DepartmentScience,
		TotalQuestions: 3,
		PassingScore:   50,
		IsActive:       true,
	}
	questionStore := newFakeQuestionStore()
	questionStore.addForExam(exam.ID, questions...)

	sessions := newFakeSessionStore()
	results := newFakeResultStore()
	svc := NewSubmissionService(sessions, newFakeExamStore(exam), questionStore, results, nil, zerolog.Nop())
	return &submissionFixture{svc: svc, exam: exam, questions: questions, sessions: sessions, results: results}
}

func (f *submissionFixture) openSession(t *testing.T, student uuid.UUID, answers model.AnswerMap) {
	t.Helper()
	created, err := f.sessions.Create(context.Background(), &model.ExamSession{
		ExamID:    f.exam.ID,
		StudentID: student,
		StartTime: time.Now().Add(-10 * time.Minute),
		Answers:   answers,
	})
	if err != nil || !created {
		t.Fatalf("open session: created=%v err=%v", created, err)
	}
}

func TestSubmitGradesAndPersists(t *testing.T) {
	f := newSubmissionFixture(t)
	student := uuid.New()
	f.openSession(t, student, model.AnswerMap{})

	req := &model.SubmitRequest{
		ExamID: f.exam.ID.String(),
		Answers: []model.AnswerInput{
			{QuestionID: f.questions[0].ID.String(), SelectedOption: intPtr(f.questions[0].CorrectOption)},
			{QuestionID: f.questions[1].ID.String(), SelectedOption: intPtr(f.questions[1].CorrectOption)},
			{QuestionID: f.questions[2].ID.String(), SelectedOption: intPtr((f.questions[2].CorrectOption + 1) % 4)},
		},
		TimeSpent: 540,
	}

	result, stats, err := f.svc.Submit(context.Background(), student, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.ID == uuid.Nil {
		t.Fatal("result was not persisted")
	}
	if result.Score != 2 || result.Percentage != 66.67 {
		t.Fatalf("unexpected grading: score=%d pct=%v", result.Score, result.Percentage)
	}
	if stats.Correct != 2 || stats.Wrong != 1 || stats.Unanswered != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	session, err := f.sessions.GetByExamAndStudent(context.Background(), f.exam.ID, student)
	if err != nil {
		t.Fatal(err)
	}
	if !session.IsSubmitted {
		t.Fatal("session was not marked submitted")
	}
}

func TestSubmitSecondAttemptRejected(t *testing.T) {
	f := newSubmissionFixture(t)
	student := uuid.New()
	f.openSession(t, student, model.AnswerMap{})

	req := &model.SubmitRequest{ExamID: f.exam.ID.String()}
	if _, _, err := f.svc.Submit(context.Background(), student, req); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, _, err := f.svc.Submit(context.Background(), student, req)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	results, err := f.results.ListByUser(context.Background(), student)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
}

func TestSubmitEmptyAnswersFallsBackToSession(t *testing.T) {
	f := newSubmissionFixture(t)
	student := uuid.New()

	// Auto-submit at the deadline sends no answers; the saved snapshot is
	// graded instead.
	f.openSession(t, student, model.AnswerMap{
		f.questions[0].ID.String(): intPtr(f.questions[0].CorrectOption),
	})

	req := &model.SubmitRequest{ExamID: f.exam.ID.String(), AutoSubmitted: true}
	result, stats, err := f.svc.Submit(context.Background(), student, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if stats.Correct != 1 || stats.Unanswered != 2 {
		t.Fatalf("expected session snapshot graded, got %+v", stats)
	}
	if !result.AutoSubmitted {
		t.Fatal("auto submit flag not recorded")
	}
}

func TestSubmitClientAnswersTakePrecedence(t *testing.T) {
	f := newSubmissionFixture(t)
	student := uuid.New()

	// The snapshot holds a wrong answer; the submission payload corrects it.
	f.openSession(t, student, model.AnswerMap{
		f.questions[0].ID.String(): intPtr((f.questions[0].CorrectOption + 1) % 4),
	})

	req := &model.SubmitRequest{
		ExamID: f.exam.ID.String(),
		Answers: []model.AnswerInput{
			{QuestionID: f.questions[0].ID.String(), SelectedOption: intPtr(f.questions[0].CorrectOption)},
		},
	}
	_, stats, err := f.svc.Submit(context.Background(), student, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if stats.Correct != 1 || stats.Wrong != 0 {
		t.Fatalf("client answers did not take precedence: %+v", stats)
	}
}

func TestSubmitWithoutSession(t *testing.T) {
	f := newSubmissionFixture(t)

	req := &model.SubmitRequest{ExamID: f.exam.ID.String()}
	_, _, err := f.svc.Submit(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitUnknownExam(t *testing.T) {
	f := newSubmissionFixture(t)

	req := &model.SubmitRequest{ExamID: uuid.New().String()}
	_, _, err := f.svc.Submit(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitAdvisoryFlagAloneBlocks(t *testing.T) {
	f := newSubmissionFixture(t)
	student := uuid.New()
	f.openSession(t, student, model.AnswerMap{})

	if err := f.sessions.MarkSubmitted(context.Background(), f.exam.ID, student); err != nil {
		t.Fatal(err)
	}

	req := &model.SubmitRequest{ExamID: f.exam.ID.String()}
	_, _, err := f.svc.Submit(context.Background(), student, req)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}
