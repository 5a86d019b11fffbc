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

func newSessionFixture(t *testing.T) (*SessionService, *model.Exam, *fakeSessionStore, *fakeResultStore) {
	t.Helper()
	exam := &model.Exam{
		ID:             uuid.New(),
		Title:          "Biology Mock",
		Department:     model.DepartmentScience,
		TotalQuestions: 3,
		IsActive:       true,
	}
	sessions := newFakeSessionStore()
	results := newFakeResultStore()
	svc := NewSessionService(sessions, newFakeExamStore(exam), results, zerolog.Nop())
	return svc, exam, sessions, results
}

func TestStartOrRestoreIsIdempotent(t *testing.T) {
	svc, exam, _, _ := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	first, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience)
	if err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	second, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience)
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same session, got %s and %s", first.ID, second.ID)
	}
	if !first.StartTime.Equal(second.StartTime) {
		t.Fatalf("start time changed on restore: %v vs %v", first.StartTime, second.StartTime)
	}
}

func TestStartOrRestoreRejectsOtherDepartment(t *testing.T) {
	svc, exam, _, _ := newSessionFixture(t)

	_, err := svc.StartOrRestore(context.Background(), exam.ID, uuid.New(), model.DepartmentArt)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStartOrRestoreTreatsInactiveExamAsMissing(t *testing.T) {
	exam := &model.Exam{ID: uuid.New(), Department: model.DepartmentScience, IsActive: false}
	svc := NewSessionService(newFakeSessionStore(), newFakeExamStore(exam), newFakeResultStore(), zerolog.Nop())

	_, err := svc.StartOrRestore(context.Background(), exam.ID, uuid.New(), model.DepartmentScience)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive exam, got %v", err)
	}
}

func TestStartOrRestoreReturnsClosedSessionAfterSubmission(t *testing.T) {
	svc, exam, sessions, results := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	opened, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience)
	if err != nil {
		t.Fatal(err)
	}
	if err := sessions.MarkSubmitted(ctx, exam.ID, student); err != nil {
		t.Fatal(err)
	}
	if err := results.Create(ctx, &model.Result{UserID: student, ExamID: exam.ID}); err != nil {
		t.Fatal(err)
	}

	restored, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience)
	if err != nil {
		t.Fatalf("expected the closed session back, got %v", err)
	}
	if restored.ID != opened.ID {
		t.Fatalf("expected session %s, got %s", opened.ID, restored.ID)
	}
	if !restored.IsSubmitted {
		t.Fatal("restored session should carry the submitted flag")
	}
}

func TestStartOrRestoreUnknownExam(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	_, err := svc.StartOrRestore(context.Background(), uuid.New(), uuid.New(), model.DepartmentScience)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAutosaveReplacesWholeMap(t *testing.T) {
	svc, exam, _, _ := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	if _, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience); err != nil {
		t.Fatal(err)
	}

	q1, q2 := uuid.New().String(), uuid.New().String()
	first := &model.AutosaveRequest{
		StartTime: time.Now(),
		Answers: []model.AnswerInput{
			{QuestionID: q1, SelectedOption: intPtr(0)},
			{QuestionID: q2, SelectedOption: intPtr(3)},
		},
	}
	if err := svc.Autosave(ctx, exam.ID, student, first); err != nil {
		t.Fatalf("first autosave failed: %v", err)
	}

	// A later snapshot with fewer answers wins outright.
	second := &model.AutosaveRequest{
		StartTime: time.Now(),
		Answers: []model.AnswerInput{
			{QuestionID: q1, SelectedOption: intPtr(2)},
		},
	}
	if err := svc.Autosave(ctx, exam.ID, student, second); err != nil {
		t.Fatalf("second autosave failed: %v", err)
	}

	session, err := svc.Get(ctx, exam.ID, student)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Answers) != 1 {
		t.Fatalf("expected 1 answer after replacement, got %d", len(session.Answers))
	}
	if got := session.Answers[q1]; got == nil || *got != 2 {
		t.Fatalf("expected answer 2 for %s, got %v", q1, got)
	}
	if _, stale := session.Answers[q2]; stale {
		t.Fatal("stale answer survived full replacement")
	}
}

func TestAutosavePreservesExplicitNull(t *testing.T) {
	svc, exam, _, _ := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	if _, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience); err != nil {
		t.Fatal(err)
	}

	q1 := uuid.New().String()
	req := &model.AutosaveRequest{
		StartTime: time.Now(),
		Answers:   []model.AnswerInput{{QuestionID: q1, SelectedOption: nil}},
	}
	if err := svc.Autosave(ctx, exam.ID, student, req); err != nil {
		t.Fatal(err)
	}

	session, err := svc.Get(ctx, exam.ID, student)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := session.Answers[q1]
	if !ok {
		t.Fatal("explicit null answer was dropped")
	}
	if v != nil {
		t.Fatalf("expected nil selection, got %v", *v)
	}
}

func TestAutosaveSeedsSessionBeforeStart(t *testing.T) {
	svc, exam, _, _ := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	start := time.Now().Add(-2 * time.Minute).Truncate(time.Second)
	req := &model.AutosaveRequest{
		StartTime: start,
		Answers:   []model.AnswerInput{{QuestionID: uuid.New().String(), SelectedOption: intPtr(1)}},
	}
	if err := svc.Autosave(ctx, exam.ID, student, req); err != nil {
		t.Fatalf("autosave without session failed: %v", err)
	}

	session, err := svc.Get(ctx, exam.ID, student)
	if err != nil {
		t.Fatalf("session was not seeded: %v", err)
	}
	if !session.StartTime.Equal(start) {
		t.Fatalf("expected seeded start time %v, got %v", start, session.StartTime)
	}
	if len(session.Answers) != 1 {
		t.Fatalf("expected seeded answers, got %d entries", len(session.Answers))
	}
}

func TestAutosaveRejectedAfterSubmission(t *testing.T) {
	svc, exam, sessions, results := newSessionFixture(t)
	student := uuid.New()
	ctx := context.Background()

	if _, err := svc.StartOrRestore(ctx, exam.ID, student, model.DepartmentScience); err != nil {
		t.Fatal(err)
	}
	if err := sessions.MarkSubmitted(ctx, exam.ID, student); err != nil {
		t.Fatal(err)
	}

	req := &model.AutosaveRequest{
		StartTime: time.Now(),
		Answers:   []model.AnswerInput{{QuestionID: uuid.New().String(), SelectedOption: intPtr(0)}},
	}
	if err := svc.Autosave(ctx, exam.ID, student, req); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted via session flag, got %v", err)
	}

	// The result row alone is also enough to block a save.
	other := uuid.New()
	if _, err := svc.StartOrRestore(ctx, exam.ID, other, model.DepartmentScience); err != nil {
		t.Fatal(err)
	}
	if err := results.Create(ctx, &model.Result{UserID: other, ExamID: exam.ID}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Autosave(ctx, exam.ID, other, req); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted via result guard, got %v", err)
	}
}
