package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

func intPtr(n int) *int { return &n }

func makeQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			Text:          "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: i % 4,
		}
	}
	return questions
}

func TestGradeExamTwoOfThreeCorrect(t *testing.T) {
	questions := makeQuestions(3)
	exam := &model.Exam{ID: uuid.New(), TotalQuestions: 3}

	answers := model.AnswerMap{
		questions[0].ID.String(): intPtr(questions[0].CorrectOption),
		questions[1].ID.String(): intPtr(questions[1].CorrectOption),
		questions[2].ID.String(): intPtr((questions[2].CorrectOption + 1) % 4),
	}

	records, stats := GradeExam(exam, questions, answers)

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if stats.Correct != 2 || stats.Wrong != 1 || stats.Unanswered != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Percentage != 66.67 {
		t.Fatalf("expected percentage 66.67, got %v", stats.Percentage)
	}
}

func TestGradeExamUnansweredCountsAsWrong(t *testing.T) {
	questions := makeQuestions(4)
	exam := &model.Exam{ID: uuid.New(), TotalQuestions: 4}

	// One correct, one explicit null, one wrong, one missing entirely.
	answers := model.AnswerMap{
		questions[0].ID.String(): intPtr(questions[0].CorrectOption),
		questions[1].ID.String(): nil,
		questions[2].ID.String(): intPtr((questions[2].CorrectOption + 2) % 4),
	}

	records, stats := GradeExam(exam, questions, answers)

	if stats.Correct != 1 || stats.Wrong != 1 || stats.Unanswered != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Percentage != 25 {
		t.Fatalf("expected percentage 25, got %v", stats.Percentage)
	}

	// Every question yields a record; unanswered ones carry a nil selection
	// and are never correct.
	byID := make(map[uuid.UUID]model.AnswerRecord, len(records))
	for _, r := range records {
		byID[r.QuestionID] = r
	}
	for _, qid := range []uuid.UUID{questions[1].ID, questions[3].ID} {
		rec, ok := byID[qid]
		if !ok {
			t.Fatalf("missing record for question %s", qid)
		}
		if rec.SelectedOption != nil {
			t.Fatalf("expected nil selection for unanswered question, got %v", *rec.SelectedOption)
		}
		if rec.IsCorrect {
			t.Fatal("unanswered question graded as correct")
		}
	}
}

func TestGradeExamEmptyAnswers(t *testing.T) {
	questions := makeQuestions(5)
	exam := &model.Exam{ID: uuid.New(), TotalQuestions: 5}

	records, stats := GradeExam(exam, questions, model.AnswerMap{})

	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if stats.Unanswered != 5 || stats.Correct != 0 || stats.Percentage != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGradeExamPercentageUsesExamTotal(t *testing.T) {
	// The exam claims 4 questions but only 2 remain in the bank. The divisor
	// stays the exam's denormalized total.
	questions := makeQuestions(2)
	exam := &model.Exam{ID: uuid.New(), TotalQuestions: 4}

	answers := model.AnswerMap{
		questions[0].ID.String(): intPtr(questions[0].CorrectOption),
		questions[1].ID.String(): intPtr(questions[1].CorrectOption),
	}

	_, stats := GradeExam(exam, questions, answers)

	if stats.Percentage != 50 {
		t.Fatalf("expected percentage 50, got %v", stats.Percentage)
	}
}
