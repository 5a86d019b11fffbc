package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func optPtr(n int) *int { return &n }

func TestToAnswerMapNormalizesKeyCasing(t *testing.T) {
	id := uuid.New()
	upper := strings.ToUpper(id.String())

	m := ToAnswerMap([]AnswerInput{{QuestionID: upper, SelectedOption: optPtr(2)}})

	got, ok := m[id.String()]
	if !ok {
		t.Fatalf("uppercase key %s was not normalized to %s", upper, id.String())
	}
	if got == nil || *got != 2 {
		t.Fatalf("expected selection 2, got %v", got)
	}
	if _, raw := m[upper]; raw && upper != id.String() {
		t.Fatal("raw uppercase key leaked into the map")
	}
}

func TestToAnswerMapLastDuplicateWins(t *testing.T) {
	id := uuid.New().String()

	m := ToAnswerMap([]AnswerInput{
		{QuestionID: id, SelectedOption: optPtr(0)},
		{QuestionID: strings.ToUpper(id), SelectedOption: optPtr(3)},
	})

	if len(m) != 1 {
		t.Fatalf("expected duplicates to collapse, got %d entries", len(m))
	}
	if got := m[id]; got == nil || *got != 3 {
		t.Fatalf("expected the later write to win with 3, got %v", got)
	}
}

func TestToAnswerMapKeepsExplicitNull(t *testing.T) {
	id := uuid.New().String()

	m := ToAnswerMap([]AnswerInput{{QuestionID: id, SelectedOption: nil}})

	v, ok := m[id]
	if !ok {
		t.Fatal("explicit null entry was dropped")
	}
	if v != nil {
		t.Fatalf("expected nil selection, got %v", *v)
	}
}
