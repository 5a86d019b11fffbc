package service

import (
	"math"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// GradeExam scores an answer map against an exam's question list. Every
// exam question yields exactly one answer record: an unanswered question
// (missing from the map, or present with a nil selection) is recorded with
// a nil selection and counts as wrong. The percentage divides by the exam's
// denormalized total, not by the number of answers received.
func GradeExam(exam *model.Exam, questions []model.Question, answers model.AnswerMap) ([]model.AnswerRecord, *model.SubmissionStats) {
	records := make([]model.AnswerRecord, 0, len(questions))
	stats := &model.SubmissionStats{TotalQuestions: exam.TotalQuestions}

	for _, q := range questions {
		selected := answers[q.ID.String()]
		record := model.AnswerRecord{
			QuestionID:     q.ID,
			SelectedOption: selected,
		}
		switch {
		case selected == nil:
			stats.Unanswered++
		case *selected == q.CorrectOption:
			record.IsCorrect = true
			stats.Correct++
		default:
			stats.Wrong++
		}
		records = append(records, record)
	}

	if exam.TotalQuestions > 0 {
		pct := float64(stats.Correct) / float64(exam.TotalQuestions) * 100
		stats.Percentage = math.Round(pct*100) / 100
	}
	return records, stats
}
