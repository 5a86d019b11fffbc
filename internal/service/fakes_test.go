package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
)

// In-memory stores backing the service tests.

type fakeExamStore struct {
	mu    sync.Mutex
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore(exams ...*model.Exam) *fakeExamStore {
	s := &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
	for _, e := range exams {
		s.exams[e.ID] = e
	}
	return s
}

func (s *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (s *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	s.exams[e.ID] = &cp
	return nil
}

func (s *fakeExamStore) Update(_ context.Context, e *model.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	s.exams[e.ID] = &cp
	return nil
}

func (s *fakeExamStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exams[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.IsActive = active
	return nil
}

func (s *fakeExamStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.exams, id)
	return nil
}

func (s *fakeExamStore) ListActiveByDepartment(_ context.Context, department model.Department) ([]model.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Exam
	for _, e := range s.exams {
		if e.IsActive && e.Department == department {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeExamStore) List(_ context.Context, limit, offset int) ([]model.Exam, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Exam
	for _, e := range s.exams {
		out = append(out, *e)
	}
	return out, len(out), nil
}

type sessionKey struct {
	examID    uuid.UUID
	studentID uuid.UUID
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[sessionKey]*model.ExamSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[sessionKey]*model.ExamSession)}
}

func (s *fakeSessionStore) GetByExamAndStudent(_ context.Context, examID, studentID uuid.UUID) (*model.ExamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{examID, studentID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *sess
	cp.Answers = cloneAnswers(sess.Answers)
	return &cp, nil
}

func (s *fakeSessionStore) Create(_ context.Context, sess *model.ExamSession) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{sess.ExamID, sess.StudentID}
	if _, ok := s.sessions[key]; ok {
		return false, nil
	}
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	cp := *sess
	cp.Answers = cloneAnswers(sess.Answers)
	s.sessions[key] = &cp
	return true, nil
}

func (s *fakeSessionStore) ReplaceAnswers(_ context.Context, examID, studentID uuid.UUID, answers model.AnswerMap) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{examID, studentID}]
	if !ok || sess.IsSubmitted {
		return false, nil
	}
	sess.Answers = cloneAnswers(answers)
	return true, nil
}

func (s *fakeSessionStore) MarkSubmitted(_ context.Context, examID, studentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionKey{examID, studentID}]; ok {
		sess.IsSubmitted = true
	}
	return nil
}

func (s *fakeSessionStore) CountByExam(_ context.Context, examID uuid.UUID) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inProgress, submitted int
	for key, sess := range s.sessions {
		if key.examID != examID {
			continue
		}
		if sess.IsSubmitted {
			submitted++
		} else {
			inProgress++
		}
	}
	return inProgress, submitted, nil
}

func cloneAnswers(in model.AnswerMap) model.AnswerMap {
	out := make(model.AnswerMap, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = nil
			continue
		}
		n := *v
		out[k] = &n
	}
	return out
}

type fakeResultStore struct {
	mu      sync.Mutex
	results []*model.Result
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{}
}

func (s *fakeResultStore) GetByID(_ context.Context, id uuid.UUID) (*model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeResultStore) Create(_ context.Context, res *model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = uuid.New()
	cp := *res
	s.results = append(s.results, &cp)
	return nil
}

func (s *fakeResultStore) ExistsForUserExam(_ context.Context, userID, examID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.UserID == userID && r.ExamID == examID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeResultStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Result
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeResultStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.ResultWithStudent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ResultWithStudent
	for _, r := range s.results {
		if r.ExamID == examID {
			out = append(out, model.ResultWithStudent{
				ResultID:   r.ID,
				UserID:     r.UserID,
				Score:      r.Score,
				Percentage: r.Percentage,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out, nil
}

func (s *fakeResultStore) AggregateByExam(_ context.Context, examID uuid.UUID, passingScore float64) (*model.ExamStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.ExamStats{ExamID: examID}
	var sum, passed float64
	for _, r := range s.results {
		if r.ExamID != examID {
			continue
		}
		stats.Participants++
		sum += r.Percentage
		if r.Percentage >= passingScore {
			passed++
		}
		if r.Percentage > stats.HighestScore {
			stats.HighestScore = r.Percentage
		}
		if stats.LowestScore == 0 || r.Percentage < stats.LowestScore {
			stats.LowestScore = r.Percentage
		}
	}
	if stats.Participants > 0 {
		stats.AverageScore = sum / float64(stats.Participants)
		stats.PassRate = passed / float64(stats.Participants) * 100
	}
	return stats, nil
}

type fakeQuestionStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Question
	byExam  map[uuid.UUID][]uuid.UUID
	created []model.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		byID:   make(map[uuid.UUID]*model.Question),
		byExam: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *fakeQuestionStore) addForExam(examID uuid.UUID, questions ...model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range questions {
		q := questions[i]
		s.byID[q.ID] = &q
		s.byExam[examID] = append(s.byExam[examID], q.ID)
	}
}

func (s *fakeQuestionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (s *fakeQuestionStore) Create(_ context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = uuid.New()
	cp := *q
	s.byID[q.ID] = &cp
	s.created = append(s.created, cp)
	return nil
}

func (s *fakeQuestionStore) CreateBatch(_ context.Context, questions []model.Question) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range questions {
		questions[i].ID = uuid.New()
		s.byID[questions[i].ID] = &questions[i]
		s.created = append(s.created, questions[i])
	}
	return len(questions), nil
}

func (s *fakeQuestionStore) Update(_ context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[q.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *q
	s.byID[q.ID] = &cp
	return nil
}

func (s *fakeQuestionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.byID, id)
	return nil
}

func (s *fakeQuestionStore) List(_ context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Question
	for _, q := range s.byID {
		if filter.Department != "" && string(q.Department) != filter.Department {
			continue
		}
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (s *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Question
	for _, id := range s.byExam[examID] {
		if q, ok := s.byID[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *fakeQuestionStore) CountByIDs(_ context.Context, ids []uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	seen := make(map[uuid.UUID]struct{})
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.byID[id]; ok {
			count++
		}
	}
	return count, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	u.ID = uuid.New()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}
