package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
)

// ─── Users ──────────────────────────────────────────────────────────

type memUsers struct {
	mu       sync.Mutex
	users    map[string]*model.User
	profiles map[int64]*model.Profile
	students []model.StudentListing
	approved int
	nextID   int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*model.User{}, profiles: map[int64]*model.Profile{}, nextID: 100}
}

func (m *memUsers) add(u *model.User, p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = u
	if p != nil {
		p.UserID = u.ID
		m.profiles[u.ID] = p
	}
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) EnsureProfile(_ context.Context, userID int64) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		m.nextID++
		p = &model.Profile{ID: m.nextID, UserID: userID, Role: model.RoleStudent, Approved: true}
		m.profiles[userID] = p
	}
	cp := *p
	return &cp, nil
}

func (m *memUsers) CountApprovedStudents(context.Context) (int, error) {
	return m.approved, nil
}

func (m *memUsers) ListStudentsForTeacher(context.Context, int64) ([]model.StudentListing, error) {
	return m.students, nil
}

// ─── Directory ──────────────────────────────────────────────────────

type memSubjects struct {
	subjects map[int64]model.Subject
}

func (m *memSubjects) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memSubjects) GetAll(context.Context) ([]model.Subject, error) {
	out := make([]model.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memCourses struct {
	courses []model.Course
}

func (m *memCourses) GetAll(context.Context) ([]model.Course, error) {
	return m.courses, nil
}

// ─── Exams & questions ──────────────────────────────────────────────

type memExams struct {
	mu     sync.Mutex
	exams  map[int64]*model.Exam
	nextID int64
}

func newMemExams() *memExams {
	return &memExams{exams: map[int64]*model.Exam{}}
}

func (m *memExams) GetByID(_ context.Context, id int64) (*model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memExams) Create(_ context.Context, e *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m *memExams) ListByCreator(_ context.Context, userID int64) ([]model.Exam, error) {
	return m.filter(func(e *model.Exam) bool { return e.CreatedBy == userID }), nil
}

func (m *memExams) ListActiveByCourse(_ context.Context, courseID int64) ([]model.Exam, error) {
	return m.filter(func(e *model.Exam) bool { return e.CourseID == courseID && e.IsActive }), nil
}

func (m *memExams) filter(keep func(*model.Exam) bool) []model.Exam {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Exam
	for _, e := range m.exams {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

type memQuestions struct {
	mu        sync.Mutex
	questions map[int64][]model.Question
	nextID    int64
}

func newMemQuestions() *memQuestions {
	return &memQuestions{questions: map[int64][]model.Question{}}
}

func (m *memQuestions) ListByExam(_ context.Context, examID int64) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Question(nil), m.questions[examID]...), nil
}

func (m *memQuestions) Create(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	q.ID = m.nextID
	m.questions[q.ExamID] = append(m.questions[q.ExamID], *q)
	return nil
}

// ─── Attempts ───────────────────────────────────────────────────────

type attemptKey struct{ student, exam int64 }

// memAttempts enforces the (student, exam) uniqueness the database provides.
type memAttempts struct {
	mu        sync.Mutex
	rows      map[attemptKey]*model.Attempt
	results   []model.Result
	usernames map[int64]string
	nextID    int64
	creates   int

	// beforeCreate runs inside Create before the uniqueness check.
	beforeCreate func(a *model.Attempt)
	// hideRows makes reads miss every row.
	hideRows bool
}

func newMemAttempts() *memAttempts {
	return &memAttempts{rows: map[attemptKey]*model.Attempt{}, usernames: map[int64]string{}}
}

func (m *memAttempts) GetByStudentAndExam(_ context.Context, studentID, examID int64) (*model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[attemptKey{studentID, examID}]
	if !ok || m.hideRows {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAttempts) Create(_ context.Context, a *model.Attempt) error {
	if m.beforeCreate != nil {
		m.beforeCreate(a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := attemptKey{a.StudentID, a.ExamID}
	if _, ok := m.rows[k]; ok {
		return repository.ErrDuplicate
	}
	m.nextID++
	m.creates++
	a.ID = m.nextID
	a.StartedAt = time.Now()
	cp := *a
	m.rows[k] = &cp
	return nil
}

// insert stores a row directly, bypassing Create accounting.
func (m *memAttempts) insert(a model.Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.rows[attemptKey{a.StudentID, a.ExamID}] = &a
}

func (m *memAttempts) Submit(_ context.Context, a *model.Attempt, profileID int64, score float64) (*model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[attemptKey{a.StudentID, a.ExamID}]
	if !ok || row.IsSubmitted {
		return nil, repository.ErrNotUpdated
	}
	now := time.Now()
	row.Score = &score
	row.IsSubmitted = true
	row.SubmittedAt = &now

	res := model.Result{ID: int64(len(m.results) + 1), ProfileID: profileID, ExamID: a.ExamID, Score: score, AttemptedOn: now}
	m.results = append(m.results, res)

	*a = *row
	return &res, nil
}

func (m *memAttempts) records(keep func(*model.Attempt) bool) []model.AttemptRecord {
	var out []model.AttemptRecord
	for _, a := range m.rows {
		if keep(a) {
			out = append(out, model.AttemptRecord{Attempt: *a, Username: m.usernames[a.StudentID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memAttempts) ListByStudent(_ context.Context, studentID int64) ([]model.AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.records(func(a *model.Attempt) bool { return a.StudentID == studentID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memAttempts) ListByExam(_ context.Context, examID int64) ([]model.AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records(func(a *model.Attempt) bool { return a.ExamID == examID }), nil
}

// ListSubmittedByCreator treats every submitted row as belonging to the caller.
func (m *memAttempts) ListSubmittedByCreator(context.Context, int64) ([]model.AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records(func(a *model.Attempt) bool { return a.IsSubmitted }), nil
}

func (m *memAttempts) ListResultsByExam(_ context.Context, examID int64) ([]model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Result
	for _, r := range m.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ─── Publisher ──────────────────────────────────────────────────────

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSubmission(ctx context.Context, ev model.SubmissionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
