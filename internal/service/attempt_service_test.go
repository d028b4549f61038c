package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/exam-portal/internal/model"
)

const (
	examReady   int64 = 10
	examEmpty   int64 = 11
	examForeign int64 = 12
)

type attemptFixture struct {
	svc       *AttemptService
	exams     *memExams
	questions *memQuestions
	attempts  *memAttempts
	feed      *mockPublisher
	student   Identity
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()
	course := int64(1)

	exams := newMemExams()
	exams.exams[examReady] = &model.Exam{ID: examReady, Name: "Midterm", CourseID: 1, CreatedBy: 1, IsActive: true}
	exams.exams[examEmpty] = &model.Exam{ID: examEmpty, Name: "Draft", CourseID: 1, CreatedBy: 1, IsActive: true}
	exams.exams[examForeign] = &model.Exam{ID: examForeign, Name: "Other", CourseID: 2, CreatedBy: 1, IsActive: true}

	questions := newMemQuestions()
	for _, slot := range []model.OptionSlot{model.Option1, model.Option2, model.Option1, model.Option3} {
		third := "c"
		require.NoError(t, questions.Create(context.Background(), &model.Question{
			ExamID: examReady, QuestionText: "q", Option1: "a", Option2: "b", Option3: &third, CorrectOption: slot,
		}))
	}
	require.NoError(t, questions.Create(context.Background(), &model.Question{
		ExamID: examForeign, QuestionText: "q", Option1: "a", Option2: "b", CorrectOption: model.Option1,
	}))

	attempts := newMemAttempts()
	feed := &mockPublisher{}

	return &attemptFixture{
		svc:       NewAttemptService(exams, questions, attempts, feed, zerolog.Nop()),
		exams:     exams,
		questions: questions,
		attempts:  attempts,
		feed:      feed,
		student:   Identity{UserID: 7, ProfileID: 70, Username: "s.curie", Role: model.RoleStudent, CourseID: &course},
	}
}

// answersFor maps the ready exam's question IDs, in order, to slots.
func (f *attemptFixture) answersFor(t *testing.T, slots ...string) map[int64]string {
	t.Helper()
	qs, err := f.questions.ListByExam(context.Background(), examReady)
	require.NoError(t, err)
	out := make(map[int64]string, len(slots))
	for i, s := range slots {
		out[qs[i].ID] = s
	}
	return out
}

func TestBeginAttempt_CreatesOnce(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	first, err := f.svc.BeginAttempt(ctx, f.student, examReady)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStateInProgress, first.State)
	assert.Len(t, first.Questions, 4)
	assert.Len(t, first.Questions[0].Options, 3)

	second, err := f.svc.BeginAttempt(ctx, f.student, examReady)
	require.NoError(t, err)
	assert.Equal(t, first.Attempt.ID, second.Attempt.ID)
	assert.Equal(t, 1, f.attempts.creates)
}

func TestBeginAttempt_Rejections(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	t.Run("missing exam", func(t *testing.T) {
		_, err := f.svc.BeginAttempt(ctx, f.student, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other course", func(t *testing.T) {
		_, err := f.svc.BeginAttempt(ctx, f.student, examForeign)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("no course", func(t *testing.T) {
		id := f.student
		id.CourseID = nil
		_, err := f.svc.BeginAttempt(ctx, id, examReady)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("no questions", func(t *testing.T) {
		_, err := f.svc.BeginAttempt(ctx, f.student, examEmpty)
		assert.ErrorIs(t, err, ErrNotReady)
	})

	assert.Zero(t, f.attempts.creates)
}

func TestBeginAttempt_LostRaceReturnsWinner(t *testing.T) {
	f := newAttemptFixture(t)
	f.attempts.beforeCreate = func(a *model.Attempt) {
		f.attempts.beforeCreate = nil
		f.attempts.insert(model.Attempt{StudentID: a.StudentID, ExamID: a.ExamID})
	}

	view, err := f.svc.BeginAttempt(context.Background(), f.student, examReady)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.Attempt.ID)
	assert.Zero(t, f.attempts.creates)
}

func TestBeginAttempt_UnreadableConflict(t *testing.T) {
	f := newAttemptFixture(t)
	f.attempts.insert(model.Attempt{StudentID: f.student.UserID, ExamID: examReady})
	f.attempts.hideRows = true

	_, err := f.svc.BeginAttempt(context.Background(), f.student, examReady)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestSubmitAttempt_ScoresAndLocks(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()
	f.feed.On("PublishSubmission", mock.Anything, mock.MatchedBy(func(ev model.SubmissionEvent) bool {
		return ev.ExamID == examReady && ev.StudentID == 7 && ev.Score == 75.0 && !ev.SubmittedAt.IsZero()
	})).Return(nil).Once()

	out, err := f.svc.SubmitAttempt(ctx, f.student, examReady, f.answersFor(t, "option1", "option2", "option2", "option3"))
	require.NoError(t, err)
	assert.Equal(t, 3, out.Matched)
	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 75.0, out.Score)
	assert.Equal(t, int64(70), out.Result.ProfileID)
	assert.True(t, out.Attempt.IsSubmitted)

	_, err = f.svc.SubmitAttempt(ctx, f.student, examReady, f.answersFor(t, "option1", "option2", "option1", "option3"))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	stored, err := f.attempts.GetByStudentAndExam(ctx, f.student.UserID, examReady)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 75.0, *stored.Score)
	assert.Len(t, f.attempts.results, 1)

	view, err := f.svc.BeginAttempt(ctx, f.student, examReady)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	require.NotNil(t, view)
	assert.Equal(t, model.AttemptStateSubmitted, view.State)
	assert.Empty(t, view.Questions)

	f.feed.AssertExpectations(t)
}

func TestSubmitAttempt_PublishFailureIsNotFatal(t *testing.T) {
	f := newAttemptFixture(t)
	f.feed.On("PublishSubmission", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	out, err := f.svc.SubmitAttempt(context.Background(), f.student, examReady, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Score)
}

func TestSubmitAttempt_ConcurrentSubmitsAcceptOne(t *testing.T) {
	f := newAttemptFixture(t)
	f.feed.On("PublishSubmission", mock.Anything, mock.Anything).Return(nil)
	answers := f.answersFor(t, "option1")

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.SubmitAttempt(context.Background(), f.student, examReady, answers)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadySubmitted)
	}
	assert.Equal(t, 1, accepted)
	assert.Len(t, f.attempts.rows, 1)
	assert.Len(t, f.attempts.results, 1)
	f.feed.AssertNumberOfCalls(t, "PublishSubmission", 1)
}

func TestSubmitAttempt_RejectedBeforeScoring(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.SubmitAttempt(context.Background(), f.student, examEmpty, map[int64]string{1: "option1"})
	assert.ErrorIs(t, err, ErrNotReady)
	f.feed.AssertNotCalled(t, "PublishSubmission", mock.Anything, mock.Anything)
}
