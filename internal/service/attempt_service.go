package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/metrics"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
)

// AttemptView is what a student sees when opening an exam.
// Questions are omitted once the attempt is submitted.
type AttemptView struct {
	Exam      *model.Exam                `json:"exam"`
	Attempt   *model.Attempt             `json:"attempt"`
	State     model.AttemptState         `json:"state"`
	Questions []model.QuestionForStudent `json:"questions,omitempty"`
}

// SubmitOutcome reports the graded result of a submission.
type SubmitOutcome struct {
	Attempt *model.Attempt `json:"attempt"`
	Result  *model.Result  `json:"result"`
	Matched int            `json:"matched"`
	Total   int            `json:"total"`
	Score   float64        `json:"score"`
}

// AttemptService runs the attempt lifecycle: get-or-create, scoring and the
// one-way transition to submitted.
type AttemptService struct {
	exams     ExamStore
	questions QuestionStore
	attempts  AttemptStore
	feed      SubmissionPublisher
	log       zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	exams ExamStore,
	questions QuestionStore,
	attempts AttemptStore,
	feed SubmissionPublisher,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		exams:     exams,
		questions: questions,
		attempts:  attempts,
		feed:      feed,
		log:       log.With().Str("component", "attempt_service").Logger(),
	}
}

// BeginAttempt opens the caller's attempt at an exam, creating it on first access.
// For an attempt that was already submitted the view is returned together with
// ErrAlreadySubmitted.
func (s *AttemptService) BeginAttempt(ctx context.Context, id Identity, examID int64) (*AttemptView, error) {
	exam, attempt, questions, err := s.begin(ctx, id, examID)
	if err != nil && !errors.Is(err, ErrAlreadySubmitted) {
		return nil, err
	}

	view := &AttemptView{Exam: exam, Attempt: attempt, State: attempt.State()}
	if err != nil {
		return view, err
	}

	view.Questions = make([]model.QuestionForStudent, len(questions))
	for i := range questions {
		view.Questions[i] = questions[i].ForStudent()
	}
	return view, nil
}

// SubmitAttempt grades answers and locks the attempt. A second submission
// fails with ErrAlreadySubmitted and leaves the stored score untouched.
func (s *AttemptService) SubmitAttempt(ctx context.Context, id Identity, examID int64, answers map[int64]string) (*SubmitOutcome, error) {
	_, attempt, questions, err := s.begin(ctx, id, examID)
	if err != nil {
		s.countRejected(err)
		return nil, err
	}

	matched, total, score := Score(questions, answers)

	res, err := s.attempts.Submit(ctx, attempt, id.ProfileID, score)
	if err != nil {
		if errors.Is(err, repository.ErrNotUpdated) {
			metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeAlreadySubmitted).Inc()
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("submit attempt: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	metrics.ScoreHistogram.Observe(score)

	s.log.Info().
		Int64("exam_id", examID).
		Int64("student_id", id.UserID).
		Int("matched", matched).
		Int("total", total).
		Float64("score", score).
		Msg("Attempt submitted")

	ev := model.SubmissionEvent{
		ExamID:    examID,
		AttemptID: attempt.ID,
		StudentID: id.UserID,
		Username:  id.Username,
		Score:     score,
	}
	if attempt.SubmittedAt != nil {
		ev.SubmittedAt = *attempt.SubmittedAt
	}
	if err := s.feed.PublishSubmission(ctx, ev); err != nil {
		s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Publish submission event failed")
	}

	return &SubmitOutcome{
		Attempt: attempt,
		Result:  res,
		Matched: matched,
		Total:   total,
		Score:   score,
	}, nil
}

// begin performs the checks shared by opening and submitting, in order:
// exam exists, caller is enrolled in its course, exam has questions.
func (s *AttemptService) begin(ctx context.Context, id Identity, examID int64) (*model.Exam, *model.Attempt, []model.Question, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("get exam: %w", err)
	}

	if !id.InCourse(exam.CourseID) {
		return nil, nil, nil, ErrAccessDenied
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil, nil, ErrNotReady
	}

	attempt, err := s.getOrCreate(ctx, id.UserID, examID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !attempt.IsActiveNow() {
		return exam, attempt, nil, ErrAlreadySubmitted
	}
	return exam, attempt, questions, nil
}

func (s *AttemptService) getOrCreate(ctx context.Context, studentID, examID int64) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByStudentAndExam(ctx, studentID, examID)
	if err == nil {
		return attempt, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	attempt = &model.Attempt{StudentID: studentID, ExamID: examID}
	err = s.attempts.Create(ctx, attempt)
	if err == nil {
		metrics.AttemptsStarted.Inc()
		return attempt, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	// Lost the race to a concurrent request; the winner's row is the attempt.
	attempt, err = s.attempts.GetByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("%w: attempt for student %d exam %d: %v", ErrConstraintViolation, studentID, examID, err)
	}
	return attempt, nil
}

func (s *AttemptService) countRejected(err error) {
	outcome := metrics.OutcomeRejected
	if errors.Is(err, ErrAlreadySubmitted) {
		outcome = metrics.OutcomeAlreadySubmitted
	}
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
}
