package model

import "time"

// AttemptState enumerates the lifecycle of one student's attempt at one exam.
type AttemptState string

const (
	AttemptStateNotStarted AttemptState = "NOT_STARTED"
	AttemptStateInProgress AttemptState = "IN_PROGRESS"
	AttemptStateSubmitted  AttemptState = "SUBMITTED"
)

// Attempt is the single try a student gets at an exam.
// At most one exists per (student, exam); once submitted it never changes.
type Attempt struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	ExamID      int64      `json:"exam_id"`
	Score       *float64   `json:"score"`
	IsSubmitted bool       `json:"is_submitted"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// IsActiveNow reports whether the attempt still accepts a submission.
// Exam time windows are not enforced.
func (a *Attempt) IsActiveNow() bool {
	return !a.IsSubmitted
}

// State derives the lifecycle state. A nil attempt has not been started.
func (a *Attempt) State() AttemptState {
	switch {
	case a == nil:
		return AttemptStateNotStarted
	case a.IsSubmitted:
		return AttemptStateSubmitted
	default:
		return AttemptStateInProgress
	}
}

// AttemptRecord is an attempt joined with display data for listings.
type AttemptRecord struct {
	Attempt
	ExamName    string `json:"exam_name"`
	SubjectName string `json:"subject_name"`
	Username    string `json:"username"`
}

// SubmitAnswersRequest maps question IDs to the selected option slot.
type SubmitAnswersRequest struct {
	Answers map[int64]string `json:"answers"`
}

// SubmissionEvent is broadcast to teachers watching an exam's results.
type SubmissionEvent struct {
	ExamID      int64     `json:"exam_id"`
	AttemptID   int64     `json:"attempt_id"`
	StudentID   int64     `json:"student_id"`
	Username    string    `json:"username"`
	Score       float64   `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}
