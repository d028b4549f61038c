package model

import "time"

// Exam is a multiple-choice exam scoped to a subject and its course.
type Exam struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	SubjectID       int64      `json:"subject_id"`
	SubjectName     string     `json:"subject_name,omitempty"`
	CourseID        int64      `json:"course_id"`
	CreatedBy       int64      `json:"created_by"`
	IsActive        bool       `json:"is_active"`
	AllowCalculator bool       `json:"allow_calculator"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	QuestionCount   int        `json:"question_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateExamRequest is the payload for creating a new exam.
// Start and end times are optional and not required to be ordered.
type CreateExamRequest struct {
	Name            string     `json:"name" form:"name" binding:"required,notblank,max=200"`
	SubjectID       int64      `json:"subject_id" form:"subject" binding:"required,min=1"`
	AllowCalculator bool       `json:"allow_calculator" form:"allow_calculator"`
	StartTime       *time.Time `json:"start_time" form:"start_time" time_format:"2006-01-02T15:04" binding:"omitempty"`
	EndTime         *time.Time `json:"end_time" form:"end_time" time_format:"2006-01-02T15:04" binding:"omitempty"`
}
