package model

import "time"

// Subject belongs to exactly one course.
type Subject struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CourseID   int64     `json:"course_id"`
	CourseName string    `json:"course_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
