package model

import "time"

// Result is the append-only audit record written at submission time.
type Result struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	ExamID      int64     `json:"exam_id"`
	Username    string    `json:"username,omitempty"`
	Score       float64   `json:"score"`
	AttemptedOn time.Time `json:"attempted_on"`
}
