package model

import "time"

// Course groups subjects and scopes which students may see which exams.
type Course struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
