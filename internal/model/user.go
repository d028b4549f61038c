package model

import "time"

// Role distinguishes teachers from students.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is an account that can log in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile carries the portal-specific attributes of a user.
type Profile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Role       Role      `json:"role"`
	Approved   bool      `json:"approved"`
	RollNumber *string   `json:"roll_number,omitempty"`
	CourseID   *int64    `json:"course_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentListing is a student row as shown to teachers.
type StudentListing struct {
	ProfileID  int64   `json:"profile_id"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	RollNumber *string `json:"roll_number,omitempty"`
	CourseID   int64   `json:"course_id"`
	CourseName string  `json:"course_name"`
}

// LoginRequest is the payload for password authentication.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=150"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}
