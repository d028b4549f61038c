package service

import "github.com/stemsi/exam-portal/internal/model"

// Identity is the authenticated caller of a request.
// It is built from the session token and passed explicitly to every service call.
type Identity struct {
	UserID    int64
	ProfileID int64
	Username  string
	Role      model.Role
	CourseID  *int64
}

// IsTeacher reports whether the caller holds the teacher role.
func (i Identity) IsTeacher() bool { return i.Role == model.RoleTeacher }

// InCourse reports whether the caller is enrolled in courseID.
// A caller without a course is enrolled nowhere.
func (i Identity) InCourse(courseID int64) bool {
	return i.CourseID != nil && *i.CourseID == courseID
}
