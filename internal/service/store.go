package service

import (
	"context"

	"github.com/stemsi/exam-portal/internal/model"
)

// The interfaces below are satisfied by the concrete types in package repository.

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	EnsureProfile(ctx context.Context, userID int64) (*model.Profile, error)
	CountApprovedStudents(ctx context.Context) (int, error)
	ListStudentsForTeacher(ctx context.Context, teacherID int64) ([]model.StudentListing, error)
}

type CourseStore interface {
	GetAll(ctx context.Context) ([]model.Course, error)
}

type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	GetAll(ctx context.Context) ([]model.Subject, error)
}

type ExamStore interface {
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	Create(ctx context.Context, e *model.Exam) error
	ListByCreator(ctx context.Context, userID int64) ([]model.Exam, error)
	ListActiveByCourse(ctx context.Context, courseID int64) ([]model.Exam, error)
}

type QuestionStore interface {
	ListByExam(ctx context.Context, examID int64) ([]model.Question, error)
	Create(ctx context.Context, q *model.Question) error
}

type AttemptStore interface {
	GetByStudentAndExam(ctx context.Context, studentID, examID int64) (*model.Attempt, error)
	Create(ctx context.Context, a *model.Attempt) error
	Submit(ctx context.Context, a *model.Attempt, profileID int64, score float64) (*model.Result, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.AttemptRecord, error)
	ListByExam(ctx context.Context, examID int64) ([]model.AttemptRecord, error)
	ListSubmittedByCreator(ctx context.Context, userID int64) ([]model.AttemptRecord, error)
	ListResultsByExam(ctx context.Context, examID int64) ([]model.Result, error)
}
