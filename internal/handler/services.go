package handler

import (
	"context"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/service"
)

// The interfaces below are implemented by the services in package service.

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, userID int64) error
	ValidateToken(tokenStr string) (*service.Claims, error)
	ValidateSession(ctx context.Context, userID int64, jti string) error
}

type ExamAuthoring interface {
	CreateExam(ctx context.Context, id service.Identity, req model.CreateExamRequest) (*model.Exam, error)
	GetForAuthor(ctx context.Context, id service.Identity, examID int64) (*service.ExamDetail, error)
	AddQuestion(ctx context.Context, id service.Identity, examID int64, req model.AddQuestionRequest) (*model.Question, error)
}

type Directory interface {
	ExamForm(ctx context.Context) (*service.ExamForm, error)
}

type AttemptRunner interface {
	BeginAttempt(ctx context.Context, id service.Identity, examID int64) (*service.AttemptView, error)
	SubmitAttempt(ctx context.Context, id service.Identity, examID int64, answers map[int64]string) (*service.SubmitOutcome, error)
}

type Reporter interface {
	TeacherDashboard(ctx context.Context, id service.Identity) (*service.TeacherDashboard, error)
	ExamResults(ctx context.Context, id service.Identity, examID int64) (*service.ExamResults, error)
	TeacherStudents(ctx context.Context, id service.Identity) ([]model.StudentListing, error)
	StudentDashboard(ctx context.Context, id service.Identity) (*service.StudentDashboard, error)
	StudentHistory(ctx context.Context, id service.Identity) (*service.StudentHistory, error)
}

type Exporter interface {
	ExportExamResults(ctx context.Context, id service.Identity, examID int64, w io.Writer) (string, error)
}

type FeedSubscriber interface {
	Subscribe(ctx context.Context, examID int64) *redis.PubSub
}
