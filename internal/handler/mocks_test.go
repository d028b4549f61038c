package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/stemsi/exam-portal/internal/middleware"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/service"
	"github.com/stemsi/exam-portal/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// asUser stands in for the auth middleware chain.
func asUser(claims *service.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, claims)
		c.Next()
	}
}

var (
	teacherClaims = &service.Claims{UserID: 1, ProfileID: 10, Username: "t.newton", Role: model.RoleTeacher}
	studentClaims = &service.Claims{UserID: 7, ProfileID: 70, Username: "s.curie", Role: model.RoleStudent, CourseID: ptr(int64(1))}
)

func ptr[T any](v T) *T { return &v }

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuth) ValidateToken(tokenStr string) (*service.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *mockAuth) ValidateSession(ctx context.Context, userID int64, jti string) error {
	return m.Called(ctx, userID, jti).Error(0)
}

type mockAuthoring struct{ mock.Mock }

func (m *mockAuthoring) CreateExam(ctx context.Context, id service.Identity, req model.CreateExamRequest) (*model.Exam, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Exam), args.Error(1)
}

func (m *mockAuthoring) GetForAuthor(ctx context.Context, id service.Identity, examID int64) (*service.ExamDetail, error) {
	args := m.Called(ctx, id, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExamDetail), args.Error(1)
}

func (m *mockAuthoring) AddQuestion(ctx context.Context, id service.Identity, examID int64, req model.AddQuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, id, examID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) ExamForm(ctx context.Context) (*service.ExamForm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExamForm), args.Error(1)
}

type mockAttempts struct{ mock.Mock }

func (m *mockAttempts) BeginAttempt(ctx context.Context, id service.Identity, examID int64) (*service.AttemptView, error) {
	args := m.Called(ctx, id, examID)
	view, _ := args.Get(0).(*service.AttemptView)
	return view, args.Error(1)
}

func (m *mockAttempts) SubmitAttempt(ctx context.Context, id service.Identity, examID int64, answers map[int64]string) (*service.SubmitOutcome, error) {
	args := m.Called(ctx, id, examID, answers)
	out, _ := args.Get(0).(*service.SubmitOutcome)
	return out, args.Error(1)
}

type mockReporter struct{ mock.Mock }

func (m *mockReporter) TeacherDashboard(ctx context.Context, id service.Identity) (*service.TeacherDashboard, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*service.TeacherDashboard)
	return out, args.Error(1)
}

func (m *mockReporter) ExamResults(ctx context.Context, id service.Identity, examID int64) (*service.ExamResults, error) {
	args := m.Called(ctx, id, examID)
	out, _ := args.Get(0).(*service.ExamResults)
	return out, args.Error(1)
}

func (m *mockReporter) TeacherStudents(ctx context.Context, id service.Identity) ([]model.StudentListing, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).([]model.StudentListing)
	return out, args.Error(1)
}

func (m *mockReporter) StudentDashboard(ctx context.Context, id service.Identity) (*service.StudentDashboard, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*service.StudentDashboard)
	return out, args.Error(1)
}

func (m *mockReporter) StudentHistory(ctx context.Context, id service.Identity) (*service.StudentHistory, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*service.StudentHistory)
	return out, args.Error(1)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) ExportExamResults(ctx context.Context, id service.Identity, examID int64, w io.Writer) (string, error) {
	args := m.Called(ctx, id, examID, w)
	return args.String(0), args.Error(1)
}
