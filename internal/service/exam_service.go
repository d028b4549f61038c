package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
)

// ExamDetail is an exam with its questions as its author sees them.
type ExamDetail struct {
	Exam      *model.Exam      `json:"exam"`
	Questions []model.Question `json:"questions"`
}

// ExamService handles exam authoring.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	subjects  SubjectStore
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, questions QuestionStore, subjects SubjectStore, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		subjects:  subjects,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// CreateExam creates an active exam under a subject. The exam's course is
// taken from the subject. Start and end times are stored as given.
func (s *ExamService) CreateExam(ctx context.Context, id Identity, req model.CreateExamRequest) (*model.Exam, error) {
	subject, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	exam := &model.Exam{
		Name:            strings.TrimSpace(req.Name),
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		CourseID:        subject.CourseID,
		CreatedBy:       id.UserID,
		IsActive:        true,
		AllowCalculator: req.AllowCalculator,
		StartTime:       nonZeroTime(req.StartTime),
		EndTime:         nonZeroTime(req.EndTime),
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.log.Info().Int64("exam_id", exam.ID).Int64("created_by", id.UserID).Msg("Exam created")
	return exam, nil
}

// GetForAuthor returns an exam and its questions. Exams created by someone
// else are reported as ErrNotFound.
func (s *ExamService) GetForAuthor(ctx context.Context, id Identity, examID int64) (*ExamDetail, error) {
	exam, err := s.ownedExam(ctx, id, examID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return &ExamDetail{Exam: exam, Questions: questions}, nil
}

// AddQuestion appends a question to one of the caller's exams.
func (s *ExamService) AddQuestion(ctx context.Context, id Identity, examID int64, req model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.ownedExam(ctx, id, examID); err != nil {
		return nil, err
	}

	q := &model.Question{
		ExamID:        examID,
		QuestionText:  strings.TrimSpace(req.QuestionText),
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       optional(req.Option3),
		Option4:       optional(req.Option4),
		CorrectOption: model.OptionSlot(req.CorrectOption),
	}
	if !q.HasOption(q.CorrectOption) {
		return nil, ErrInvalidCorrectOption
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *ExamService) ownedExam(ctx context.Context, id Identity, examID int64) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != id.UserID {
		return nil, ErrNotFound
	}
	return exam, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nonZeroTime drops the zero time an empty form field binds to.
func nonZeroTime(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
