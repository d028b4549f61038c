package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
	"github.com/stemsi/exam-portal/internal/stats"
)

// ReportOptions tunes the aggregated figures.
type ReportOptions struct {
	PassThreshold float64
	TopPerformers int
}

// TeacherDashboard is the teacher landing page.
type TeacherDashboard struct {
	Exams             []model.Exam  `json:"exams"`
	TotalStudents     int           `json:"total_students"`
	CompletedAttempts int           `json:"completed_attempts"`
	AverageScore      float64       `json:"average_score"`
	PassRate          float64       `json:"pass_rate"`
	TopPerformers     []stats.Entry `json:"top_performers"`
}

// ExamResults is the per-exam results page.
type ExamResults struct {
	Exam     *model.Exam           `json:"exam"`
	Attempts []model.AttemptRecord `json:"attempts"`
	Results  []model.Result        `json:"results"`
	Summary  stats.Summary         `json:"summary"`
}

// StudentExam is an exam on the student dashboard with the caller's progress.
type StudentExam struct {
	model.Exam
	State model.AttemptState `json:"state"`
	Score *float64           `json:"score,omitempty"`
}

// StudentDashboard is the student landing page.
type StudentDashboard struct {
	Exams          []StudentExam `json:"exams"`
	CompletedCount int           `json:"completed_count"`
	AverageScore   float64       `json:"average_score"`
	PendingCount   int           `json:"pending_count"`
}

// StudentHistory lists the caller's attempts with personal figures.
type StudentHistory struct {
	Records       []model.AttemptRecord `json:"records"`
	AverageScore  float64               `json:"average_score"`
	HighestScore  float64               `json:"highest_score"`
	PassingCount  int                   `json:"passing_count"`
	PassThreshold float64               `json:"pass_threshold"`
}

// ReportService builds the read models behind the dashboards.
// Figures are recomputed from stored attempts on every call.
type ReportService struct {
	users    UserStore
	exams    ExamStore
	attempts AttemptStore
	opts     ReportOptions
}

// NewReportService creates a new ReportService.
func NewReportService(users UserStore, exams ExamStore, attempts AttemptStore, opts ReportOptions) *ReportService {
	if opts.PassThreshold <= 0 {
		opts.PassThreshold = stats.DefaultPassThreshold
	}
	return &ReportService{users: users, exams: exams, attempts: attempts, opts: opts}
}

// TeacherDashboard summarizes the caller's exams and their submitted attempts.
func (s *ReportService) TeacherDashboard(ctx context.Context, id Identity) (*TeacherDashboard, error) {
	exams, err := s.exams.ListByCreator(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	total, err := s.users.CountApprovedStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	completed, err := s.attempts.ListSubmittedByCreator(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list completed attempts: %w", err)
	}

	entries := scoredEntries(completed)
	summary := stats.Summarize(entries, s.opts.PassThreshold, s.opts.TopPerformers)

	if exams == nil {
		exams = []model.Exam{}
	}
	return &TeacherDashboard{
		Exams:             exams,
		TotalStudents:     total,
		CompletedAttempts: len(completed),
		AverageScore:      summary.Average,
		PassRate:          summary.PassRate,
		TopPerformers:     summary.TopPerformers,
	}, nil
}

// ExamResults returns every attempt and result of one of the caller's exams.
func (s *ReportService) ExamResults(ctx context.Context, id Identity, examID int64) (*ExamResults, error) {
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

	attempts, err := s.attempts.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	results, err := s.attempts.ListResultsByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	if attempts == nil {
		attempts = []model.AttemptRecord{}
	}
	if results == nil {
		results = []model.Result{}
	}
	return &ExamResults{
		Exam:     exam,
		Attempts: attempts,
		Results:  results,
		Summary:  stats.Summarize(scoredEntries(attempts), s.opts.PassThreshold, s.opts.TopPerformers),
	}, nil
}

// TeacherStudents lists the students of the caller's courses.
func (s *ReportService) TeacherStudents(ctx context.Context, id Identity) ([]model.StudentListing, error) {
	students, err := s.users.ListStudentsForTeacher(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []model.StudentListing{}
	}
	return students, nil
}

// StudentDashboard lists the active exams of the caller's course.
func (s *ReportService) StudentDashboard(ctx context.Context, id Identity) (*StudentDashboard, error) {
	var exams []model.Exam
	if id.CourseID != nil {
		var err error
		exams, err = s.exams.ListActiveByCourse(ctx, *id.CourseID)
		if err != nil {
			return nil, fmt.Errorf("list exams: %w", err)
		}
	}

	records, err := s.attempts.ListByStudent(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	byExam := make(map[int64]*model.Attempt, len(records))
	for i := range records {
		byExam[records[i].ExamID] = &records[i].Attempt
	}

	out := &StudentDashboard{Exams: make([]StudentExam, 0, len(exams))}
	for _, e := range exams {
		a := byExam[e.ID]
		entry := StudentExam{Exam: e, State: a.State()}
		if a != nil && a.IsSubmitted {
			entry.Score = a.Score
		}
		out.Exams = append(out.Exams, entry)
	}

	scores := submittedScores(records)
	out.CompletedCount = len(scores)
	out.AverageScore = stats.Average(scores)
	out.PendingCount = max(0, len(exams)-out.CompletedCount)
	return out, nil
}

// StudentHistory lists the caller's attempts, newest first.
func (s *ReportService) StudentHistory(ctx context.Context, id Identity) (*StudentHistory, error) {
	records, err := s.attempts.ListByStudent(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if records == nil {
		records = []model.AttemptRecord{}
	}

	scores := submittedScores(records)
	return &StudentHistory{
		Records:       records,
		AverageScore:  stats.Average(scores),
		HighestScore:  stats.Highest(scores),
		PassingCount:  stats.PassingCount(scores, s.opts.PassThreshold),
		PassThreshold: s.opts.PassThreshold,
	}, nil
}

// scoredEntries keeps submitted attempts that carry a score, in attempt id
// order so leaderboard ties resolve the same way whatever order records
// were listed in.
func scoredEntries(records []model.AttemptRecord) []stats.Entry {
	entries := make([]stats.Entry, 0, len(records))
	for _, r := range records {
		if !r.IsSubmitted || r.Score == nil {
			continue
		}
		entries = append(entries, stats.Entry{ID: r.ID, Label: r.Username, Score: *r.Score})
	}
	slices.SortStableFunc(entries, func(a, b stats.Entry) int { return cmp.Compare(a.ID, b.ID) })
	return entries
}

func submittedScores(records []model.AttemptRecord) []float64 {
	return stats.Scores(scoredEntries(records))
}
