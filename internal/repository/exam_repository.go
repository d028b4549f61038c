package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exam-portal/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `e.id, e.name, e.subject_id, s.name, e.course_id, e.created_by,
	e.is_active, e.allow_calculator, e.start_time, e.end_time,
	(SELECT COUNT(*) FROM questions q WHERE q.exam_id = e.id), e.created_at`

func scanExam(row pgx.Row, e *model.Exam) error {
	return row.Scan(&e.ID, &e.Name, &e.SubjectID, &e.SubjectName, &e.CourseID, &e.CreatedBy,
		&e.IsActive, &e.AllowCalculator, &e.StartTime, &e.EndTime, &e.QuestionCount, &e.CreatedAt)
}

// GetByID retrieves an exam by ID.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	e := &model.Exam{}
	err := scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+`
		 FROM exams e JOIN subjects s ON s.id = e.subject_id
		 WHERE e.id = $1`, id), e)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Create inserts a new exam. CourseID must already be derived from the subject.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (name, subject_id, course_id, created_by, is_active, allow_calculator, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		e.Name, e.SubjectID, e.CourseID, e.CreatedBy, e.IsActive, e.AllowCalculator, e.StartTime, e.EndTime,
	).Scan(&e.ID, &e.CreatedAt)
	return translate(err)
}

// ListByCreator returns a teacher's exams, newest first.
func (r *ExamRepository) ListByCreator(ctx context.Context, userID int64) ([]model.Exam, error) {
	return r.list(ctx,
		`SELECT `+examColumns+`
		 FROM exams e JOIN subjects s ON s.id = e.subject_id
		 WHERE e.created_by = $1
		 ORDER BY e.start_time DESC NULLS LAST, e.created_at DESC`, userID)
}

// ListActiveByCourse returns the active exams of a course.
func (r *ExamRepository) ListActiveByCourse(ctx context.Context, courseID int64) ([]model.Exam, error) {
	return r.list(ctx,
		`SELECT `+examColumns+`
		 FROM exams e JOIN subjects s ON s.id = e.subject_id
		 WHERE s.course_id = $1 AND e.is_active
		 ORDER BY e.created_at DESC`, courseID)
}

func (r *ExamRepository) list(ctx context.Context, query string, args ...any) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := scanExam(rows, &e); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}
