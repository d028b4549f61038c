package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exam-portal/internal/model"
)

// AttemptRepository handles attempt and result data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// GetByStudentAndExam retrieves the attempt for a student at an exam.
func (r *AttemptRepository) GetByStudentAndExam(ctx context.Context, studentID, examID int64) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, exam_id, score, is_submitted, started_at, submitted_at
		 FROM attempts WHERE student_id = $1 AND exam_id = $2`,
		studentID, examID,
	).Scan(&a.ID, &a.StudentID, &a.ExamID, &a.Score, &a.IsSubmitted, &a.StartedAt, &a.SubmittedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// Create inserts a new in-progress attempt. Returns ErrDuplicate if the student
// already holds an attempt for the exam.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attempts (student_id, exam_id)
		 VALUES ($1, $2)
		 ON CONFLICT (student_id, exam_id) DO NOTHING
		 RETURNING id, is_submitted, started_at`,
		a.StudentID, a.ExamID,
	).Scan(&a.ID, &a.IsSubmitted, &a.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	return translate(err)
}

// Submit locks the attempt with its final score and appends the audit result
// in a single transaction. Returns ErrNotUpdated if the attempt was already submitted.
func (r *AttemptRepository) Submit(ctx context.Context, a *model.Attempt, profileID int64, score float64) (*model.Result, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	submittedAt := a.SubmittedAt
	err = tx.QueryRow(ctx,
		`UPDATE attempts
		 SET score = $1, is_submitted = TRUE, submitted_at = NOW()
		 WHERE id = $2 AND is_submitted = FALSE
		 RETURNING submitted_at`,
		score, a.ID,
	).Scan(&submittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotUpdated
	}
	if err != nil {
		return nil, err
	}

	res := &model.Result{ProfileID: profileID, ExamID: a.ExamID, Score: score}
	err = tx.QueryRow(ctx,
		`INSERT INTO results (profile_id, exam_id, score)
		 VALUES ($1, $2, $3)
		 RETURNING id, attempted_on`,
		profileID, a.ExamID, score,
	).Scan(&res.ID, &res.AttemptedOn)
	if err != nil {
		return nil, translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	a.Score = &score
	a.IsSubmitted = true
	a.SubmittedAt = submittedAt
	return res, nil
}

const attemptRecordSelect = `SELECT a.id, a.student_id, a.exam_id, a.score, a.is_submitted, a.started_at, a.submitted_at,
	e.name, s.name, u.username
	FROM attempts a
	JOIN exams e ON e.id = a.exam_id
	JOIN subjects s ON s.id = e.subject_id
	JOIN users u ON u.id = a.student_id`

// ListByStudent returns all of a student's attempts, newest first.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int64) ([]model.AttemptRecord, error) {
	return r.listRecords(ctx, attemptRecordSelect+`
		WHERE a.student_id = $1
		ORDER BY a.started_at DESC, a.id DESC`, studentID)
}

// ListByExam returns every attempt at an exam ordered by student.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID int64) ([]model.AttemptRecord, error) {
	return r.listRecords(ctx, attemptRecordSelect+`
		WHERE a.exam_id = $1
		ORDER BY u.username ASC, a.id ASC`, examID)
}

// ListSubmittedByCreator returns submitted attempts at any exam created by the user.
func (r *AttemptRepository) ListSubmittedByCreator(ctx context.Context, userID int64) ([]model.AttemptRecord, error) {
	return r.listRecords(ctx, attemptRecordSelect+`
		WHERE e.created_by = $1 AND a.is_submitted
		ORDER BY a.id ASC`, userID)
}

func (r *AttemptRepository) listRecords(ctx context.Context, query string, args ...any) ([]model.AttemptRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttemptRecord
	for rows.Next() {
		var rec model.AttemptRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.ExamID, &rec.Score, &rec.IsSubmitted,
			&rec.StartedAt, &rec.SubmittedAt, &rec.ExamName, &rec.SubjectName, &rec.Username); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListResultsByExam returns the audit results of an exam in submission order.
func (r *AttemptRepository) ListResultsByExam(ctx context.Context, examID int64) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.profile_id, r.exam_id, u.username, r.score, r.attempted_on
		 FROM results r
		 JOIN profiles p ON p.id = r.profile_id
		 JOIN users u ON u.id = p.user_id
		 WHERE r.exam_id = $1
		 ORDER BY r.attempted_on ASC, r.id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.ProfileID, &res.ExamID, &res.Username, &res.Score, &res.AttemptedOn); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
