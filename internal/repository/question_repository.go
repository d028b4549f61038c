package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exam-portal/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all questions for a given exam in insertion order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, question_text, option1, option2, option3, option4, correct_option, created_at
		 FROM questions WHERE exam_id = $1
		 ORDER BY id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.QuestionText, &q.Option1, &q.Option2,
			&q.Option3, &q.Option4, &q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, question_text, option1, option2, option3, option4, correct_option)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		q.ExamID, q.QuestionText, q.Option1, q.Option2, q.Option3, q.Option4, q.CorrectOption,
	).Scan(&q.ID, &q.CreatedAt)
	return translate(err)
}
