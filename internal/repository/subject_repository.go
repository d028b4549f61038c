package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exam-portal/internal/model"
)

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, course_id) VALUES ($1, $2) RETURNING id, created_at`,
		s.Name, s.CourseID).Scan(&s.ID, &s.CreatedAt)
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.course_id, c.name, s.created_at
		 FROM subjects s JOIN courses c ON c.id = s.course_id
		 WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.CourseID, &s.CourseName, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *SubjectRepository) GetAll(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, s.course_id, c.name, s.created_at
		 FROM subjects s JOIN courses c ON c.id = s.course_id
		 ORDER BY c.name ASC, s.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.CourseID, &s.CourseName, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
