package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/exam-portal/internal/model"
)

// UserRepository handles user and profile data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByUsername retrieves a user by their unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Create inserts a user together with its profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *model.User, p *model.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return translate(err)
	}

	p.UserID = u.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (user_id, role, approved, roll_number, course_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.UserID, p.Role, p.Approved, p.RollNumber, p.CourseID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return translate(err)
	}

	return tx.Commit(ctx)
}

// EnsureProfile returns the user's profile, creating a default student profile
// if none exists yet.
func (r *UserRepository) EnsureProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, role) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, model.RoleStudent)
	if err != nil {
		return nil, translate(err)
	}

	p := &model.Profile{}
	err = r.pool.QueryRow(ctx,
		`SELECT id, user_id, role, approved, roll_number, course_id, created_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Role, &p.Approved, &p.RollNumber, &p.CourseID, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// CountApprovedStudents counts approved student profiles.
func (r *UserRepository) CountApprovedStudents(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM profiles WHERE role = $1 AND approved`,
		model.RoleStudent).Scan(&n)
	return n, err
}

// ListStudentsForTeacher lists approved students enrolled in the teacher's own
// course or in any course the teacher has created an exam for.
func (r *UserRepository) ListStudentsForTeacher(ctx context.Context, teacherID int64) ([]model.StudentListing, error) {
	rows, err := r.pool.Query(ctx,
		`WITH teacher_courses AS (
			SELECT course_id FROM profiles WHERE user_id = $1 AND course_id IS NOT NULL
			UNION
			SELECT course_id FROM exams WHERE created_by = $1
		)
		SELECT p.id, u.id, u.username, u.email, p.roll_number, c.id, c.name
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		JOIN courses c ON c.id = p.course_id
		WHERE p.role = $2 AND p.approved
		  AND p.course_id IN (SELECT course_id FROM teacher_courses)
		ORDER BY c.name ASC, u.username ASC`,
		teacherID, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.StudentListing
	for rows.Next() {
		var s model.StudentListing
		if err := rows.Scan(&s.ProfileID, &s.UserID, &s.Username, &s.Email, &s.RollNumber, &s.CourseID, &s.CourseName); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
