package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/database"
	"github.com/stemsi/exam-portal/internal/logger"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
	"github.com/stemsi/exam-portal/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type seedCourse struct {
	name     string
	subjects []string
}

var courses = []seedCourse{
	{name: "Physics", subjects: []string{"Mechanics", "Optics"}},
	{name: "Computer Science", subjects: []string{"Algorithms", "Networks"}},
}

var sampleQuestions = []model.AddQuestionRequest{
	{QuestionText: "Which of these is a vector quantity?", Option1: "Mass", Option2: "Velocity", Option3: "Time", Option4: "Energy", CorrectOption: "option2"},
	{QuestionText: "What is 12 x 12?", Option1: "124", Option2: "144", Option3: "154", CorrectOption: "option2"},
	{QuestionText: "The sun is a star.", Option1: "True", Option2: "False", CorrectOption: "option1"},
}

func main() {
	var (
		perCourse int
		password  string
	)
	flag.IntVar(&perCourse, "students", 10, "Students to create per course")
	flag.StringVar(&password, "password", "portal123", "Password for every seeded account")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseRepo := repository.NewCourseRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	examService := service.NewExamService(examRepo, repository.NewQuestionRepository(pool), subjectRepo, log)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	s := &seeder{log: log, courses: courseRepo, subjects: subjectRepo, users: userRepo, hash: string(hash)}

	teacher, err := s.user(ctx, "teacher1", &model.Profile{Role: model.RoleTeacher, Approved: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed teacher")
	}
	teacherID := service.Identity{UserID: teacher.UserID, ProfileID: teacher.ID, Username: "teacher1", Role: model.RoleTeacher}

	existing, err := examRepo.ListByCreator(ctx, teacher.UserID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list teacher exams")
	}

	for ci, sc := range courses {
		course, err := s.course(ctx, sc.name)
		if err != nil {
			log.Fatal().Err(err).Str("course", sc.name).Msg("Failed to seed course")
		}

		for _, name := range sc.subjects {
			subject, err := s.subject(ctx, name, course.ID)
			if err != nil {
				log.Fatal().Err(err).Str("subject", name).Msg("Failed to seed subject")
			}
			if len(existing) > 0 {
				continue
			}

			exam, err := examService.CreateExam(ctx, teacherID, model.CreateExamRequest{
				Name:      name + " Quiz",
				SubjectID: subject.ID,
			})
			if err != nil {
				log.Fatal().Err(err).Str("subject", name).Msg("Failed to create exam")
			}
			for _, q := range sampleQuestions {
				if _, err := examService.AddQuestion(ctx, teacherID, exam.ID, q); err != nil {
					log.Fatal().Err(err).Int64("exam_id", exam.ID).Msg("Failed to add question")
				}
			}
			log.Info().Int64("exam_id", exam.ID).Str("name", exam.Name).Msg("Seeded exam")
		}

		created := 0
		for i := 1; i <= perCourse; i++ {
			courseID := course.ID
			roll := fmt.Sprintf("%d%03d", ci+1, i)
			username := fmt.Sprintf("student%d_%02d", ci+1, i)
			if _, err := s.user(ctx, username, &model.Profile{
				Role:       model.RoleStudent,
				Approved:   true,
				RollNumber: &roll,
				CourseID:   &courseID,
			}); err != nil {
				log.Error().Err(err).Str("username", username).Msg("Failed to seed student")
				continue
			}
			created++
		}
		log.Info().Str("course", sc.name).Int("students", created).Msg("Seeded course")
	}

	log.Info().Str("password", password).Msg("Seed completed")
}

type seeder struct {
	log      zerolog.Logger
	courses  *repository.CourseRepository
	subjects *repository.SubjectRepository
	users    *repository.UserRepository
	hash     string
}

// course finds a course by name or creates it.
func (s *seeder) course(ctx context.Context, name string) (*model.Course, error) {
	all, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	c := &model.Course{Name: name}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *seeder) subject(ctx context.Context, name string, courseID int64) (*model.Subject, error) {
	all, err := s.subjects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name && all[i].CourseID == courseID {
			return &all[i], nil
		}
	}
	sub := &model.Subject{Name: name, CourseID: courseID}
	if err := s.subjects.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// user creates username with p, or returns the existing profile when the
// username is already taken.
func (s *seeder) user(ctx context.Context, username string, p *model.Profile) (*model.Profile, error) {
	u := &model.User{Username: username, Email: username + "@example.edu", PasswordHash: s.hash}
	err := s.users.Create(ctx, u, p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("username", username).Msg("User exists, skipping")
	return s.users.EnsureProfile(ctx, existing.ID)
}
