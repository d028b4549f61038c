package service

import (
	"context"
	"fmt"

	"github.com/stemsi/exam-portal/internal/model"
)

// DirectoryService exposes the course and subject reference data.
type DirectoryService struct {
	courses  CourseStore
	subjects SubjectStore
}

func NewDirectoryService(courses CourseStore, subjects SubjectStore) *DirectoryService {
	return &DirectoryService{courses: courses, subjects: subjects}
}

// ExamForm is the reference data needed to author an exam.
type ExamForm struct {
	Courses  []model.Course  `json:"courses"`
	Subjects []model.Subject `json:"subjects"`
}

func (s *DirectoryService) ExamForm(ctx context.Context) (*ExamForm, error) {
	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	subjects, err := s.subjects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return &ExamForm{Courses: courses, Subjects: subjects}, nil
}
