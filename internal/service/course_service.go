package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type courseStore interface {
	ListByScope(ctx context.Context, departmentID, batchID, semesterID string) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

// CourseService manages the course catalog.
type CourseService struct {
	courses   courseStore
	validator *validator.Validate
}

// NewCourseService wires the course service.
func NewCourseService(courses courseStore, validate *validator.Validate) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, validator: validate}
}

// Create registers a course within its scope.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		BatchID:      req.BatchID,
		SemesterID:   req.SemesterID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// ListByScope returns the courses of one department/batch/semester.
func (s *CourseService) ListByScope(ctx context.Context, departmentID, batchID, semesterID string) ([]models.Course, error) {
	if departmentID == "" || batchID == "" || semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "departmentId, batchId and semesterId are required")
	}
	courses, err := s.courses.ListByScope(ctx, departmentID, batchID, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}
