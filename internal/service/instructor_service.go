package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type instructorStore interface {
	List(ctx context.Context) ([]models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	SetCourses(ctx context.Context, instructorID string, courseIDs []string) error
}

// InstructorService manages instructors and their course qualifications.
type InstructorService struct {
	instructors instructorStore
	validator   *validator.Validate
}

// NewInstructorService wires the instructor service.
func NewInstructorService(instructors instructorStore, validate *validator.Validate) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	return &InstructorService{instructors: instructors, validator: validate}
}

// Create registers an instructor. Status defaults to ACTIVE.
func (s *InstructorService) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := &models.Instructor{
		Name:   req.Name,
		Status: models.InstructorStatus(req.Status),
	}
	if err := s.instructors.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// List returns every instructor.
func (s *InstructorService) List(ctx context.Context) ([]models.Instructor, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// SetCourses replaces an instructor's qualification set.
func (s *InstructorService) SetCourses(ctx context.Context, instructorID string, req dto.SetInstructorCoursesRequest) error {
	if instructorID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid qualification payload")
	}
	if err := s.instructors.SetCourses(ctx, instructorID, req.CourseIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set instructor courses")
	}
	return nil
}
