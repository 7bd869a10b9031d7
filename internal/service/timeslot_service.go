package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/clock"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type slotTemplateStore interface {
	ListActive(ctx context.Context, departmentID string) ([]models.TimeSlot, error)
	List(ctx context.Context, departmentID string) ([]models.TimeSlot, error)
	ReplaceForDepartment(ctx context.Context, departmentID string, slots []models.TimeSlot) error
}

// TimeSlotService synthesizes and manages slot templates per department.
type TimeSlotService struct {
	slots     slotTemplateStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService wires the slot template service.
func NewTimeSlotService(slots slotTemplateStore, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{slots: slots, validator: validate, logger: logger}
}

// GenerateSlots synthesizes a fresh slot template set from the department's
// operating window and replaces the previously active set.
func (s *TimeSlotService) GenerateSlots(ctx context.Context, req dto.GenerateSlotsRequest) ([]models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot generation payload")
	}

	dayStart, err := clock.Parse(req.DayStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dayStart must be HH:MM")
	}
	dayEnd, err := clock.Parse(req.DayEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dayEnd must be HH:MM")
	}
	breakStart, err := clock.Parse(req.BreakStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "breakStart must be HH:MM")
	}
	breakEnd, err := clock.Parse(req.BreakEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "breakEnd must be HH:MM")
	}

	window, err := clock.NewInterval(dayStart, dayEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dayStart must be before dayEnd")
	}
	breakWindow, err := clock.NewInterval(breakStart, breakEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "breakStart must be before breakEnd")
	}
	if breakStart.Before(dayStart) || dayEnd.Before(breakEnd) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "break window must sit inside the operating window")
	}

	candidates := buildDaySlots(window, breakWindow, req.LectureMinutes, req.LabMinutes)
	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "window too narrow to produce any slots")
	}

	templates := make([]models.TimeSlot, 0, len(candidates))
	for _, candidate := range candidates {
		templates = append(templates, models.TimeSlot{
			DepartmentID: req.DepartmentID,
			StartTime:    candidate.Window.Start.String(),
			EndTime:      candidate.Window.End.String(),
			Kind:         candidate.Kind,
		})
	}

	if err := s.slots.ReplaceForDepartment(ctx, req.DepartmentID, templates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store slot templates")
	}

	s.logger.Info("slot templates regenerated",
		zap.String("department", req.DepartmentID),
		zap.Int("slots", len(templates)),
	)
	return templates, nil
}

// List returns every slot template for a department, active or not.
func (s *TimeSlotService) List(ctx context.Context, departmentID string) ([]models.TimeSlot, error) {
	if departmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "departmentId is required")
	}
	slots, err := s.slots.List(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return slots, nil
}
