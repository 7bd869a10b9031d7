package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type roomStore interface {
	List(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
}

// RoomService manages the room catalog.
type RoomService struct {
	rooms     roomStore
	validator *validator.Validate
}

// NewRoomService wires the room service.
func NewRoomService(rooms roomStore, validate *validator.Validate) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	return &RoomService{rooms: rooms, validator: validate}
}

// Create registers a room. Rooms default to available.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	room := &models.Room{
		Name:      req.Name,
		Type:      models.RoomType(req.Type),
		Available: available,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}
