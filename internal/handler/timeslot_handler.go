package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type slotSynthesizer interface {
	GenerateSlots(ctx context.Context, req dto.GenerateSlotsRequest) ([]models.TimeSlot, error)
	List(ctx context.Context, departmentID string) ([]models.TimeSlot, error)
}

// TimeSlotHandler exposes slot template endpoints.
type TimeSlotHandler struct {
	service slotSynthesizer
}

// NewTimeSlotHandler constructs the handler.
func NewTimeSlotHandler(svc *service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{service: svc}
}

// Generate godoc
// @Summary Synthesize slot templates for a department
// @Description Replaces the active slot template set from an operating window and slot durations.
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSlotsRequest true "Generate slots payload"
// @Success 201 {object} response.Envelope
// @Router /time-slots/generate [post]
func (h *TimeSlotHandler) Generate(c *gin.Context) {
	var req dto.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot generation payload"))
		return
	}
	slots, err := h.service.GenerateSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slots)
}

// List godoc
// @Summary List slot templates for a department
// @Tags TimeSlots
// @Produce json
// @Param departmentId query string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /time-slots [get]
func (h *TimeSlotHandler) List(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context(), c.Query("departmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
