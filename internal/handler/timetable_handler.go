package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableView, error)
	Export(ctx context.Context, query dto.TimetableQuery, format string) ([]byte, string, error)
	ListSchedules(ctx context.Context, query dto.TimetableQuery) ([]models.Schedule, error)
	GetAssignments(ctx context.Context, scheduleID string) ([]models.AssignmentDetail, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
}

// TimetableHandler exposes timetable generation and retrieval endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Run timetable allocation for a scope
// @Description Demotes the current published schedule and builds a new version in one atomic run.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Get the published weekly timetable for a scope
// @Tags Timetable
// @Produce json
// @Param departmentId query string true "Department ID"
// @Param batchId query string true "Batch ID"
// @Param semesterId query string true "Semester ID"
// @Param section query string true "Section"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	view, err := h.service.GetTimetable(c.Request.Context(), timetableQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Export the published timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param departmentId query string true "Department ID"
// @Param batchId query string true "Batch ID"
// @Param semesterId query string true "Semester ID"
// @Param section query string true "Section"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), timetableQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("timetable.%s", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// ListSchedules godoc
// @Summary List schedule versions for a scope
// @Tags Timetable
// @Produce json
// @Param departmentId query string true "Department ID"
// @Param batchId query string true "Batch ID"
// @Param semesterId query string true "Semester ID"
// @Param section query string true "Section"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *TimetableHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.service.ListSchedules(c.Request.Context(), timetableQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Assignments godoc
// @Summary Get assignments for a stored schedule
// @Tags Timetable
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/assignments [get]
func (h *TimetableHandler) Assignments(c *gin.Context) {
	assignments, err := h.service.GetAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Delete godoc
// @Summary Delete a draft schedule version
// @Tags Timetable
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func timetableQuery(c *gin.Context) dto.TimetableQuery {
	return dto.TimetableQuery{
		DepartmentID: c.Query("departmentId"),
		BatchID:      c.Query("batchId"),
		SemesterID:   c.Query("semesterId"),
		Section:      c.Query("section"),
	}
}
