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

type courseManager interface {
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	ListByScope(ctx context.Context, departmentID, batchID, semesterID string) ([]models.Course, error)
}

type roomManager interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}

type instructorManager interface {
	Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
	SetCourses(ctx context.Context, instructorID string, req dto.SetInstructorCoursesRequest) error
}

// CatalogHandler exposes course, room and instructor endpoints.
type CatalogHandler struct {
	courses     courseManager
	rooms       roomManager
	instructors instructorManager
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(courses *service.CourseService, rooms *service.RoomService, instructors *service.InstructorService) *CatalogHandler {
	return &CatalogHandler{courses: courses, rooms: rooms, instructors: instructors}
}

// CreateCourse godoc
// @Summary Create a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Create course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// ListCourses godoc
// @Summary List courses for a scope
// @Tags Catalog
// @Produce json
// @Param departmentId query string true "Department ID"
// @Param batchId query string true "Batch ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.ListByScope(c.Request.Context(),
		c.Query("departmentId"), c.Query("batchId"), c.Query("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoomRequest true "Create room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// ListRooms godoc
// @Summary List rooms
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// CreateInstructor godoc
// @Summary Create an instructor
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstructorRequest true "Create instructor payload"
// @Success 201 {object} response.Envelope
// @Router /instructors [post]
func (h *CatalogHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.instructors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *CatalogHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.instructors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// SetInstructorCourses godoc
// @Summary Replace an instructor's course qualifications
// @Tags Catalog
// @Accept json
// @Param id path string true "Instructor ID"
// @Param payload body dto.SetInstructorCoursesRequest true "Qualification payload"
// @Success 204
// @Router /instructors/{id}/courses [put]
func (h *CatalogHandler) SetInstructorCourses(c *gin.Context) {
	var req dto.SetInstructorCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid qualification payload"))
		return
	}
	if err := h.instructors.SetCourses(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
