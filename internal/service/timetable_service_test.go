package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type stubCourseReader struct {
	courses []models.Course
}

func (s *stubCourseReader) ListByScope(context.Context, string, string, string) ([]models.Course, error) {
	return s.courses, nil
}

type stubRoomReader struct {
	rooms []models.Room
}

func (s *stubRoomReader) ListAvailable(context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type stubSlotReader struct {
	slots []models.TimeSlot
}

func (s *stubSlotReader) ListActive(context.Context, string) ([]models.TimeSlot, error) {
	return s.slots, nil
}

type stubInstructorReader struct {
	byCourse map[string][]models.Instructor
}

func (s *stubInstructorReader) ListActiveByCourse(_ context.Context, courseID string) ([]models.Instructor, error) {
	return s.byCourse[courseID], nil
}

type stubScheduleStore struct {
	demoted   int64
	published *models.Schedule
	byID      map[string]*models.Schedule
	listed    []models.Schedule
	created   *models.Schedule
	days      []models.ScheduleDay
	deleted   []string
}

func (s *stubScheduleStore) DemotePublished(context.Context, sqlx.ExtContext, models.ScheduleScope) (int64, error) {
	return s.demoted, nil
}

func (s *stubScheduleStore) CreateVersioned(_ context.Context, _ sqlx.ExtContext, schedule *models.Schedule) error {
	schedule.ID = "sched-new"
	schedule.Version = 2
	s.created = schedule
	return nil
}

func (s *stubScheduleStore) CreateDay(_ context.Context, _ sqlx.ExtContext, day *models.ScheduleDay) error {
	day.ID = models.WeekdayName(day.DayOfWeek)
	s.days = append(s.days, *day)
	return nil
}

func (s *stubScheduleStore) FindPublished(context.Context, models.ScheduleScope) (*models.Schedule, error) {
	if s.published == nil {
		return nil, sql.ErrNoRows
	}
	return s.published, nil
}

func (s *stubScheduleStore) ListByScope(context.Context, models.ScheduleScope) ([]models.Schedule, error) {
	return s.listed, nil
}

func (s *stubScheduleStore) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	schedule, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return schedule, nil
}

func (s *stubScheduleStore) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAssignmentStore struct {
	fakeAssignmentWriter
	details []models.AssignmentDetail
}

func (s *stubAssignmentStore) ListBySchedule(context.Context, string) ([]models.AssignmentDetail, error) {
	return s.details, nil
}

type stubCache struct {
	sets    int
	deletes []string
}

func (s *stubCache) Get(context.Context, string, interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCache) Set(context.Context, string, interface{}, time.Duration) error {
	s.sets++
	return nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func validGenerateRequest() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		DepartmentID: "dept-1",
		BatchID:      "batch-1",
		SemesterID:   "sem-1",
		Section:      "A",
	}
}

func newGenerateFixture(t *testing.T) (*TimetableService, *stubScheduleStore, *stubAssignmentStore, *stubCache, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := newTxMock(t)
	input := engineInput()

	schedules := &stubScheduleStore{demoted: 1}
	assignments := &stubAssignmentStore{}
	cacheStub := &stubCache{}

	svc := NewTimetableService(
		&stubCourseReader{courses: input.Courses},
		&stubRoomReader{rooms: input.Rooms},
		&stubSlotReader{slots: input.Slots},
		&stubInstructorReader{byCourse: input.InstructorsByCourse},
		schedules,
		assignments,
		cacheStub,
		db,
		nil,
		nil,
		nil,
		TimetableConfig{MinPerDay: 2},
	)
	return svc, schedules, assignments, cacheStub, mock, cleanup
}

func TestTimetableServiceGenerateSuccess(t *testing.T) {
	svc, schedules, assignments, cacheStub, mock, cleanup := newGenerateFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), validGenerateRequest())
	require.NoError(t, err)

	assert.Equal(t, "sched-new", resp.ScheduleID)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, 3, resp.CourseCount)
	assert.Equal(t, 18, resp.AssignmentCount)

	require.NotNil(t, schedules.created)
	assert.Equal(t, models.ScheduleStatusPublished, schedules.created.Status)
	assert.Len(t, schedules.days, 6)
	assert.Len(t, assignments.created, 18)
	assert.Equal(t, []string{"timetable:dept-1:batch-1:sem-1:A"}, cacheStub.deletes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateCoverageAbort(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	// a single course yields one placement per day, below the floor of two
	input := engineInput()
	input.Courses = input.Courses[:1]

	svc := NewTimetableService(
		&stubCourseReader{courses: input.Courses},
		&stubRoomReader{rooms: input.Rooms},
		&stubSlotReader{slots: input.Slots},
		&stubInstructorReader{byCourse: input.InstructorsByCourse},
		&stubScheduleStore{},
		&stubAssignmentStore{},
		&stubCache{},
		db,
		nil,
		nil,
		nil,
		TimetableConfig{MinPerDay: 2},
	)

	mock.ExpectBegin()
	mock.ExpectRollback()

	resp, err := svc.Generate(context.Background(), validGenerateRequest())
	require.Error(t, err)
	assert.Nil(t, resp)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCoverage.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "MONDAY")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateNoData(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()

	svc := NewTimetableService(
		&stubCourseReader{},
		&stubRoomReader{rooms: engineInput().Rooms},
		&stubSlotReader{slots: engineInput().Slots},
		&stubInstructorReader{},
		&stubScheduleStore{},
		&stubAssignmentStore{},
		&stubCache{},
		db,
		nil,
		nil,
		nil,
		TimetableConfig{MinPerDay: 2},
	)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Generate(context.Background(), validGenerateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoData.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateValidation(t *testing.T) {
	svc, _, _, _, mock, cleanup := newGenerateFixture(t)
	defer cleanup()

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceGetTimetable(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()

	schedules := &stubScheduleStore{
		published: &models.Schedule{ID: "sched-1", Version: 3},
	}
	assignments := &stubAssignmentStore{
		details: []models.AssignmentDetail{
			{
				Assignment: models.Assignment{
					CourseID: "course-1", RoomID: "room-1", InstructorID: "inst-1",
					DayOfWeek: models.WeekdayMonday, StartTime: "09:00", EndTime: "10:00",
				},
				CourseName: "Algorithms", RoomName: "R101", InstructorName: "A",
			},
		},
	}
	cacheStub := &stubCache{}

	svc := NewTimetableService(
		&stubCourseReader{}, &stubRoomReader{}, &stubSlotReader{}, &stubInstructorReader{},
		schedules, assignments, cacheStub, db, nil, nil, nil,
		TimetableConfig{MinPerDay: 2},
	)

	view, err := svc.GetTimetable(context.Background(), dto.TimetableQuery{
		DepartmentID: "dept-1", BatchID: "batch-1", SemesterID: "sem-1", Section: "A",
	})
	require.NoError(t, err)

	assert.Equal(t, "sched-1", view.ScheduleID)
	assert.Equal(t, 3, view.Version)
	require.Len(t, view.Days, 6)
	assert.Len(t, view.Days[0].Entries, 1)
	assert.Equal(t, "Algorithms", view.Days[0].Entries[0].CourseName)
	for _, day := range view.Days[1:] {
		assert.Empty(t, day.Entries)
	}
	assert.Equal(t, 1, cacheStub.sets)
}

func TestTimetableServiceGetTimetableNotFound(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()

	svc := NewTimetableService(
		&stubCourseReader{}, &stubRoomReader{}, &stubSlotReader{}, &stubInstructorReader{},
		&stubScheduleStore{}, &stubAssignmentStore{}, &stubCache{}, db, nil, nil, nil,
		TimetableConfig{MinPerDay: 2},
	)

	_, err := svc.GetTimetable(context.Background(), dto.TimetableQuery{
		DepartmentID: "dept-1", BatchID: "batch-1", SemesterID: "sem-1", Section: "A",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceDeleteScheduleDraftOnly(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()

	schedules := &stubScheduleStore{
		byID: map[string]*models.Schedule{
			"draft":     {ID: "draft", Status: models.ScheduleStatusDraft},
			"published": {ID: "published", Status: models.ScheduleStatusPublished},
		},
	}

	svc := NewTimetableService(
		&stubCourseReader{}, &stubRoomReader{}, &stubSlotReader{}, &stubInstructorReader{},
		schedules, &stubAssignmentStore{}, &stubCache{}, db, nil, nil, nil,
		TimetableConfig{MinPerDay: 2},
	)

	require.NoError(t, svc.DeleteSchedule(context.Background(), "draft"))
	assert.Equal(t, []string{"draft"}, schedules.deleted)

	err := svc.DeleteSchedule(context.Background(), "published")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	err = svc.DeleteSchedule(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceExportCSV(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()

	schedules := &stubScheduleStore{
		published: &models.Schedule{ID: "sched-1", Version: 1},
	}
	assignments := &stubAssignmentStore{
		details: []models.AssignmentDetail{
			{
				Assignment: models.Assignment{
					DayOfWeek: models.WeekdayMonday, StartTime: "09:00", EndTime: "10:00",
				},
				CourseName: "Algorithms", RoomName: "R101", InstructorName: "A",
			},
		},
	}

	svc := NewTimetableService(
		&stubCourseReader{}, &stubRoomReader{}, &stubSlotReader{}, &stubInstructorReader{},
		schedules, assignments, &stubCache{}, db, nil, nil, nil,
		TimetableConfig{MinPerDay: 2},
	)

	query := dto.TimetableQuery{DepartmentID: "d", BatchID: "b", SemesterID: "s", Section: "A"}

	payload, contentType, err := svc.Export(context.Background(), query, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "Algorithms")
	assert.Contains(t, string(payload), "MONDAY")

	_, _, err = svc.Export(context.Background(), query, "xml")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
