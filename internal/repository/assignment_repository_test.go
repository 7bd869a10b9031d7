package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(sqlmock.AnyArg(), "day-1", "course-1", "room-1", "inst-1", 1, "09:00", "10:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{
		ScheduleDayID: "day-1",
		CourseID:      "course-1",
		RoomID:        "room-1",
		InstructorID:  "inst-1",
		DayOfWeek:     models.WeekdayMonday,
		StartTime:     "09:00",
		EndTime:       "10:00",
	}
	require.NoError(t, repo.Create(context.Background(), nil, assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsPublishedConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(string(models.ScheduleStatusPublished), "sched-1", 1, "09:00", "10:00", "room-1", "inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	busy, err := repo.ExistsPublishedConflict(context.Background(), nil, "sched-1", 1, "09:00", "10:00", "room-1", "inst-1")
	require.NoError(t, err)
	assert.True(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsPublishedConflictFree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(string(models.ScheduleStatusPublished), "sched-1", 2, "10:00", "11:00", "room-2", "inst-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	busy, err := repo.ExistsPublishedConflict(context.Background(), nil, "sched-1", 2, "10:00", "11:00", "room-2", "inst-2")
	require.NoError(t, err)
	assert.False(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "schedule_day_id", "course_id", "room_id", "instructor_id",
		"day_of_week", "start_time", "end_time", "created_at",
		"course_name", "room_name", "instructor_name",
	}).
		AddRow("asg-1", "day-1", "course-1", "room-1", "inst-1", 1, "09:00", "10:00", time.Now(), "Algorithms", "R101", "A").
		AddRow("asg-2", "day-1", "course-2", "room-2", "inst-2", 1, "10:00", "11:00", time.Now(), "Databases", "R102", "B")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.day_of_week ASC, a.start_time ASC")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	list, err := repo.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Algorithms", list[0].CourseName)
	assert.Equal(t, "10:00", list[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCountBySchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM assignments")).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(18))

	total, err := repo.CountBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, 18, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
