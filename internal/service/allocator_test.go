package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/clock"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type fakeAssignmentWriter struct {
	created  []models.Assignment
	conflict func(dayOfWeek int, startTime, roomID, instructorID string) bool
}

func (f *fakeAssignmentWriter) Create(_ context.Context, _ sqlx.ExtContext, assignment *models.Assignment) error {
	f.created = append(f.created, *assignment)
	return nil
}

func (f *fakeAssignmentWriter) ExistsPublishedConflict(_ context.Context, _ sqlx.ExtContext, _ string, dayOfWeek int, startTime, _, roomID, instructorID string) (bool, error) {
	if f.conflict == nil {
		return false, nil
	}
	return f.conflict(dayOfWeek, startTime, roomID, instructorID), nil
}

func mustInterval(t *testing.T, start, end string) clock.Interval {
	t.Helper()
	interval, err := clock.NewInterval(clock.MustParse(start), clock.MustParse(end))
	require.NoError(t, err)
	return interval
}

func TestBuildDaySlotsStandardDay(t *testing.T) {
	window := mustInterval(t, "08:00", "17:00")
	breakWindow := mustInterval(t, "12:00", "13:00")

	slots := buildDaySlots(window, breakWindow, 60, 120)

	require.Len(t, slots, 7)

	lectures := slots[:4]
	for i, slot := range lectures {
		assert.Equal(t, models.SlotKindLecture, slot.Kind)
		assert.Equal(t, clock.MustParse("08:00").Add(i*60), slot.Window.Start)
	}
	assert.Equal(t, clock.MustParse("12:00"), lectures[3].Window.End)

	assert.Equal(t, models.SlotKindBreak, slots[4].Kind)
	assert.Equal(t, breakWindow, slots[4].Window)

	assert.Equal(t, models.SlotKindLab, slots[5].Kind)
	assert.Equal(t, clock.MustParse("13:00"), slots[5].Window.Start)
	assert.Equal(t, clock.MustParse("15:00"), slots[5].Window.End)
	assert.Equal(t, models.SlotKindLab, slots[6].Kind)
	assert.Equal(t, clock.MustParse("17:00"), slots[6].Window.End)
}

func TestBuildDaySlotsBreakJump(t *testing.T) {
	window := mustInterval(t, "08:00", "16:00")
	breakWindow := mustInterval(t, "11:30", "12:30")

	slots := buildDaySlots(window, breakWindow, 60, 0)

	var lectures []slotCandidate
	for _, slot := range slots {
		if slot.Kind == models.SlotKindLecture {
			lectures = append(lectures, slot)
		}
	}
	// 11:00-12:00 collides with the break; the cursor jumps past the break
	// end which already exceeds the morning bound.
	require.Len(t, lectures, 3)
	assert.Equal(t, clock.MustParse("11:00"), lectures[2].Window.End)

	for _, slot := range slots {
		if slot.Kind == models.SlotKindBreak {
			continue
		}
		assert.False(t, slot.Window.Overlaps(breakWindow),
			"slot %s-%s overlaps break", slot.Window.Start, slot.Window.End)
	}
}

func TestBuildDaySlotsZeroLabMinutes(t *testing.T) {
	window := mustInterval(t, "08:00", "17:00")
	breakWindow := mustInterval(t, "12:00", "13:00")

	slots := buildDaySlots(window, breakWindow, 60, 0)

	for _, slot := range slots {
		assert.NotEqual(t, models.SlotKindLab, slot.Kind)
	}
}

func TestRunTrackerConflicts(t *testing.T) {
	tracker := newRunTracker()
	start, end := clock.MustParse("09:00"), clock.MustParse("10:00")

	assert.False(t, tracker.isSlotTimeUsed(1, start, end))
	assert.False(t, tracker.hasConflict(1, start, end, "room-1", "inst-1"))

	tracker.record(1, start, end, "room-1", "inst-1", "course-1")

	assert.True(t, tracker.isSlotTimeUsed(1, start, end))
	assert.True(t, tracker.hasConflict(1, start, end, "room-1", "inst-2"))
	assert.True(t, tracker.hasConflict(1, start, end, "room-2", "inst-1"))
	assert.False(t, tracker.hasConflict(1, start, end, "room-2", "inst-2"))
	assert.False(t, tracker.hasConflict(2, start, end, "room-1", "inst-1"))
	assert.True(t, tracker.courseUsed(1, "course-1"))
	assert.False(t, tracker.courseUsed(2, "course-1"))
	assert.Equal(t, 1, tracker.placedOn(1))
	assert.Equal(t, 0, tracker.placedOn(2))
}

func engineInput() allocationInput {
	dayIDs := make(map[int]string)
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		dayIDs[day] = models.WeekdayName(day)
	}
	return allocationInput{
		ScheduleID: "sched-1",
		DayIDs:     dayIDs,
		Courses: []models.Course{
			{ID: "course-1", Name: "Algorithms"},
			{ID: "course-2", Name: "Databases"},
			{ID: "course-3", Name: "Networks"},
		},
		Rooms: []models.Room{
			{ID: "room-1", Name: "R101", Available: true},
			{ID: "room-2", Name: "R102", Available: true},
		},
		Slots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "10:00", Kind: models.SlotKindLecture},
			{StartTime: "10:00", EndTime: "11:00", Kind: models.SlotKindLecture},
			{StartTime: "12:00", EndTime: "13:00", Kind: models.SlotKindBreak},
			{StartTime: "13:00", EndTime: "15:00", Kind: models.SlotKindLab},
		},
		InstructorsByCourse: map[string][]models.Instructor{
			"course-1": {{ID: "inst-1", Name: "A"}},
			"course-2": {{ID: "inst-2", Name: "B"}},
			"course-3": {{ID: "inst-3", Name: "C"}},
		},
	}
}

func TestAllocatorFillsWeek(t *testing.T) {
	writer := &fakeAssignmentWriter{}
	engine := newAllocator(writer, nil)

	result, err := engine.run(context.Background(), nil, engineInput())
	require.NoError(t, err)

	// three assignable slots per day, one course each, six days
	assert.Equal(t, 18, result.Total)
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		assert.Equal(t, 3, result.PerDay[day])
	}
	require.Len(t, writer.created, 18)

	for _, assignment := range writer.created {
		assert.NotEqual(t, "12:00", assignment.StartTime, "break slot must stay empty")
	}

	// greedy order is deterministic: first slot of Monday goes to the first
	// course, first room, first instructor
	first := writer.created[0]
	assert.Equal(t, "course-1", first.CourseID)
	assert.Equal(t, "room-1", first.RoomID)
	assert.Equal(t, "inst-1", first.InstructorID)
	assert.Equal(t, models.WeekdayMonday, first.DayOfWeek)
	assert.Equal(t, "09:00", first.StartTime)
}

func TestAllocatorDeterministic(t *testing.T) {
	run := func() []models.Assignment {
		writer := &fakeAssignmentWriter{}
		engine := newAllocator(writer, nil)
		_, err := engine.run(context.Background(), nil, engineInput())
		require.NoError(t, err)
		return writer.created
	}
	assert.Equal(t, run(), run())
}

func TestAllocatorCourseOncePerDay(t *testing.T) {
	writer := &fakeAssignmentWriter{}
	engine := newAllocator(writer, nil)

	input := engineInput()
	input.Courses = input.Courses[:1]
	input.InstructorsByCourse = map[string][]models.Instructor{
		"course-1": {{ID: "inst-1"}},
	}

	result, err := engine.run(context.Background(), nil, input)
	require.NoError(t, err)

	// one course can meet at most once per day even with free slots left
	assert.Equal(t, 6, result.Total)
	seen := make(map[int]int)
	for _, assignment := range writer.created {
		seen[assignment.DayOfWeek]++
	}
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		assert.Equal(t, 1, seen[day])
	}
}

func TestAllocatorSkipsExternallyBusyRoom(t *testing.T) {
	writer := &fakeAssignmentWriter{
		conflict: func(_ int, _, roomID, _ string) bool {
			return roomID == "room-1"
		},
	}
	engine := newAllocator(writer, nil)

	result, err := engine.run(context.Background(), nil, engineInput())
	require.NoError(t, err)

	// room-1 is occupied by another published schedule everywhere; only one
	// placement fits per slot through room-2
	assert.Equal(t, 18, result.Total)
	for _, assignment := range writer.created {
		assert.Equal(t, "room-2", assignment.RoomID)
	}
}

func TestAllocatorCourseWithoutInstructorIsSkipped(t *testing.T) {
	writer := &fakeAssignmentWriter{}
	engine := newAllocator(writer, nil)

	input := engineInput()
	input.InstructorsByCourse["course-2"] = nil

	result, err := engine.run(context.Background(), nil, input)
	require.NoError(t, err)

	for _, assignment := range writer.created {
		assert.NotEqual(t, "course-2", assignment.CourseID)
	}
	// two placeable courses, three slots: the third slot of each day stays
	// empty
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		assert.Equal(t, 2, result.PerDay[day])
	}
}

func TestAllocatorRejectsEmptyInputs(t *testing.T) {
	engine := newAllocator(&fakeAssignmentWriter{}, nil)

	empty := func(mutate func(*allocationInput)) error {
		input := engineInput()
		mutate(&input)
		_, err := engine.run(context.Background(), nil, input)
		return err
	}

	for name, mutate := range map[string]func(*allocationInput){
		"courses": func(in *allocationInput) { in.Courses = nil },
		"rooms":   func(in *allocationInput) { in.Rooms = nil },
		"slots":   func(in *allocationInput) { in.Slots = nil },
	} {
		err := empty(mutate)
		require.Error(t, err, name)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrNoData.Code, appErr.Code, name)
	}
}
