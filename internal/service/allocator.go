package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/clock"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// --- Slot synthesis ---

// slotCandidate is a synthesized slot before persistence.
type slotCandidate struct {
	Window clock.Interval
	Kind   models.SlotKind
}

// buildDaySlots converts a daily operating window plus durations into an
// ordered sequence of candidate slots. Lectures fill the morning up to the
// window midpoint, one break slot covers the midday pause, labs fill the
// afternoon. A candidate that overlaps the break jumps the cursor to the
// break's end instead of being emitted; generation stops once the cursor
// passes its pass bound, so the jump cannot loop.
func buildDaySlots(window, breakWindow clock.Interval, lectureMinutes, labMinutes int) []slotCandidate {
	var slots []slotCandidate

	halfBound := window.Start.Add(window.Duration() / 2)
	if lectureMinutes > 0 {
		cursor := window.Start
		for {
			end := cursor.Add(lectureMinutes)
			if halfBound.Before(end) {
				break
			}
			candidate := clock.Interval{Start: cursor, End: end}
			if candidate.Overlaps(breakWindow) {
				cursor = breakWindow.End
				if !cursor.Before(halfBound) {
					break
				}
				continue
			}
			slots = append(slots, slotCandidate{Window: candidate, Kind: models.SlotKindLecture})
			cursor = end
		}
	}

	slots = append(slots, slotCandidate{Window: breakWindow, Kind: models.SlotKindBreak})

	if labMinutes > 0 {
		cursor := breakWindow.End
		for {
			end := cursor.Add(labMinutes)
			if window.End.Before(end) {
				break
			}
			candidate := clock.Interval{Start: cursor, End: end}
			if candidate.Overlaps(breakWindow) {
				cursor = breakWindow.End
				if !cursor.Before(window.End) {
					break
				}
				continue
			}
			slots = append(slots, slotCandidate{Window: candidate, Kind: models.SlotKindLab})
			cursor = end
		}
	}

	return slots
}

// --- Conflict tracking ---

type placementKey struct {
	day   int
	start clock.Minutes
	end   clock.Minutes
}

// runTracker indexes the placements made so far within one allocation run.
// It is private to the run and discarded afterward regardless of outcome.
type runTracker struct {
	slotUsed       map[placementKey]bool
	roomBusy       map[placementKey]map[string]bool
	instructorBusy map[placementKey]map[string]bool
	dayCount       map[int]int
	dayCourses     map[int]map[string]bool
}

func newRunTracker() *runTracker {
	return &runTracker{
		slotUsed:       make(map[placementKey]bool),
		roomBusy:       make(map[placementKey]map[string]bool),
		instructorBusy: make(map[placementKey]map[string]bool),
		dayCount:       make(map[int]int),
		dayCourses:     make(map[int]map[string]bool),
	}
}

// isSlotTimeUsed reports whether this exact (day, start, end) pair has
// already received any placement. One class period holds one class
// system-wide within a run.
func (t *runTracker) isSlotTimeUsed(day int, start, end clock.Minutes) bool {
	return t.slotUsed[placementKey{day: day, start: start, end: end}]
}

// hasConflict reports an in-run collision: same day and exact time with
// either the same room or the same instructor.
func (t *runTracker) hasConflict(day int, start, end clock.Minutes, roomID, instructorID string) bool {
	key := placementKey{day: day, start: start, end: end}
	if rooms := t.roomBusy[key]; rooms != nil && rooms[roomID] {
		return true
	}
	if instructors := t.instructorBusy[key]; instructors != nil && instructors[instructorID] {
		return true
	}
	return false
}

// courseUsed reports whether the course already meets on this day.
func (t *runTracker) courseUsed(day int, courseID string) bool {
	courses := t.dayCourses[day]
	return courses != nil && courses[courseID]
}

// placedOn returns the number of placements recorded for a day.
func (t *runTracker) placedOn(day int) int {
	return t.dayCount[day]
}

// record appends a placement. Callers must have checked hasConflict first;
// there is no single-placement rollback, only the run-wide one.
func (t *runTracker) record(day int, start, end clock.Minutes, roomID, instructorID, courseID string) {
	key := placementKey{day: day, start: start, end: end}
	t.slotUsed[key] = true
	if t.roomBusy[key] == nil {
		t.roomBusy[key] = make(map[string]bool)
	}
	t.roomBusy[key][roomID] = true
	if t.instructorBusy[key] == nil {
		t.instructorBusy[key] = make(map[string]bool)
	}
	t.instructorBusy[key][instructorID] = true
	t.dayCount[day]++
	if t.dayCourses[day] == nil {
		t.dayCourses[day] = make(map[string]bool)
	}
	t.dayCourses[day][courseID] = true
}

// --- Allocation engine ---

type assignmentWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	ExistsPublishedConflict(ctx context.Context, exec sqlx.ExtContext, excludeScheduleID string, dayOfWeek int, startTime, endTime, roomID, instructorID string) (bool, error)
}

// allocationInput is the frozen snapshot of external data one run works on.
type allocationInput struct {
	ScheduleID          string
	DayIDs              map[int]string
	Courses             []models.Course
	Rooms               []models.Room
	Slots               []models.TimeSlot
	InstructorsByCourse map[string][]models.Instructor
}

type parsedSlot struct {
	start clock.Minutes
	end   clock.Minutes
	kind  models.SlotKind
}

// runResult summarises one engine pass.
type runResult struct {
	Total  int
	PerDay map[int]int
}

// allocator performs the greedy first-fit placement search. Iteration order
// is fixed: days, then slots by start time, then courses, rooms and
// instructors in their fetch order. The first non-conflicting pair wins.
type allocator struct {
	assignments assignmentWriter
	tracker     *runTracker
	logger      *zap.Logger
}

func newAllocator(assignments assignmentWriter, logger *zap.Logger) *allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &allocator{
		assignments: assignments,
		tracker:     newRunTracker(),
		logger:      logger,
	}
}

func (a *allocator) run(ctx context.Context, exec sqlx.ExtContext, in allocationInput) (*runResult, error) {
	if len(in.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "no courses defined for the requested scope")
	}
	if len(in.Rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "no available rooms")
	}
	if len(in.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "no active time slots for the department")
	}

	slots := make([]parsedSlot, 0, len(in.Slots))
	for _, template := range in.Slots {
		start, err := clock.Parse(template.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed time slot template")
		}
		end, err := clock.Parse(template.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed time slot template")
		}
		slots = append(slots, parsedSlot{start: start, end: end, kind: template.Kind})
	}

	result := &runResult{PerDay: make(map[int]int)}
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		for _, slot := range slots {
			if slot.kind == models.SlotKindBreak {
				continue
			}
			if err := a.fillSlot(ctx, exec, in, day, slot, result); err != nil {
				return nil, err
			}
		}
		result.PerDay[day] = a.tracker.placedOn(day)
	}
	return result, nil
}

// fillSlot tries every (course, room, instructor) combination for one slot
// and accepts the first that passes all checks. An unfillable slot is left
// empty; that alone is not fatal.
func (a *allocator) fillSlot(ctx context.Context, exec sqlx.ExtContext, in allocationInput, day int, slot parsedSlot, result *runResult) error {
	if a.tracker.isSlotTimeUsed(day, slot.start, slot.end) {
		return nil
	}
	for _, course := range in.Courses {
		if a.tracker.courseUsed(day, course.ID) {
			continue
		}
		instructors := in.InstructorsByCourse[course.ID]
		if len(instructors) == 0 {
			// skipped for this slot only; the course may still land later
			continue
		}
		for _, room := range in.Rooms {
			for _, instructor := range instructors {
				if a.tracker.hasConflict(day, slot.start, slot.end, room.ID, instructor.ID) {
					continue
				}
				busy, err := a.assignments.ExistsPublishedConflict(ctx, exec, in.ScheduleID,
					day, slot.start.String(), slot.end.String(), room.ID, instructor.ID)
				if err != nil {
					return err
				}
				if busy {
					continue
				}

				assignment := &models.Assignment{
					ScheduleDayID: in.DayIDs[day],
					CourseID:      course.ID,
					RoomID:        room.ID,
					InstructorID:  instructor.ID,
					DayOfWeek:     day,
					StartTime:     slot.start.String(),
					EndTime:       slot.end.String(),
				}
				if err := a.assignments.Create(ctx, exec, assignment); err != nil {
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignment")
				}
				a.tracker.record(day, slot.start, slot.end, room.ID, instructor.ID, course.ID)
				result.Total++
				a.logger.Debug("slot filled",
					zap.String("day", models.WeekdayName(day)),
					zap.String("start", slot.start.String()),
					zap.String("course", course.ID),
					zap.String("room", room.ID),
					zap.String("instructor", instructor.ID),
				)
				return nil
			}
		}
	}
	a.logger.Debug("slot left empty",
		zap.String("day", models.WeekdayName(day)),
		zap.String("slot", fmt.Sprintf("%s-%s", slot.start, slot.end)),
	)
	return nil
}
