package models

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ScheduleStatus represents lifecycle phases for generated timetables.
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "DRAFT"
	ScheduleStatusPublished ScheduleStatus = "PUBLISHED"
)

// ScheduleScope identifies the (department, batch, semester, section) tuple a
// timetable belongs to. At most one PUBLISHED schedule exists per scope.
type ScheduleScope struct {
	DepartmentID string `db:"department_id" json:"department_id"`
	BatchID      string `db:"batch_id" json:"batch_id"`
	SemesterID   string `db:"semester_id" json:"semester_id"`
	Section      string `db:"section" json:"section"`
}

// Schedule is one full weekly timetable for a scope.
type Schedule struct {
	ID           string         `db:"id" json:"id"`
	DepartmentID string         `db:"department_id" json:"department_id"`
	BatchID      string         `db:"batch_id" json:"batch_id"`
	SemesterID   string         `db:"semester_id" json:"semester_id"`
	Section      string         `db:"section" json:"section"`
	Version      int            `db:"version" json:"version"`
	Status       ScheduleStatus `db:"status" json:"status"`
	Meta         types.JSONText `db:"meta" json:"meta"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Scope extracts the owning tuple.
func (s *Schedule) Scope() ScheduleScope {
	return ScheduleScope{
		DepartmentID: s.DepartmentID,
		BatchID:      s.BatchID,
		SemesterID:   s.SemesterID,
		Section:      s.Section,
	}
}

// ScheduleDay is one weekday container within a schedule. Every run creates
// exactly one per weekday, Monday through Saturday.
type ScheduleDay struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	DayOfWeek  int       `db:"day_of_week" json:"day_of_week"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Assignment is one course meeting placed at a specific day/time/room/
// instructor. Never mutated after creation within a run.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	ScheduleDayID string    `db:"schedule_day_id" json:"schedule_day_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	RoomID        string    `db:"room_id" json:"room_id"`
	InstructorID  string    `db:"instructor_id" json:"instructor_id"`
	DayOfWeek     int       `db:"day_of_week" json:"day_of_week"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins an assignment with display names for read views.
type AssignmentDetail struct {
	Assignment
	CourseName     string `db:"course_name" json:"course_name"`
	RoomName       string `db:"room_name" json:"room_name"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}

// Weekday bounds for one timetable week, Monday (1) through Saturday (6).
const (
	WeekdayMonday   = 1
	WeekdaySaturday = 6
)

var weekdayNames = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
}

var weekdayIndexes = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
}

// WeekdayName maps 1..6 to its canonical uppercase name.
func WeekdayName(day int) string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return "MONDAY"
}

// WeekdayIndex maps a name back to 1..6, zero when unknown.
func WeekdayIndex(name string) int {
	return weekdayIndexes[strings.ToUpper(strings.TrimSpace(name))]
}
