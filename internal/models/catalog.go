package models

import "time"

// Course is a teachable unit owned by a department/batch/semester scope.
// Immutable for the duration of an allocation run.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	SemesterID   string    `db:"semester_id" json:"semester_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RoomType classifies rooms for slot-kind matching.
type RoomType string

const (
	RoomTypeLecture RoomType = "LECTURE"
	RoomTypeLab     RoomType = "LAB"
	RoomTypeOther   RoomType = "OTHER"
)

// Room is a physical room. Availability is read once at run start.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      RoomType  `db:"type" json:"type"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorStatus gates eligibility: only ACTIVE instructors are scheduled.
type InstructorStatus string

const (
	InstructorStatusActive   InstructorStatus = "ACTIVE"
	InstructorStatusInactive InstructorStatus = "INACTIVE"
)

// Instructor is a teaching staff member. The set of courses an instructor is
// qualified for lives in the instructor_courses join table.
type Instructor struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Status    InstructorStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// SlotKind classifies slot templates. Break slots are never assigned courses.
type SlotKind string

const (
	SlotKindLecture SlotKind = "LECTURE"
	SlotKindLab     SlotKind = "LAB"
	SlotKindBreak   SlotKind = "BREAK"
)

// TimeSlot is a candidate time interval template scoped to a department.
// Start and end are wall-clock "HH:MM" values within one day.
type TimeSlot struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	Kind         SlotKind  `db:"kind" json:"kind"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
