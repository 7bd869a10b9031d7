package dto

// GenerateTimetableRequest identifies the scope for one allocation run.
type GenerateTimetableRequest struct {
	DepartmentID string `json:"departmentId" validate:"required"`
	BatchID      string `json:"batchId" validate:"required"`
	SemesterID   string `json:"semesterId" validate:"required"`
	Section      string `json:"section" validate:"required"`
}

// GenerateTimetableResponse summarises a finalized run.
type GenerateTimetableResponse struct {
	ScheduleID      string `json:"scheduleId"`
	Version         int    `json:"version"`
	CourseCount     int    `json:"courseCount"`
	AssignmentCount int    `json:"assignmentCount"`
}

// TimetableQuery selects the published timetable for a scope.
type TimetableQuery struct {
	DepartmentID string `form:"departmentId" json:"departmentId"`
	BatchID      string `form:"batchId" json:"batchId"`
	SemesterID   string `form:"semesterId" json:"semesterId"`
	Section      string `form:"section" json:"section"`
}

// TimetableEntry is one placed meeting in a weekly view.
type TimetableEntry struct {
	CourseID       string `json:"courseId"`
	CourseName     string `json:"courseName"`
	RoomID         string `json:"roomId"`
	RoomName       string `json:"roomName"`
	InstructorID   string `json:"instructorId"`
	InstructorName string `json:"instructorName"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

// TimetableDay groups entries for one weekday.
type TimetableDay struct {
	DayOfWeek int              `json:"dayOfWeek"`
	DayName   string           `json:"dayName"`
	Entries   []TimetableEntry `json:"entries"`
}

// TimetableView is the published weekly timetable for a scope.
type TimetableView struct {
	ScheduleID string         `json:"scheduleId"`
	Version    int            `json:"version"`
	Days       []TimetableDay `json:"days"`
}

// GenerateSlotsRequest drives the slot synthesizer for a department.
type GenerateSlotsRequest struct {
	DepartmentID   string `json:"departmentId" validate:"required"`
	DayStart       string `json:"dayStart" validate:"required"`
	DayEnd         string `json:"dayEnd" validate:"required"`
	BreakStart     string `json:"breakStart" validate:"required"`
	BreakEnd       string `json:"breakEnd" validate:"required"`
	LectureMinutes int    `json:"lectureMinutes" validate:"required,min=1"`
	LabMinutes     int    `json:"labMinutes" validate:"min=0"`
}
