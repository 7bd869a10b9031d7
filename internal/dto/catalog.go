package dto

// CreateCourseRequest registers a course within a scope.
type CreateCourseRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID string `json:"departmentId" validate:"required"`
	BatchID      string `json:"batchId" validate:"required"`
	SemesterID   string `json:"semesterId" validate:"required"`
}

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=LECTURE LAB OTHER"`
	Available *bool  `json:"available"`
}

// CreateInstructorRequest registers an instructor.
type CreateInstructorRequest struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// SetInstructorCoursesRequest replaces the qualification set for an
// instructor.
type SetInstructorCoursesRequest struct {
	CourseIDs []string `json:"courseIds" validate:"required"`
}
