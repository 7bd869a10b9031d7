package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// InstructorRepository provides persistence for instructors and their course
// qualifications.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new instructor repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// ListActiveByCourse returns active instructors qualified for a course in
// stable id order.
func (r *InstructorRepository) ListActiveByCourse(ctx context.Context, courseID string) ([]models.Instructor, error) {
	const query = `SELECT i.id, i.name, i.status, i.created_at, i.updated_at
FROM instructors i
JOIN instructor_courses ic ON ic.instructor_id = i.id
WHERE ic.course_id = $1 AND i.status = $2
ORDER BY i.id ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, courseID, models.InstructorStatusActive); err != nil {
		return nil, fmt.Errorf("list active instructors by course: %w", err)
	}
	return instructors, nil
}

// List returns every instructor.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT id, name, status, created_at, updated_at FROM instructors ORDER BY id ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// Create stores a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	if instructor.Status == "" {
		instructor.Status = models.InstructorStatusActive
	}
	now := time.Now().UTC()
	if instructor.CreatedAt.IsZero() {
		instructor.CreatedAt = now
	}
	instructor.UpdatedAt = now

	const query = `INSERT INTO instructors (id, name, status, created_at, updated_at)
VALUES (:id, :name, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

// SetCourses replaces the qualification set for an instructor atomically.
func (r *InstructorRepository) SetCourses(ctx context.Context, instructorID string, courseIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set instructor courses: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM instructor_courses WHERE instructor_id = $1`, instructorID); err != nil {
		return fmt.Errorf("clear instructor courses: %w", err)
	}
	for _, courseID := range courseIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO instructor_courses (instructor_id, course_id) VALUES ($1, $2)`, instructorID, courseID); err != nil {
			return fmt.Errorf("insert instructor course: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set instructor courses: %w", err)
	}
	return nil
}
