package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// AssignmentRepository persists placed course meetings.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts one assignment, typically inside the run transaction.
func (r *AssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	target := r.exec(exec)
	const query = `INSERT INTO assignments (id, schedule_day_id, course_id, room_id, instructor_id, day_of_week, start_time, end_time, created_at)
VALUES (:id, :schedule_day_id, :course_id, :room_id, :instructor_id, :day_of_week, :start_time, :end_time, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// ExistsPublishedConflict reports whether any published schedule other than
// excludeScheduleID already occupies the room or the instructor at the exact
// day and time. One call per placement candidate.
func (r *AssignmentRepository) ExistsPublishedConflict(ctx context.Context, exec sqlx.ExtContext, excludeScheduleID string, dayOfWeek int, startTime, endTime, roomID, instructorID string) (bool, error) {
	target := r.exec(exec)
	const query = `SELECT EXISTS (
SELECT 1 FROM assignments a
JOIN schedule_days d ON d.id = a.schedule_day_id
JOIN schedules s ON s.id = d.schedule_id
WHERE s.status = $1 AND s.id <> $2
  AND a.day_of_week = $3 AND a.start_time = $4 AND a.end_time = $5
  AND (a.room_id = $6 OR a.instructor_id = $7))`
	var exists bool
	if err := sqlx.GetContext(ctx, target, &exists, query,
		models.ScheduleStatusPublished, excludeScheduleID,
		dayOfWeek, startTime, endTime, roomID, instructorID); err != nil {
		return false, fmt.Errorf("check published assignment conflict: %w", err)
	}
	return exists, nil
}

// ListBySchedule returns assignments for a schedule with display names,
// ordered by day then start time.
func (r *AssignmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.schedule_day_id, a.course_id, a.room_id, a.instructor_id,
a.day_of_week, a.start_time, a.end_time, a.created_at,
c.name AS course_name, r.name AS room_name, i.name AS instructor_name
FROM assignments a
JOIN schedule_days d ON d.id = a.schedule_day_id
JOIN courses c ON c.id = a.course_id
JOIN rooms r ON r.id = a.room_id
JOIN instructors i ON i.id = a.instructor_id
WHERE d.schedule_id = $1
ORDER BY a.day_of_week ASC, a.start_time ASC`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list assignments by schedule: %w", err)
	}
	return assignments, nil
}

// CountBySchedule returns the total number of assignments for a schedule.
func (r *AssignmentRepository) CountBySchedule(ctx context.Context, scheduleID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignments a
JOIN schedule_days d ON d.id = a.schedule_day_id
WHERE d.schedule_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, scheduleID); err != nil {
		return 0, fmt.Errorf("count assignments by schedule: %w", err)
	}
	return total, nil
}
