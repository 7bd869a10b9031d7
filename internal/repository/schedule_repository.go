package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ScheduleRepository persists versioned weekly timetables.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DemotePublished moves any published schedule for the scope back to draft.
// Returns the number of demoted rows (0 or 1 under the uniqueness invariant).
func (r *ScheduleRepository) DemotePublished(ctx context.Context, exec sqlx.ExtContext, scope models.ScheduleScope) (int64, error) {
	target := r.exec(exec)
	const query = `UPDATE schedules SET status = $1, updated_at = $2
WHERE department_id = $3 AND batch_id = $4 AND semester_id = $5 AND section = $6 AND status = $7`
	result, err := target.ExecContext(ctx, query,
		models.ScheduleStatusDraft, time.Now().UTC(),
		scope.DepartmentID, scope.BatchID, scope.SemesterID, scope.Section,
		models.ScheduleStatusPublished,
	)
	if err != nil {
		return 0, fmt.Errorf("demote published schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("demote published rows affected: %w", err)
	}
	return affected, nil
}

// CreateVersioned inserts a schedule assigning the next version for its
// scope.
func (r *ScheduleRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule == nil {
		return fmt.Errorf("schedule payload is nil")
	}
	if schedule.DepartmentID == "" || schedule.BatchID == "" || schedule.SemesterID == "" || schedule.Section == "" {
		return fmt.Errorf("department_id, batch_id, semester_id and section are required")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusDraft
	}
	if len(schedule.Meta) == 0 {
		schedule.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM schedules
WHERE department_id = $1 AND batch_id = $2 AND semester_id = $3 AND section = $4`
	if err := sqlx.GetContext(ctx, target, &schedule.Version, nextVersionQuery,
		schedule.DepartmentID, schedule.BatchID, schedule.SemesterID, schedule.Section); err != nil {
		return fmt.Errorf("compute next schedule version: %w", err)
	}

	const insertQuery = `
INSERT INTO schedules (id, department_id, batch_id, semester_id, section, version, status, meta, created_at, updated_at)
VALUES (:id, :department_id, :batch_id, :semester_id, :section, :version, :status, :meta, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, schedule); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// CreateDay inserts one weekday container for a schedule.
func (r *ScheduleRepository) CreateDay(ctx context.Context, exec sqlx.ExtContext, day *models.ScheduleDay) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	if day.CreatedAt.IsZero() {
		day.CreatedAt = time.Now().UTC()
	}
	target := r.exec(exec)
	const query = `INSERT INTO schedule_days (id, schedule_id, day_of_week, created_at)
VALUES (:id, :schedule_id, :day_of_week, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, day); err != nil {
		return fmt.Errorf("insert schedule day: %w", err)
	}
	return nil
}

// FindPublished loads the single published schedule for a scope.
func (r *ScheduleRepository) FindPublished(ctx context.Context, scope models.ScheduleScope) (*models.Schedule, error) {
	const query = `SELECT id, department_id, batch_id, semester_id, section, version, status, meta, created_at, updated_at
FROM schedules WHERE department_id = $1 AND batch_id = $2 AND semester_id = $3 AND section = $4 AND status = $5`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query,
		scope.DepartmentID, scope.BatchID, scope.SemesterID, scope.Section,
		models.ScheduleStatusPublished); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListByScope returns all schedule versions for a scope, newest first.
func (r *ScheduleRepository) ListByScope(ctx context.Context, scope models.ScheduleScope) ([]models.Schedule, error) {
	const query = `SELECT id, department_id, batch_id, semester_id, section, version, status, meta, created_at, updated_at
FROM schedules WHERE department_id = $1 AND batch_id = $2 AND semester_id = $3 AND section = $4 ORDER BY version DESC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query,
		scope.DepartmentID, scope.BatchID, scope.SemesterID, scope.Section); err != nil {
		return nil, fmt.Errorf("list schedules by scope: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by its identifier.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, department_id, batch_id, semester_id, section, version, status, meta, created_at, updated_at
FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Delete removes a stored schedule version. Days and assignments cascade at
// the database level.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
