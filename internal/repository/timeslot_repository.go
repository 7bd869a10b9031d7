package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimeSlotRepository manages slot templates per department.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository builds repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListActive returns active slot templates for a department ordered by start
// time, the order the allocation engine iterates in.
func (r *TimeSlotRepository) ListActive(ctx context.Context, departmentID string) ([]models.TimeSlot, error) {
	const query = `SELECT id, department_id, start_time, end_time, kind, active, created_at
FROM time_slots WHERE department_id = $1 AND active = true ORDER BY start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, departmentID); err != nil {
		return nil, fmt.Errorf("list active time slots: %w", err)
	}
	return slots, nil
}

// List returns every slot template for a department.
func (r *TimeSlotRepository) List(ctx context.Context, departmentID string) ([]models.TimeSlot, error) {
	const query = `SELECT id, department_id, start_time, end_time, kind, active, created_at
FROM time_slots WHERE department_id = $1 ORDER BY start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, departmentID); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// ReplaceForDepartment deactivates the department's current templates and
// inserts the freshly synthesized set in one transaction.
func (r *TimeSlotRepository) ReplaceForDepartment(ctx context.Context, departmentID string, slots []models.TimeSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace time slots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE time_slots SET active = false WHERE department_id = $1 AND active = true`, departmentID); err != nil {
		return fmt.Errorf("deactivate time slots: %w", err)
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO time_slots (id, department_id, start_time, end_time, kind, active, created_at)
VALUES (:id, :department_id, :start_time, :end_time, :kind, :active, :created_at)`
	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		slot.DepartmentID = departmentID
		slot.Active = true
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, insertQuery, slot); err != nil {
			return fmt.Errorf("insert time slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace time slots: %w", err)
	}
	return nil
}
