package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/export"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type courseReader interface {
	ListByScope(ctx context.Context, departmentID, batchID, semesterID string) ([]models.Course, error)
}

type roomReader interface {
	ListAvailable(ctx context.Context) ([]models.Room, error)
}

type slotTemplateReader interface {
	ListActive(ctx context.Context, departmentID string) ([]models.TimeSlot, error)
}

type instructorReader interface {
	ListActiveByCourse(ctx context.Context, courseID string) ([]models.Instructor, error)
}

type scheduleStore interface {
	DemotePublished(ctx context.Context, exec sqlx.ExtContext, scope models.ScheduleScope) (int64, error)
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
	CreateDay(ctx context.Context, exec sqlx.ExtContext, day *models.ScheduleDay) error
	FindPublished(ctx context.Context, scope models.ScheduleScope) (*models.Schedule, error)
	ListByScope(ctx context.Context, scope models.ScheduleScope) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Delete(ctx context.Context, id string) error
}

type assignmentStore interface {
	assignmentWriter
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.AssignmentDetail, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runObserver interface {
	ObserveTimetableRun(outcome string, duration time.Duration, assignments int)
}

// runState labels the phases of one allocation run for logging.
type runState string

const (
	statePreparing  runState = "preparing"
	stateAllocating runState = "allocating"
	stateValidating runState = "validating"
	stateFinalized  runState = "finalized"
	stateAborted    runState = "aborted"
)

// TimetableConfig governs run behaviour.
type TimetableConfig struct {
	MinPerDay    int
	TimetableTTL time.Duration
}

// TimetableService coordinates allocation runs and serves published
// timetables. One run is an all-or-nothing unit: the prior published
// schedule is demoted, a new one is built and validated, and the whole
// attempt commits or rolls back as a single transaction.
type TimetableService struct {
	courses     courseReader
	rooms       roomReader
	slots       slotTemplateReader
	instructors instructorReader
	schedules   scheduleStore
	assignments assignmentStore
	cache       timetableCache
	tx          txProvider
	metrics     runObserver
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         TimetableConfig
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	courses courseReader,
	rooms roomReader,
	slots slotTemplateReader,
	instructors instructorReader,
	schedules scheduleStore,
	assignments assignmentStore,
	cache timetableCache,
	tx txProvider,
	metrics runObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinPerDay <= 0 {
		cfg.MinPerDay = 2
	}
	if cfg.TimetableTTL <= 0 {
		cfg.TimetableTTL = 5 * time.Minute
	}
	return &TimetableService{
		courses:     courses,
		rooms:       rooms,
		slots:       slots,
		instructors: instructors,
		schedules:   schedules,
		assignments: assignments,
		cache:       cache,
		tx:          tx,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate runs one full allocation attempt for the requested scope.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	started := time.Now()
	resp, err := s.generate(ctx, req)
	if s.metrics != nil {
		outcome := string(stateFinalized)
		assignments := 0
		if err != nil {
			outcome = string(stateAborted)
		} else {
			assignments = resp.AssignmentCount
		}
		s.metrics.ObserveTimetableRun(outcome, time.Since(started), assignments)
	}
	return resp, err
}

func (s *TimetableService) generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	scope := models.ScheduleScope{
		DepartmentID: req.DepartmentID,
		BatchID:      req.BatchID,
		SemesterID:   req.SemesterID,
		Section:      req.Section,
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	// initial bulk reads, taken once before the run mutates anything
	courses, err := s.courses.ListByScope(ctx, scope.DepartmentID, scope.BatchID, scope.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	rooms, err := s.rooms.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	slots, err := s.slots.ListActive(ctx, scope.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	instructorsByCourse := make(map[string][]models.Instructor, len(courses))
	for _, course := range courses {
		instructors, err := s.instructors.ListActiveByCourse(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
		}
		instructorsByCourse[course.ID] = instructors
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin run transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	s.logRunState(statePreparing, scope)
	demoted, err := s.schedules.DemotePublished(ctx, tx, scope)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to demote prior schedule")
		return nil, err
	}
	if demoted > 0 {
		s.logger.Info("prior published schedule demoted to draft",
			zap.String("department", scope.DepartmentID),
			zap.String("section", scope.Section),
		)
	}

	meta, marshalErr := json.Marshal(map[string]any{
		"algorithm": "greedy_first_fit_v1",
		"generated": time.Now().UTC(),
		"minPerDay": s.cfg.MinPerDay,
	})
	if marshalErr != nil {
		err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule metadata")
		return nil, err
	}

	schedule := &models.Schedule{
		DepartmentID: scope.DepartmentID,
		BatchID:      scope.BatchID,
		SemesterID:   scope.SemesterID,
		Section:      scope.Section,
		Status:       models.ScheduleStatusPublished,
		Meta:         types.JSONText(meta),
	}
	if err = s.schedules.CreateVersioned(ctx, tx, schedule); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
		return nil, err
	}

	dayIDs := make(map[int]string, models.WeekdaySaturday)
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		container := &models.ScheduleDay{ScheduleID: schedule.ID, DayOfWeek: day}
		if err = s.schedules.CreateDay(ctx, tx, container); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule day")
			return nil, err
		}
		dayIDs[day] = container.ID
	}

	s.logRunState(stateAllocating, scope)
	engine := newAllocator(s.assignments, s.logger)
	result, err := engine.run(ctx, tx, allocationInput{
		ScheduleID:          schedule.ID,
		DayIDs:              dayIDs,
		Courses:             courses,
		Rooms:               rooms,
		Slots:               slots,
		InstructorsByCourse: instructorsByCourse,
	})
	if err != nil {
		s.logRunState(stateAborted, scope)
		return nil, err
	}

	s.logRunState(stateValidating, scope)
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		if count := result.PerDay[day]; count < s.cfg.MinPerDay {
			err = appErrors.Clone(appErrors.ErrCoverage,
				fmt.Sprintf("%s received %d assignments, minimum is %d", models.WeekdayName(day), count, s.cfg.MinPerDay))
			s.logRunState(stateAborted, scope)
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit run transaction")
		return nil, err
	}
	s.logRunState(stateFinalized, scope)

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, timetableCacheKey(scope)); cacheErr != nil {
			s.logger.Warn("failed to invalidate timetable cache", zap.Error(cacheErr))
		}
	}

	return &dto.GenerateTimetableResponse{
		ScheduleID:      schedule.ID,
		Version:         schedule.Version,
		CourseCount:     len(courses),
		AssignmentCount: result.Total,
	}, nil
}

// GetTimetable returns the published weekly timetable for a scope.
func (s *TimetableService) GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableView, error) {
	scope, err := scopeFromQuery(query)
	if err != nil {
		return nil, err
	}

	key := timetableCacheKey(scope)
	if s.cache != nil {
		var cached dto.TimetableView
		if cacheErr := s.cache.Get(ctx, key, &cached); cacheErr == nil {
			return &cached, nil
		}
	}

	schedule, err := s.schedules.FindPublished(ctx, scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no published timetable for this scope")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	view, err := s.buildView(ctx, schedule)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, view, s.cfg.TimetableTTL); cacheErr != nil {
			s.logger.Warn("failed to cache timetable", zap.Error(cacheErr))
		}
	}
	return view, nil
}

// Export renders the published timetable for a scope as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, query dto.TimetableQuery, format string) ([]byte, string, error) {
	view, err := s.GetTimetable(ctx, query)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Course", "Room", "Instructor"},
	}
	for _, day := range view.Days {
		for _, entry := range day.Entries {
			dataset.Rows = append(dataset.Rows, []string{
				day.DayName, entry.StartTime, entry.EndTime,
				entry.CourseName, entry.RoomName, entry.InstructorName,
			})
		}
	}

	switch format {
	case "csv", "":
		payload, renderErr := export.NewCSVExporter().Render(dataset)
		if renderErr != nil {
			return nil, "", appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, renderErr := export.NewPDFExporter().Render(dataset, "Weekly Timetable")
		if renderErr != nil {
			return nil, "", appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// ListSchedules returns all schedule versions for a scope, newest first.
func (s *TimetableService) ListSchedules(ctx context.Context, query dto.TimetableQuery) ([]models.Schedule, error) {
	scope, err := scopeFromQuery(query)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListByScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// GetAssignments returns assignment detail for a stored schedule.
func (s *TimetableService) GetAssignments(ctx context.Context, scheduleID string) ([]models.AssignmentDetail, error) {
	if scheduleID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	assignments, err := s.assignments.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// DeleteSchedule removes a draft schedule version. Published schedules are
// only ever superseded, never deleted.
func (s *TimetableService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	record, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if record.Status != models.ScheduleStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft schedules can be deleted")
	}
	if err := s.schedules.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

func (s *TimetableService) buildView(ctx context.Context, schedule *models.Schedule) (*dto.TimetableView, error) {
	assignments, err := s.assignments.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	byDay := make(map[int][]dto.TimetableEntry)
	for _, assignment := range assignments {
		byDay[assignment.DayOfWeek] = append(byDay[assignment.DayOfWeek], dto.TimetableEntry{
			CourseID:       assignment.CourseID,
			CourseName:     assignment.CourseName,
			RoomID:         assignment.RoomID,
			RoomName:       assignment.RoomName,
			InstructorID:   assignment.InstructorID,
			InstructorName: assignment.InstructorName,
			StartTime:      assignment.StartTime,
			EndTime:        assignment.EndTime,
		})
	}

	view := &dto.TimetableView{ScheduleID: schedule.ID, Version: schedule.Version}
	for day := models.WeekdayMonday; day <= models.WeekdaySaturday; day++ {
		entries := byDay[day]
		if entries == nil {
			entries = []dto.TimetableEntry{}
		}
		view.Days = append(view.Days, dto.TimetableDay{
			DayOfWeek: day,
			DayName:   models.WeekdayName(day),
			Entries:   entries,
		})
	}
	return view, nil
}

func (s *TimetableService) logRunState(state runState, scope models.ScheduleScope) {
	s.logger.Info("timetable run state",
		zap.String("state", string(state)),
		zap.String("department", scope.DepartmentID),
		zap.String("batch", scope.BatchID),
		zap.String("semester", scope.SemesterID),
		zap.String("section", scope.Section),
	)
}

func scopeFromQuery(query dto.TimetableQuery) (models.ScheduleScope, error) {
	if query.DepartmentID == "" || query.BatchID == "" || query.SemesterID == "" || query.Section == "" {
		return models.ScheduleScope{}, appErrors.Clone(appErrors.ErrValidation, "departmentId, batchId, semesterId and section are required")
	}
	return models.ScheduleScope{
		DepartmentID: query.DepartmentID,
		BatchID:      query.BatchID,
		SemesterID:   query.SemesterID,
		Section:      query.Section,
	}, nil
}

func timetableCacheKey(scope models.ScheduleScope) string {
	return fmt.Sprintf("timetable:%s:%s:%s:%s", scope.DepartmentID, scope.BatchID, scope.SemesterID, scope.Section)
}
