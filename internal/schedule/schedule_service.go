package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-staffing/internal/audit"
	"go-staffing/internal/directory"
	scheduleerrors "go-staffing/internal/schedule/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID, actorRole string, req CreateScheduleRequest) (ScheduleResponse, error)
	GetAll(ctx context.Context) ([]ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (ScheduleResponse, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateScheduleRequest) (ScheduleResponse, error)
	Transition(ctx context.Context, actorID, actorRole, id, target string) (ScheduleResponse, error)
	FindConflicts(ctx context.Context, req ConflictProbeRequest) ([]ConflictDetail, error)
	EmployeeCalendar(ctx context.Context, employeeID string) (EmployeeCalendarResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory directory.Repository
	recorder  audit.Recorder
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, dir directory.Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{db: db, repo: repo, directory: dir, recorder: recorder, logger: l}
}

// Create books a shift. Every creation starts in planned regardless of actor:
// only an explicit transition by hr/admin advances it.
func (s *service) Create(ctx context.Context, actorID, actorRole string, req CreateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("create schedule requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	fields, err := validateScheduleFields(actorID, req.EmployeeID, req.ClientID, req.StartDate, req.EndDate, req.StartTime, req.EndTime, req.WeeklyHours)
	if err != nil {
		s.logger.Warn("create schedule validation failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := s.checkReferences(ctx, req.EmployeeID, req.ClientID); err != nil {
		return ScheduleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create schedule begin tx failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	conflicts, err := qtx.FindOverlapping(ctx, req.EmployeeID, fields.startDate, fields.endDate, nil)
	if err != nil {
		s.logger.Error("create schedule overlap check failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	if len(conflicts) > 0 {
		s.logger.Warn("create schedule conflict detected",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("conflicts", len(conflicts)),
		)
		return ScheduleResponse{}, conflictError(conflicts)
	}

	sched := &Schedule{
		ID:          uuid.New(),
		EmployeeID:  fields.employeeID,
		ClientID:    fields.clientID,
		StartDate:   fields.startDate,
		EndDate:     fields.endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		WeeklyHours: req.WeeklyHours,
		Status:      StatusPlanned,
		Notes:       req.Notes,
		CreatedBy:   fields.actorID,
	}

	if err := qtx.Create(ctx, sched); err != nil {
		s.logger.Error("create schedule persist failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create schedule commit failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	s.logger.Info("create schedule success",
		zap.String("schedule_id", sched.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	// Best-effort; never gates the response.
	s.recorder.RecordCreate(ctx, actorID, "schedule", sched.ID.String(), sched.auditMap(), "")

	return mapToResponse(*sched), nil
}

func (s *service) GetAll(ctx context.Context) ([]ScheduleResponse, error) {
	schedules, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(schedules), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ScheduleResponse, error) {
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}
	return mapToResponse(*sched), nil
}

func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateScheduleRequest) (ScheduleResponse, error) {
	s.logger.Debug("update schedule requested",
		zap.String("schedule_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status),
	)

	fields, err := validateScheduleFields(actorID, req.EmployeeID, req.ClientID, req.StartDate, req.EndDate, req.StartTime, req.EndTime, req.WeeklyHours)
	if err != nil {
		s.logger.Warn("update schedule validation failed", zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := s.checkReferences(ctx, req.EmployeeID, req.ClientID); err != nil {
		return ScheduleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update schedule begin tx failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sched, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}

	if IsTerminal(sched.Status) {
		return ScheduleResponse{}, scheduleerrors.ErrScheduleTerminal
	}

	targetStatus := sched.Status
	if req.Status != "" && req.Status != sched.Status {
		if !isAllowedTransition(sched.Status, req.Status, actorRole) {
			s.logger.Warn("update schedule transition rejected",
				zap.String("schedule_id", id),
				zap.String("from_status", sched.Status),
				zap.String("to_status", req.Status),
				zap.String("actor_role", actorRole),
			)
			return ScheduleResponse{}, scheduleerrors.ErrInvalidStatusTransition
		}
		targetStatus = req.Status
	}

	// The resulting booking may only occupy the calendar if it still blocks.
	if IsBlocking(targetStatus) {
		conflicts, err := qtx.FindOverlapping(ctx, req.EmployeeID, fields.startDate, fields.endDate, &id)
		if err != nil {
			s.logger.Error("update schedule overlap check failed", zap.Error(err))
			return ScheduleResponse{}, err
		}
		if len(conflicts) > 0 {
			return ScheduleResponse{}, conflictError(conflicts)
		}
	}

	before := sched.auditMap()

	sched.EmployeeID = fields.employeeID
	sched.ClientID = fields.clientID
	sched.StartDate = fields.startDate
	sched.EndDate = fields.endDate
	sched.StartTime = req.StartTime
	sched.EndTime = req.EndTime
	sched.WeeklyHours = req.WeeklyHours
	sched.Notes = req.Notes
	sched.Status = targetStatus

	if err := qtx.Update(ctx, sched); err != nil {
		s.logger.Error("update schedule persist failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update schedule commit failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}

	s.logger.Info("update schedule success",
		zap.String("schedule_id", id),
		zap.String("status", sched.Status),
	)

	s.recorder.RecordUpdate(ctx, actorID, "schedule", id, before, sched.auditMap(), "")

	return mapToResponse(*sched), nil
}

// Transition changes only the status, through the same state machine as a
// full update.
func (s *service) Transition(ctx context.Context, actorID, actorRole, id, target string) (ScheduleResponse, error) {
	s.logger.Debug("transition schedule requested",
		zap.String("schedule_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", target),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition schedule begin tx failed", zap.Error(err))
		return ScheduleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sched, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScheduleResponse{}, scheduleerrors.ErrScheduleNotFound
		}
		return ScheduleResponse{}, err
	}

	if IsTerminal(sched.Status) {
		return ScheduleResponse{}, scheduleerrors.ErrScheduleTerminal
	}
	if !isAllowedTransition(sched.Status, target, actorRole) {
		s.logger.Warn("transition schedule rejected",
			zap.String("schedule_id", id),
			zap.String("from_status", sched.Status),
			zap.String("to_status", target),
		)
		return ScheduleResponse{}, scheduleerrors.ErrInvalidStatusTransition
	}

	// Returning to a blocking status must not re-collide with bookings made
	// while this one was on leave.
	if !IsBlocking(sched.Status) && IsBlocking(target) {
		conflicts, err := qtx.FindOverlapping(ctx, sched.EmployeeID.String(), sched.StartDate, sched.EndDate, &id)
		if err != nil {
			return ScheduleResponse{}, err
		}
		if len(conflicts) > 0 {
			return ScheduleResponse{}, conflictError(conflicts)
		}
	}

	before := sched.auditMap()
	sched.Status = target

	if err := qtx.Update(ctx, sched); err != nil {
		s.logger.Error("transition schedule persist failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition schedule commit failed", zap.String("schedule_id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}

	s.logger.Info("transition schedule success",
		zap.String("schedule_id", id),
		zap.String("status", target),
	)

	s.recorder.RecordUpdate(ctx, actorID, "schedule", id, before, sched.auditMap(), "")

	return mapToResponse(*sched), nil
}

// FindConflicts is the detector's read-only contract: no writes, identical
// inputs yield identical results while the calendar is unchanged.
func (s *service) FindConflicts(ctx context.Context, req ConflictProbeRequest) ([]ConflictDetail, error) {
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return nil, scheduleerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, scheduleerrors.ErrInvalidDateRange
	}

	conflicts, err := s.repo.FindOverlapping(ctx, req.EmployeeID, startDate, endDate, req.ExcludeID)
	if err != nil {
		return nil, err
	}
	return mapToConflictDetails(conflicts), nil
}

// EmployeeCalendar returns the employee together with every schedule of
// theirs in one deliberate batched lookup.
func (s *service) EmployeeCalendar(ctx context.Context, employeeID string) (EmployeeCalendarResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeCalendarResponse{}, scheduleerrors.ErrInvalidEmployeeID
	}

	employee, err := s.directory.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeCalendarResponse{}, scheduleerrors.ErrEmployeeNotFound
		}
		return EmployeeCalendarResponse{}, err
	}

	schedules, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeCalendarResponse{}, err
	}

	return EmployeeCalendarResponse{
		Employee: EmployeeSummary{
			ID:    employee.ID.String(),
			Name:  employee.FullName(),
			Email: employee.Email,
		},
		Schedules: mapToListResponse(schedules),
	}, nil
}

func (s *service) checkReferences(ctx context.Context, employeeID, clientID string) error {
	exists, err := s.directory.EmployeeExists(ctx, employeeID)
	if err != nil {
		s.logger.Error("employee lookup failed", zap.Error(err))
		return err
	}
	if !exists {
		return scheduleerrors.ErrEmployeeNotFound
	}

	exists, err = s.directory.ClientExists(ctx, clientID)
	if err != nil {
		s.logger.Error("client lookup failed", zap.Error(err))
		return err
	}
	if !exists {
		return scheduleerrors.ErrClientNotFound
	}
	return nil
}

type scheduleFields struct {
	actorID    uuid.UUID
	employeeID uuid.UUID
	clientID   uuid.UUID
	startDate  time.Time
	endDate    time.Time
}

func validateScheduleFields(actorID, employeeID, clientID, startDate, endDate, startTime, endTime string, weeklyHours float64) (scheduleFields, error) {
	var f scheduleFields
	var err error

	if f.actorID, err = uuid.Parse(actorID); err != nil {
		return f, scheduleerrors.ErrInvalidActorID
	}
	if f.employeeID, err = uuid.Parse(employeeID); err != nil {
		return f, scheduleerrors.ErrInvalidEmployeeID
	}
	if f.clientID, err = uuid.Parse(clientID); err != nil {
		return f, scheduleerrors.ErrInvalidClientID
	}
	if f.startDate, err = parseDate(startDate); err != nil {
		return f, err
	}
	if f.endDate, err = parseDate(endDate); err != nil {
		return f, err
	}
	if f.startDate.After(f.endDate) {
		return f, scheduleerrors.ErrInvalidDateRange
	}
	if err := validateTime(startTime); err != nil {
		return f, err
	}
	if err := validateTime(endTime); err != nil {
		return f, err
	}
	if weeklyHours <= 0 {
		return f, scheduleerrors.ErrInvalidWeeklyHours
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, scheduleerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func validateTime(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse("15:04", v); err != nil {
		return scheduleerrors.ErrInvalidTimeFormat
	}
	return nil
}

func conflictError(conflicts []Schedule) error {
	details := mapToConflictDetails(conflicts)
	ids := make([]string, len(conflicts))
	for i, c := range conflicts {
		ids[i] = c.ID.String()
	}
	first := conflicts[0]
	msg := fmt.Sprintf(
		"schedule conflicts with booking %s for employee %s from %s to %s",
		strings.Join(ids, ", "),
		first.EmployeeID.String(),
		first.StartDate.Format(DateLayout),
		first.EndDate.Format(DateLayout),
	)
	return scheduleerrors.ErrScheduleConflict.WithDetails(details).WithMessage(msg)
}

func mapToConflictDetails(conflicts []Schedule) []ConflictDetail {
	details := make([]ConflictDetail, len(conflicts))
	for i, c := range conflicts {
		details[i] = ConflictDetail{
			ScheduleID: c.ID.String(),
			EmployeeID: c.EmployeeID.String(),
			StartDate:  c.StartDate.Format(DateLayout),
			EndDate:    c.EndDate.Format(DateLayout),
			Status:     c.Status,
		}
	}
	return details
}

func mapToResponse(s Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID.String(),
		EmployeeID:  s.EmployeeID.String(),
		ClientID:    s.ClientID.String(),
		StartDate:   s.StartDate.Format(DateLayout),
		EndDate:     s.EndDate.Format(DateLayout),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		WeeklyHours: s.WeeklyHours,
		Status:      s.Status,
		Notes:       s.Notes,
		CreatedBy:   s.CreatedBy.String(),
	}
}

func mapToListResponse(schedules []Schedule) []ScheduleResponse {
	resp := make([]ScheduleResponse, len(schedules))
	for i, s := range schedules {
		resp[i] = mapToResponse(s)
	}
	return resp
}
