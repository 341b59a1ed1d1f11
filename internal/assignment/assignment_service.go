package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	assignmenterrors "go-staffing/internal/assignment/errors"
	"go-staffing/internal/audit"
	"go-staffing/internal/directory"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=assignment_service.go -destination=mock/assignment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetAll(ctx context.Context) ([]AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (AssignmentResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Transition(ctx context.Context, actorID, id, target string) (AssignmentResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory directory.Repository
	recorder  audit.Recorder
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, dir directory.Repository, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{db: db, repo: repo, directory: dir, recorder: recorder, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateAssignmentRequest) (AssignmentResponse, error) {
	s.logger.Debug("create assignment requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("client_id", req.ClientID),
	)

	fields, err := validateAssignmentFields(actorID, req.EmployeeID, req.ClientID, req.StartDate, req.EndDate, req.HourlyRate, req.MaxHours)
	if err != nil {
		s.logger.Warn("create assignment validation failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := s.checkReferences(ctx, req.EmployeeID, req.ClientID); err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create assignment begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a := &Assignment{
		ID:           uuid.New(),
		ClientID:     fields.clientID,
		EmployeeID:   fields.employeeID,
		Position:     req.Position,
		Description:  req.Description,
		StartDate:    fields.startDate,
		EndDate:      fields.endDate,
		WorkLocation: req.WorkLocation,
		HourlyRate:   req.HourlyRate,
		MaxHours:     req.MaxHours,
		Requirements: Requirements(req.Requirements),
		Status:       StatusPending,
		CreatedBy:    fields.actorID,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create assignment persist failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create assignment commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.logger.Info("create assignment success",
		zap.String("assignment_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	s.recorder.RecordCreate(ctx, actorID, "assignment", a.ID.String(), a.auditMap(), "")

	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context) ([]AssignmentResponse, error) {
	assignments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(assignments), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AssignmentResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

// Update re-validates every field invariant, not only at creation.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateAssignmentRequest) (AssignmentResponse, error) {
	s.logger.Debug("update assignment requested",
		zap.String("assignment_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status),
	)

	fields, err := validateAssignmentFields(actorID, req.EmployeeID, req.ClientID, req.StartDate, req.EndDate, req.HourlyRate, req.MaxHours)
	if err != nil {
		s.logger.Warn("update assignment validation failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := s.checkReferences(ctx, req.EmployeeID, req.ClientID); err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update assignment begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}

	if IsTerminal(a.Status) {
		return AssignmentResponse{}, assignmenterrors.ErrAssignmentTerminal
	}

	targetStatus := a.Status
	if req.Status != "" && req.Status != a.Status {
		if !isAllowedTransition(a.Status, req.Status) {
			s.logger.Warn("update assignment transition rejected",
				zap.String("assignment_id", id),
				zap.String("from_status", a.Status),
				zap.String("to_status", req.Status),
			)
			return AssignmentResponse{}, assignmenterrors.ErrInvalidStatusTransition
		}
		targetStatus = req.Status
	}

	before := a.auditMap()

	a.ClientID = fields.clientID
	a.EmployeeID = fields.employeeID
	a.Position = req.Position
	a.Description = req.Description
	a.StartDate = fields.startDate
	a.EndDate = fields.endDate
	a.WorkLocation = req.WorkLocation
	a.HourlyRate = req.HourlyRate
	a.MaxHours = req.MaxHours
	a.Requirements = Requirements(req.Requirements)
	a.Status = targetStatus

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("update assignment persist failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update assignment commit failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.logger.Info("update assignment success",
		zap.String("assignment_id", id),
		zap.String("status", a.Status),
	)

	s.recorder.RecordUpdate(ctx, actorID, "assignment", id, before, a.auditMap(), "")

	return mapToResponse(*a), nil
}

func (s *service) Transition(ctx context.Context, actorID, id, target string) (AssignmentResponse, error) {
	s.logger.Debug("transition assignment requested",
		zap.String("assignment_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", target),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition assignment begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}

	if IsTerminal(a.Status) {
		return AssignmentResponse{}, assignmenterrors.ErrAssignmentTerminal
	}
	if !isAllowedTransition(a.Status, target) {
		s.logger.Warn("transition assignment rejected",
			zap.String("assignment_id", id),
			zap.String("from_status", a.Status),
			zap.String("to_status", target),
		)
		return AssignmentResponse{}, assignmenterrors.ErrInvalidStatusTransition
	}

	before := a.auditMap()
	a.Status = target

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("transition assignment persist failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition assignment commit failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.logger.Info("transition assignment success",
		zap.String("assignment_id", id),
		zap.String("status", target),
	)

	s.recorder.RecordUpdate(ctx, actorID, "assignment", id, before, a.auditMap(), "")

	return mapToResponse(*a), nil
}

// Delete hard-deletes regardless of status. The route guard restricts it to
// admin; the deletion itself is audited with the full before image.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return assignmenterrors.ErrAssignmentNotFound
		}
		return err
	}

	before := a.auditMap()

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete assignment persist failed", zap.String("assignment_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete assignment commit failed", zap.String("assignment_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("delete assignment success", zap.String("assignment_id", id))

	s.recorder.RecordDelete(ctx, actorID, "assignment", id, before, "")

	return nil
}

func (s *service) checkReferences(ctx context.Context, employeeID, clientID string) error {
	exists, err := s.directory.EmployeeExists(ctx, employeeID)
	if err != nil {
		s.logger.Error("employee lookup failed", zap.Error(err))
		return err
	}
	if !exists {
		return assignmenterrors.ErrEmployeeNotFound
	}

	exists, err = s.directory.ClientExists(ctx, clientID)
	if err != nil {
		s.logger.Error("client lookup failed", zap.Error(err))
		return err
	}
	if !exists {
		return assignmenterrors.ErrClientNotFound
	}
	return nil
}

type assignmentFields struct {
	actorID    uuid.UUID
	employeeID uuid.UUID
	clientID   uuid.UUID
	startDate  time.Time
	endDate    time.Time
}

func validateAssignmentFields(actorID, employeeID, clientID, startDate, endDate string, hourlyRate, maxHours float64) (assignmentFields, error) {
	var f assignmentFields
	var err error

	if f.actorID, err = uuid.Parse(actorID); err != nil {
		return f, assignmenterrors.ErrInvalidActorID
	}
	if f.employeeID, err = uuid.Parse(employeeID); err != nil {
		return f, assignmenterrors.ErrInvalidEmployeeID
	}
	if f.clientID, err = uuid.Parse(clientID); err != nil {
		return f, assignmenterrors.ErrInvalidClientID
	}
	if f.startDate, err = parseDate(startDate); err != nil {
		return f, err
	}
	if f.endDate, err = parseDate(endDate); err != nil {
		return f, err
	}
	if f.endDate.Before(f.startDate) {
		return f, assignmenterrors.ErrInvalidDateRange
	}
	if hourlyRate <= 0 {
		return f, assignmenterrors.ErrInvalidHourlyRate
	}
	if maxHours <= 0 {
		return f, assignmenterrors.ErrInvalidMaxHours
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, assignmenterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(a Assignment) AssignmentResponse {
	reqs := []string(a.Requirements)
	if reqs == nil {
		reqs = []string{}
	}
	return AssignmentResponse{
		ID:           a.ID.String(),
		ClientID:     a.ClientID.String(),
		EmployeeID:   a.EmployeeID.String(),
		Position:     a.Position,
		Description:  a.Description,
		StartDate:    a.StartDate.Format(DateLayout),
		EndDate:      a.EndDate.Format(DateLayout),
		WorkLocation: a.WorkLocation,
		HourlyRate:   a.HourlyRate,
		MaxHours:     a.MaxHours,
		Requirements: reqs,
		Status:       a.Status,
		CreatedBy:    a.CreatedBy.String(),
	}
}

func mapToListResponse(assignments []Assignment) []AssignmentResponse {
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapToResponse(a)
	}
	return resp
}
