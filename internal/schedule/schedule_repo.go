package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	scheduleerrors "go-staffing/internal/schedule/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Schedule) error
	FindAll(ctx context.Context) ([]Schedule, error)
	FindByID(ctx context.Context, id string) (*Schedule, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]Schedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction so the conflict check
// and the insert run on the same connection.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, s *Schedule) error {
	return mapConstraintError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *repository) FindAll(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&schedules).Error
	return schedules, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Schedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Schedule, error) {
	var schedules []Schedule
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *repository) Update(ctx context.Context, s *Schedule) error {
	return mapConstraintError(r.db.WithContext(ctx).Save(s).Error)
}

// FindOverlapping returns every blocking-status schedule for the employee
// whose inclusive [start_date, end_date] range touches [start, end]. Pure
// read; the overlap predicate is s1 <= e2 AND s2 <= e1.
func (r *repository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]Schedule, error) {
	db := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", BlockingStatuses).
		Where("NOT (end_date < ? OR start_date > ?)", start, end)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var schedules []Schedule
	err := db.Order("start_date ASC").Find(&schedules).Error
	return schedules, err
}

// mapConstraintError translates a trip of the schedules_no_blocking_overlap
// EXCLUDE constraint into the same conflict error the in-transaction check
// raises. The constraint is what actually closes the read-then-write race
// between two concurrent bookings for one employee.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return scheduleerrors.ErrScheduleConflict
	}
	return err
}
