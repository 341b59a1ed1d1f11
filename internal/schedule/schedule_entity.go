package schedule

import (
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

const (
	StatusPlanned   = "planned"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	// Administrative overrides, set by hr/admin only. They suspend the shift
	// without ending it and do not block the employee's calendar.
	StatusSickLeave   = "sick-leave"
	StatusVacation    = "vacation"
	StatusClientBreak = "client-break"
)

// BlockingStatuses participate in conflict detection: two schedules for the
// same employee may not overlap while both carry one of these.
var BlockingStatuses = []string{StatusPlanned, StatusConfirmed, StatusActive}

// Schedule is one time-bounded work shift linking an employee to a client.
// Rows are never physically deleted; cancellation is a status.
type Schedule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_schedules_employee_dates"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index:idx_schedules_client"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_schedules_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_schedules_employee_dates"`
	StartTime string    `gorm:"type:varchar(5)"` // HH:MM, informational
	EndTime   string    `gorm:"type:varchar(5)"`

	WeeklyHours float64 `gorm:"not null"`
	Status      string  `gorm:"type:varchar(20);not null;default:'planned';index:idx_schedules_status"`
	Notes       string  `gorm:"type:text"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func IsBlocking(status string) bool {
	for _, s := range BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

func IsLeave(status string) bool {
	return status == StatusSickLeave || status == StatusVacation || status == StatusClientBreak
}

// Overlaps reports whether the inclusive ranges [s1,e1] and [s2,e2] share at
// least one day: s1 <= e2 && s2 <= e1. A schedule ending on day D conflicts
// with one starting on day D.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// auditMap is the snapshot shape stored in audit diffs.
func (s *Schedule) auditMap() map[string]any {
	return map[string]any{
		"employee_id":  s.EmployeeID.String(),
		"client_id":    s.ClientID.String(),
		"start_date":   s.StartDate.Format(DateLayout),
		"end_date":     s.EndDate.Format(DateLayout),
		"start_time":   s.StartTime,
		"end_time":     s.EndTime,
		"weekly_hours": s.WeeklyHours,
		"status":       s.Status,
		"notes":        s.Notes,
	}
}
