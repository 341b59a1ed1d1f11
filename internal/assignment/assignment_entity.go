package assignment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPaused    = "paused"
)

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Requirements is an ordered list stored as JSONB.
type Requirements []string

func (r Requirements) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(r))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (r *Requirements) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(r))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(r))
	default:
		return fmt.Errorf("assignment: cannot scan requirements from %T", value)
	}
}

// Assignment is a contractual engagement of an employee with a client,
// independent of individual shifts. Unlike schedules it may be hard-deleted,
// admin only; related schedules are kept as history.
type Assignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_client"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_employee"`

	Position     string       `gorm:"type:varchar(150);not null"`
	Description  string       `gorm:"type:text"`
	StartDate    time.Time    `gorm:"type:date;not null"`
	EndDate      time.Time    `gorm:"type:date;not null"`
	WorkLocation string       `gorm:"type:varchar(200)"`
	HourlyRate   float64      `gorm:"not null"`
	MaxHours     float64      `gorm:"not null"`
	Requirements Requirements `gorm:"type:jsonb;not null;default:'[]'"`
	Status       string       `gorm:"type:varchar(20);not null;default:'pending';index:idx_assignments_status"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Assignment) auditMap() map[string]any {
	return map[string]any{
		"client_id":     a.ClientID.String(),
		"employee_id":   a.EmployeeID.String(),
		"position":      a.Position,
		"description":   a.Description,
		"start_date":    a.StartDate.Format(DateLayout),
		"end_date":      a.EndDate.Format(DateLayout),
		"work_location": a.WorkLocation,
		"hourly_rate":   a.HourlyRate,
		"max_hours":     a.MaxHours,
		"requirements":  []string(a.Requirements),
		"status":        a.Status,
	}
}
