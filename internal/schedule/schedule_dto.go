package schedule

type CreateScheduleRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	ClientID    string  `json:"client_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	WeeklyHours float64 `json:"weekly_hours" binding:"required,gt=0"`
	Notes       string  `json:"notes"`
}

type UpdateScheduleRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	ClientID    string  `json:"client_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	WeeklyHours float64 `json:"weekly_hours" binding:"required,gt=0"`
	Notes       string  `json:"notes"`
	Status      string  `json:"status" binding:"omitempty,oneof=planned confirmed active completed cancelled sick-leave vacation client-break"`
}

// ConflictProbeRequest is the read-only conflict check: same predicate the
// booking path uses, no side effects.
type ConflictProbeRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	ExcludeID  *string `json:"exclude_id"`
}

type ScheduleResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	ClientID    string  `json:"client_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	StartTime   string  `json:"start_time,omitempty"`
	EndTime     string  `json:"end_time,omitempty"`
	WeeklyHours float64 `json:"weekly_hours"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	CreatedBy   string  `json:"created_by"`
}

// ConflictDetail identifies a blocking booking so the caller can resolve the
// collision without a secondary query.
type ConflictDetail struct {
	ScheduleID string `json:"schedule_id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

type EmployeeSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeCalendarResponse is the hydrated aggregate for one employee: a
// deliberate batched lookup instead of implicit per-row expansion.
type EmployeeCalendarResponse struct {
	Employee  EmployeeSummary    `json:"employee"`
	Schedules []ScheduleResponse `json:"schedules"`
}
