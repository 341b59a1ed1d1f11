package assignment

type CreateAssignmentRequest struct {
	ClientID     string   `json:"client_id" binding:"required,uuid"`
	EmployeeID   string   `json:"employee_id" binding:"required,uuid"`
	Position     string   `json:"position" binding:"required"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	WorkLocation string   `json:"work_location"`
	HourlyRate   float64  `json:"hourly_rate" binding:"required,gt=0"`
	MaxHours     float64  `json:"max_hours" binding:"required,gt=0"`
	Requirements []string `json:"requirements"`
}

type UpdateAssignmentRequest struct {
	ClientID     string   `json:"client_id" binding:"required,uuid"`
	EmployeeID   string   `json:"employee_id" binding:"required,uuid"`
	Position     string   `json:"position" binding:"required"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	WorkLocation string   `json:"work_location"`
	HourlyRate   float64  `json:"hourly_rate" binding:"required,gt=0"`
	MaxHours     float64  `json:"max_hours" binding:"required,gt=0"`
	Requirements []string `json:"requirements"`
	Status       string   `json:"status" binding:"omitempty,oneof=pending active completed cancelled paused"`
}

type AssignmentResponse struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"client_id"`
	EmployeeID   string   `json:"employee_id"`
	Position     string   `json:"position"`
	Description  string   `json:"description,omitempty"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	WorkLocation string   `json:"work_location,omitempty"`
	HourlyRate   float64  `json:"hourly_rate"`
	MaxHours     float64  `json:"max_hours"`
	Requirements []string `json:"requirements"`
	Status       string   `json:"status"`
	CreatedBy    string   `json:"created_by"`
}
