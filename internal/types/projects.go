//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/shopspring/decimal"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

// ProjectStatus values
const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Project is a piece of contracted work tracked for a user.
type Project struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Title       string          `json:"title"`
	ClientName  string          `json:"client_name,omitempty"`
	Description string          `json:"description,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	HoursWorked float64         `json:"hours_worked"`
	Status      ProjectStatus   `json:"status"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	StartDate   Timestamp       `json:"start_date,omitzero"`
	EndDate     Timestamp       `json:"end_date,omitzero"`
	CreatedAt   Timestamp       `json:"created_at,omitzero"`
}

// ProjectsResponse is returned by the project listing endpoint.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// CreateProjectRequest creates a new project for the user.
type CreateProjectRequest struct {
	UserID      int64         `json:"user_id" validate:"required,gt=0"`
	Title       string        `json:"title" validate:"required,max=255"`
	ClientName  string        `json:"client_name,omitempty" validate:"max=100"`
	Description string        `json:"description,omitempty"`
	Budget      float64       `json:"budget" validate:"gte=0"`
	Status      ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active completed cancelled"`
}

// ProjectResponse is returned when a project is created.
type ProjectResponse struct {
	Message string   `json:"message,omitempty"`
	Project *Project `json:"project,omitempty"`
}

// Validate validates the CreateProjectRequest using the validator.
func (r *CreateProjectRequest) Validate() error {
	return validate.Struct(r)
}
