//nolint:revive // types is a standard Go package name pattern
package types

// CreateTimeLogRequest records hours worked on a project.
type CreateTimeLogRequest struct {
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	ProjectID   int64   `json:"project_id" validate:"required,gt=0"`
	Hours       float64 `json:"hours" validate:"gt=0,lte=24"`
	Description string  `json:"description,omitempty"`
	DateLogged  string  `json:"date_logged,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// TimeLog is a recorded block of work.
type TimeLog struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ProjectID    int64     `json:"project_id"`
	Description  string    `json:"description,omitempty"`
	Hours        float64   `json:"hours"`
	DateLogged   Timestamp `json:"date_logged,omitzero"`
	ProjectTitle *string   `json:"project_title,omitempty"`
	CreatedAt    Timestamp `json:"created_at,omitzero"`
}

// TimeLogResponse is returned when time is logged.
type TimeLogResponse struct {
	Message string   `json:"message,omitempty"`
	TimeLog *TimeLog `json:"time_log,omitempty"`
}

// Validate validates the CreateTimeLogRequest using the validator.
func (r *CreateTimeLogRequest) Validate() error {
	return validate.Struct(r)
}
