//nolint:revive // types is a standard Go package name pattern
package types

// GenerateProposalRequest asks the backend to draft a proposal for a job.
type GenerateProposalRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	JobID  int64 `json:"job_id" validate:"required,gt=0"`
}

// Proposal is a generated proposal for a job posting.
type Proposal struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	JobID    int64     `json:"job_id"`
	Content  string    `json:"content"`
	Status   string    `json:"status"`
	SentAt   Timestamp `json:"sent_at,omitzero"`
	JobTitle *string   `json:"job_title,omitempty"`
}

// ProposalResponse is returned when a proposal is generated.
type ProposalResponse struct {
	Message  string    `json:"message,omitempty"`
	Proposal *Proposal `json:"proposal,omitempty"`
}

// ProposalsResponse is returned by the proposal listing endpoint.
type ProposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
}

// Validate validates the GenerateProposalRequest using the validator.
func (r *GenerateProposalRequest) Validate() error {
	return validate.Struct(r)
}
