//nolint:revive // types is a standard Go package name pattern
package types

// CommunicationRequest asks the backend for a suggested reply to a client.
type CommunicationRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	ProjectID     *int64 `json:"project_id,omitempty"`
	MessageType   string `json:"message_type" validate:"required,oneof=proposal negotiation update followup other"`
	ClientMessage string `json:"client_message" validate:"required"`
}

// ClientCommunication is a stored exchange with a client.
type ClientCommunication struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ProjectID     *int64    `json:"project_id,omitempty"`
	MessageType   string    `json:"message_type"`
	ClientMessage string    `json:"client_message,omitempty"`
	AISuggestion  string    `json:"ai_suggestion"`
	UserResponse  *string   `json:"user_response,omitempty"`
	CreatedAt     Timestamp `json:"created_at,omitzero"`
}

// CommunicationResponse carries the suggested reply.
type CommunicationResponse struct {
	Suggestion    string               `json:"suggestion"`
	Communication *ClientCommunication `json:"communication,omitempty"`
}

// Text returns the suggested reply, preferring the top-level field.
func (r *CommunicationResponse) Text() string {
	if r == nil {
		return ""
	}
	if r.Suggestion != "" {
		return r.Suggestion
	}
	if r.Communication != nil {
		return r.Communication.AISuggestion
	}
	return ""
}

// Validate validates the CommunicationRequest using the validator.
func (r *CommunicationRequest) Validate() error {
	return validate.Struct(r)
}
