//nolint:revive // types is a standard Go package name pattern
package types

// RegisterRequest represents a new account registration.
type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	FullName        string  `json:"full_name,omitempty" validate:"max=100"`
	Skills          string  `json:"skills,omitempty"`
	ExperienceLevel string  `json:"experience_level,omitempty" validate:"max=50"`
	HourlyRate      float64 `json:"hourly_rate,omitempty" validate:"gte=0"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the profile the backend returns for the authenticated user. Only ID is
// interpreted by the client; it keys every per-user request.
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name,omitempty"`
	Skills          string    `json:"skills,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	HourlyRate      float64   `json:"hourly_rate,omitempty"`
	PortfolioURL    string    `json:"portfolio_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	CreatedAt       Timestamp `json:"created_at,omitzero"`
}

// DisplayName returns the full name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// LoginResponse represents the login response with the session token and user profile.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user"`
}

// RegisterResponse represents the registration response. Some backends only acknowledge
// the new account; others also open a session and return the same fields as login.
type RegisterResponse struct {
	Message     string `json:"message,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}
