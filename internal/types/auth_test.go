//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request RegisterRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: RegisterRequest{
				Email:           "test@example.com",
				Password:        "testpass123",
				FullName:        "Test User",
				Skills:          "Python, JavaScript, React",
				ExperienceLevel: "intermediate",
				HourlyRate:      50,
			},
		},
		{
			name:    "valid request with only credentials",
			request: RegisterRequest{Email: "a@b.com", Password: "secret"},
		},
		{
			name:    "missing email",
			request: RegisterRequest{Password: "secret"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "invalid email format",
			request: RegisterRequest{Email: "not-an-email", Password: "secret"},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name:    "password too short",
			request: RegisterRequest{Email: "a@b.com", Password: "12345"},
			wantErr: true,
			errMsg:  "min",
		},
		{
			name:    "negative hourly rate",
			request: RegisterRequest{Email: "a@b.com", Password: "secret", HourlyRate: -1},
			wantErr: true,
			errMsg:  "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "a@b.com", Password: "x"}).Validate())

	err := (&LoginRequest{Email: "a@b.com"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password")

	err = (&LoginRequest{Email: "nope", Password: "x"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestLoginResponse_Decode(t *testing.T) {
	payload := `{
		"access_token": "session_1",
		"token_type": "bearer",
		"user": {
			"id": 1,
			"email": "a@b.com",
			"full_name": "Ada",
			"skills": "Go, SQL",
			"hourly_rate": 45.5,
			"portfolio_url": null,
			"created_at": "2024-03-01T10:20:30.123456"
		}
	}`

	var resp LoginResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	assert.Equal(t, "session_1", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "Ada", resp.User.FullName)
	assert.Equal(t, 45.5, resp.User.HourlyRate)
	assert.Empty(t, resp.User.PortfolioURL)
	assert.Equal(t, 2024, resp.User.CreatedAt.Year())
}

func TestRegisterResponse_AcknowledgementOnly(t *testing.T) {
	var resp RegisterResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":"User registered successfully","user_id":7}`), &resp))
	assert.Equal(t, int64(7), resp.UserID)
	assert.Empty(t, resp.AccessToken)
	assert.Nil(t, resp.User)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&User{FullName: "Ada", Email: "a@b.com"}).DisplayName())
	assert.Equal(t, "a@b.com", (&User{Email: "a@b.com"}).DisplayName())

	var u *User
	assert.Equal(t, "", u.DisplayName())
}

func TestUser_RoundTripOmitsZeroCreatedAt(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "created_at")
}
