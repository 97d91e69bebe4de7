// Package types provides the wire structures exchanged with the freelance backend.
//
// Every payload has a declared shape; optional fields are pointers or nullable types so a
// missing field is a defined state rather than a surprise.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all request Validate methods; the validator caches struct metadata.
var validate = validator.New()

// timestampLayouts are tried in order when decoding a Timestamp. The backend emits naive
// ISO-8601 values (no zone), which are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is a point in time as serialized by the backend.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339, zone-less ISO-8601 timestamps, plain dates and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON writes RFC 3339 or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ErrorPayload is the JSON body the backend sends with non-success responses.
type ErrorPayload struct {
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the human-readable reason, preferring detail, then error, then message.
func (p *ErrorPayload) Text() string {
	if p == nil {
		return ""
	}
	for _, candidate := range []string{p.Detail, p.Error, p.Message} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

// MessageResponse is the generic acknowledgement returned by write endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is returned by the connectivity check endpoint.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
