//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Analytics is the overview summary for a user.
type Analytics struct {
	Summary           AnalyticsSummary   `json:"summary"`
	PricingSuggestion *PricingSuggestion `json:"pricing_suggestion,omitempty"`
}

// AnalyticsSummary holds the headline metrics.
type AnalyticsSummary struct {
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	TotalHours        float64         `json:"total_hours"`
	AverageHourlyRate decimal.Decimal `json:"average_hourly_rate"`
	ActiveProjects    int             `json:"active_projects"`
}

// PricingSuggestion is the optional rate advice attached to analytics. The backend passes
// model output through unchecked, so every field is decoded leniently.
type PricingSuggestion struct {
	Recommendation string              `json:"recommendation"`
	TargetRate     decimal.NullDecimal `json:"target_rate"`
	// TargetRateText holds a target rate that is not a plain number, such as "$65/hour".
	TargetRateText string `json:"-"`
	Tip            string `json:"tip,omitempty"`
}

// UnmarshalJSON decodes a suggestion without failing on free-form field values. A numeric
// target rate (or a string holding one, optionally prefixed with "$") sets TargetRate;
// any other string is kept in TargetRateText.
func (p *PricingSuggestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Recommendation json.RawMessage `json:"recommendation"`
		TargetRate     json.RawMessage `json:"target_rate"`
		Tip            json.RawMessage `json:"tip"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("pricing suggestion must be an object: %w", err)
	}

	*p = PricingSuggestion{
		Recommendation: lenientText(raw.Recommendation),
		Tip:            lenientText(raw.Tip),
	}

	rate := bytes.TrimSpace(raw.TargetRate)
	if len(rate) == 0 || bytes.Equal(rate, []byte("null")) {
		return nil
	}

	var text string
	if err := json.Unmarshal(rate, &text); err != nil {
		if d, err := decimal.NewFromString(string(rate)); err == nil {
			p.TargetRate = decimal.NewNullDecimal(d)
			return nil
		}
		p.TargetRateText = string(rate)
		return nil
	}

	text = strings.TrimSpace(text)
	if d, err := decimal.NewFromString(strings.TrimPrefix(text, "$")); err == nil {
		p.TargetRate = decimal.NewNullDecimal(d)
		return nil
	}
	p.TargetRateText = text
	return nil
}

// lenientText returns a JSON string's value, or the raw JSON of any other value.
func lenientText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
