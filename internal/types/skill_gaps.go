//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkillGapStatus is the lifecycle state of a skill gap.
type SkillGapStatus string

// SkillGapStatus values
const (
	SkillGapIdentified SkillGapStatus = "identified"
	SkillGapLearning   SkillGapStatus = "learning"
	SkillGapResolved   SkillGapStatus = "resolved"
)

// UnmarshalJSON decodes a status, accepting the backend's "acquired" as resolved and
// treating an empty value as identified.
func (s *SkillGapStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("skill gap status must be a string: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SkillGapIdentified):
		*s = SkillGapIdentified
	case string(SkillGapLearning):
		*s = SkillGapLearning
	case string(SkillGapResolved), "acquired":
		*s = SkillGapResolved
	default:
		return fmt.Errorf("unknown skill gap status %q", raw)
	}
	return nil
}

// SkillGap is a skill the user is missing, ranked by how many opportunities it cost them.
type SkillGap struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"user_id,omitempty"`
	MissingSkill     string         `json:"missing_skill"`
	JobMissedCount   int            `json:"job_missed_count"`
	PriorityScore    float64        `json:"priority_score"`
	Status           SkillGapStatus `json:"status"`
	LearningResource *string        `json:"learning_resource,omitempty"`
	CreatedAt        Timestamp      `json:"created_at,omitzero"`
}

// SkillGapsResponse is returned by the skill gap endpoint.
type SkillGapsResponse struct {
	SkillGaps []SkillGap `json:"skill_gaps"`
}
