//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/shopspring/decimal"

	"github.com/jonathan/freelance-agent/internal/skills"
)

// MatchTier buckets a match score for display.
type MatchTier string

const (
	// MatchHigh is a score of 80 or more
	MatchHigh MatchTier = "high"
	// MatchMedium is a score of 60 up to 80
	MatchMedium MatchTier = "medium"
	// MatchLow is anything below 60
	MatchLow MatchTier = "low"
)

// JobPosting is a job opportunity scored against the user's profile.
type JobPosting struct {
	ID             int64               `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	RequiredSkills string              `json:"required_skills"`
	Budget         decimal.NullDecimal `json:"budget"`
	Source         string              `json:"source"`
	SourceURL      string              `json:"source_url,omitempty"`
	ClientName     string              `json:"client_name,omitempty"`
	MatchScore     float64             `json:"match_score"`
	CreatedAt      Timestamp           `json:"created_at,omitzero"`
}

// SkillTags returns the required skills as display tags.
func (j *JobPosting) SkillTags() []string {
	return skills.ParseTags(j.RequiredSkills)
}

// Score returns the match score clamped to [0, 100].
func (j *JobPosting) Score() float64 {
	switch {
	case j.MatchScore < 0:
		return 0
	case j.MatchScore > 100:
		return 100
	default:
		return j.MatchScore
	}
}

// Tier returns the display bucket of the match score.
func (j *JobPosting) Tier() MatchTier {
	score := j.Score()
	switch {
	case score >= 80:
		return MatchHigh
	case score >= 60:
		return MatchMedium
	default:
		return MatchLow
	}
}

// JobsResponse is returned by the job listing endpoint.
type JobsResponse struct {
	Jobs []JobPosting `json:"jobs"`
}

// JobSearchResponse is returned by the job search endpoint. Jobs holds only the high-match
// postings; TotalFound counts every posting the search considered.
type JobSearchResponse struct {
	Jobs          []JobPosting `json:"jobs"`
	TotalFound    int          `json:"total_found"`
	HighMatchJobs int          `json:"high_match_jobs"`
}
