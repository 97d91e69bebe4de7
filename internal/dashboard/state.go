package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/freelance-agent/internal/types"
)

// Status is the controller's lifecycle state.
type Status int

const (
	// StatusUninitialized means no user has been loaded yet.
	StatusUninitialized Status = iota
	// StatusLoading means the four resource fetches are in flight.
	StatusLoading
	// StatusReady means every fetch settled and at least one succeeded.
	StatusReady
	// StatusRefreshing means a job search is in flight on top of a ready dashboard.
	StatusRefreshing
	// StatusError means the dashboard could not be shown at all.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusRefreshing:
		return "refreshing"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ResourceStatus is the load state of one collection.
type ResourceStatus string

// ResourceStatus values
const (
	ResourceNotLoaded ResourceStatus = ""
	ResourcePending   ResourceStatus = "pending"
	ResourceReady     ResourceStatus = "ready"
	ResourceFailed    ResourceStatus = "failed"
)

// Resource is one independently fetched collection. Data is the snapshot from the most
// recent successful fetch and is only meaningful when Loaded is true; a failed refresh
// keeps the previous snapshot and records Err.
type Resource[T any] struct {
	Status ResourceStatus
	Loaded bool
	Data   T
	Err    error

	// seq of the last applied success, of the last applied failure and of the last
	// dispatched fetch.
	seq     uint64
	failSeq uint64
	pending uint64
}

// Empty reports whether the resource loaded successfully with no items.
func (r Resource[T]) Empty() bool {
	if !r.Loaded {
		return false
	}
	switch v := any(r.Data).(type) {
	case []types.JobPosting:
		return len(v) == 0
	case []types.Project:
		return len(v) == 0
	case []types.SkillGap:
		return len(v) == 0
	case *types.Analytics:
		return v == nil
	default:
		return false
	}
}

func (r *Resource[T]) dispatch(seq uint64) {
	r.pending = seq
	r.Status = ResourcePending
}

// settle applies a completion and reports whether the state changed. Successes and
// failures are ordered separately: a success replaces Data unless a newer success was
// already applied, so a newer failure never discards an older snapshot that arrives
// late. A failure is recorded only when it is newer than every applied completion.
func (r *Resource[T]) settle(seq uint64, data T, err error) bool {
	if err != nil {
		if seq <= r.seq || seq <= r.failSeq {
			return false
		}
		r.failSeq = seq
		r.Err = err
		if seq >= r.pending {
			r.Status = ResourceFailed
		}
		return true
	}

	if seq <= r.seq {
		return false
	}
	r.seq = seq
	r.Data = data
	r.Loaded = true
	if r.failSeq > seq {
		// A newer attempt failed; keep reporting it.
		return true
	}
	r.Err = nil
	if seq >= r.pending {
		r.Status = ResourceReady
	}
	return true
}

// View is the active dashboard tab.
type View string

// View values
const (
	ViewOverview      View = "overview"
	ViewJobs          View = "jobs"
	ViewProjects      View = "projects"
	ViewSkills        View = "skills"
	ViewCommunication View = "communication"
)

// Views lists the tabs in display order.
var Views = []View{ViewOverview, ViewJobs, ViewProjects, ViewSkills, ViewCommunication}

// ParseView converts a tab name into a View.
func ParseView(name string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(name)))
	if v == "" {
		return ViewOverview, nil
	}
	if !slices.Contains(Views, v) {
		return "", fmt.Errorf("unknown view %q (expected one of overview, jobs, projects, skills, communication)", name)
	}
	return v, nil
}

// SearchSummary reports the outcome of a job search.
type SearchSummary struct {
	Returned   int
	HighMatch  int
	TotalFound int
}

func (s SearchSummary) String() string {
	return fmt.Sprintf("Found %d high-match jobs from %d total jobs!", s.HighMatch, s.TotalFound)
}

// State is a point-in-time copy of the dashboard.
type State struct {
	UserID int64
	Status Status
	// Err explains StatusError.
	Err  error
	View View

	Analytics Resource[*types.Analytics]
	Jobs      Resource[[]types.JobPosting]
	Projects  Resource[[]types.Project]
	SkillGaps Resource[[]types.SkillGap]

	LastSearch *SearchSummary
}

func (s State) clone() State {
	out := s
	out.Jobs.Data = slices.Clone(s.Jobs.Data)
	out.Projects.Data = slices.Clone(s.Projects.Data)
	out.SkillGaps.Data = slices.Clone(s.SkillGaps.Data)
	if s.Analytics.Data != nil {
		a := *s.Analytics.Data
		if a.PricingSuggestion != nil {
			ps := *a.PricingSuggestion
			a.PricingSuggestion = &ps
		}
		out.Analytics.Data = &a
	}
	if s.LastSearch != nil {
		ls := *s.LastSearch
		out.LastSearch = &ls
	}
	return out
}
