// Package dashboard aggregates the per-user backend resources into one view state. It
// fetches analytics, jobs, projects and skill gaps concurrently, tracks each one's load
// state independently, and refreshes the job list on demand.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/freelance-agent/internal/gateway"
	"github.com/jonathan/freelance-agent/internal/types"
)

// ErrNoUser is returned by operations that need a loaded user.
var ErrNoUser = errors.New("dashboard has no user loaded")

// Source is the subset of the resource client the dashboard drives.
type Source interface {
	GetAnalytics(ctx context.Context, userID int64) (*types.Analytics, error)
	GetJobs(ctx context.Context, userID int64) (*types.JobsResponse, error)
	GetProjects(ctx context.Context, userID int64) (*types.ProjectsResponse, error)
	GetSkillGaps(ctx context.Context, userID int64) (*types.SkillGapsResponse, error)
	SearchJobs(ctx context.Context, userID int64) (*types.JobSearchResponse, error)
	GenerateProposal(ctx context.Context, userID, jobID int64) (*types.ProposalResponse, error)
}

// Controller owns the dashboard state. All mutation happens under one mutex; network
// calls never hold it.
type Controller struct {
	source Source
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	loadSeq   uint64
	searching map[int64]int
	onChange  func(State)

	searches singleflight.Group
}

// New creates a Controller in the Uninitialized state showing the overview tab.
func New(source Source, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		source:    source,
		logger:    logger,
		state:     State{View: ViewOverview},
		searching: make(map[int64]int),
	}
}

// OnChange registers fn to receive a snapshot after every applied state transition. It
// is called outside the controller lock, possibly from several goroutines.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Status returns the lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status
}

// View returns the active tab.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.View
}

// SetView switches the active tab. Loaded data is reused; nothing is fetched.
func (c *Controller) SetView(v View) error {
	if _, err := ParseView(string(v)); err != nil || v == "" {
		return fmt.Errorf("invalid view %q", v)
	}
	c.mutate(func(s *State) bool {
		if s.View == v {
			return false
		}
		s.View = v
		return true
	})
	return nil
}

// Refreshing reports whether a job search for the current user is in flight.
func (c *Controller) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searching[c.state.UserID] > 0
}

// Load fetches the four resources for userID concurrently and waits for all of them to
// settle. One failure never hides the others' results. The dashboard ends in Ready when
// at least one fetch succeeded, and in Error when all failed or the session was rejected;
// only the Error case returns an error. Loading a different user discards the previous
// user's data, and completions that arrive for a user no longer shown are ignored.
func (c *Controller) Load(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id %d", userID)
	}

	var load, seqAnalytics, seqJobs, seqProjects, seqGaps uint64
	c.mutate(func(s *State) bool {
		if s.UserID != userID {
			view := s.View
			*s = State{UserID: userID, View: view}
		}
		s.Status = StatusLoading
		s.Err = nil

		c.loadSeq++
		load = c.loadSeq
		seqAnalytics, seqJobs, seqProjects, seqGaps = c.next(), c.next(), c.next(), c.next()
		s.Analytics.dispatch(seqAnalytics)
		s.Jobs.dispatch(seqJobs)
		s.Projects.dispatch(seqProjects)
		s.SkillGaps.dispatch(seqGaps)
		return true
	})

	c.logger.DebugContext(ctx, "loading dashboard", slog.Int64("user_id", userID))

	// Fetch errors are recorded per resource, so no goroutine cancels its siblings.
	var g errgroup.Group
	g.Go(func() error {
		data, err := c.source.GetAnalytics(ctx, userID)
		c.mutate(func(s *State) bool {
			return s.UserID == userID && s.Analytics.settle(seqAnalytics, data, err)
		})
		return nil
	})
	g.Go(func() error {
		resp, err := c.source.GetJobs(ctx, userID)
		var jobs []types.JobPosting
		if resp != nil {
			jobs = resp.Jobs
		}
		c.mutate(func(s *State) bool {
			return s.UserID == userID && s.Jobs.settle(seqJobs, jobs, err)
		})
		return nil
	})
	g.Go(func() error {
		resp, err := c.source.GetProjects(ctx, userID)
		var projects []types.Project
		if resp != nil {
			projects = resp.Projects
		}
		c.mutate(func(s *State) bool {
			return s.UserID == userID && s.Projects.settle(seqProjects, projects, err)
		})
		return nil
	})
	g.Go(func() error {
		resp, err := c.source.GetSkillGaps(ctx, userID)
		var gaps []types.SkillGap
		if resp != nil {
			gaps = resp.SkillGaps
		}
		c.mutate(func(s *State) bool {
			return s.UserID == userID && s.SkillGaps.settle(seqGaps, gaps, err)
		})
		return nil
	})
	_ = g.Wait()

	var result error
	c.mutate(func(s *State) bool {
		if s.UserID != userID || load != c.loadSeq {
			return false
		}
		s.Err = loadError(s)
		switch {
		case s.Err != nil:
			s.Status = StatusError
		case c.searching[userID] > 0:
			s.Status = StatusRefreshing
		default:
			s.Status = StatusReady
		}
		result = s.Err
		return true
	})

	if result != nil {
		c.logger.WarnContext(ctx, "dashboard failed to load",
			slog.Int64("user_id", userID),
			slog.Any("error", result),
		)
	}
	return result
}

// Use makes userID the current user without fetching anything, discarding the previous
// user's data when it changes. Job searches and proposals can run right after.
func (c *Controller) Use(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id %d", userID)
	}
	c.mutate(func(s *State) bool {
		if s.UserID == userID {
			return false
		}
		view := s.View
		*s = State{UserID: userID, View: view}
		return true
	})
	return nil
}

// Reload re-runs Load for the current user.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	userID := c.state.UserID
	c.mu.Unlock()
	if userID == 0 {
		return ErrNoUser
	}
	return c.Load(ctx, userID)
}

// SearchJobs asks the backend for new jobs for the current user and replaces the job
// snapshot with the result. Triggers that arrive while a search is in flight join it
// instead of issuing another request. On failure the job snapshot is left untouched.
func (c *Controller) SearchJobs(ctx context.Context) (SearchSummary, error) {
	c.mu.Lock()
	userID := c.state.UserID
	if userID == 0 {
		c.mu.Unlock()
		return SearchSummary{}, ErrNoUser
	}
	c.mu.Unlock()

	ch := c.searches.DoChan(strconv.FormatInt(userID, 10), func() (any, error) {
		return c.runSearch(context.WithoutCancel(ctx), userID)
	})

	select {
	case <-ctx.Done():
		return SearchSummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return SearchSummary{}, res.Err
		}
		return res.Val.(SearchSummary), nil
	}
}

func (c *Controller) runSearch(ctx context.Context, userID int64) (SearchSummary, error) {
	var seq uint64
	c.mutate(func(s *State) bool {
		c.searching[userID]++
		seq = c.next()
		if s.UserID == userID && s.Status == StatusReady {
			s.Status = StatusRefreshing
			return true
		}
		return false
	})

	c.logger.DebugContext(ctx, "searching for new jobs", slog.Int64("user_id", userID))
	resp, err := c.source.SearchJobs(ctx, userID)

	var summary SearchSummary
	if err == nil && resp != nil {
		summary = SearchSummary{
			Returned:   len(resp.Jobs),
			HighMatch:  resp.HighMatchJobs,
			TotalFound: resp.TotalFound,
		}
	}

	c.mutate(func(s *State) bool {
		c.searching[userID]--
		if c.searching[userID] <= 0 {
			delete(c.searching, userID)
		}
		if s.UserID != userID {
			return false
		}
		changed := false
		if err == nil {
			var jobs []types.JobPosting
			if resp != nil {
				jobs = resp.Jobs
			}
			if s.Jobs.settle(seq, jobs, nil) {
				sum := summary
				s.LastSearch = &sum
				changed = true
			}
		}
		if s.Status == StatusRefreshing && c.searching[userID] == 0 {
			s.Status = StatusReady
			changed = true
		}
		return changed
	})

	if err != nil {
		c.logger.WarnContext(ctx, "job search failed",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return SearchSummary{}, err
	}

	c.logger.InfoContext(ctx, "job search finished",
		slog.Int64("user_id", userID),
		slog.Int("returned", summary.Returned),
		slog.Int("high_match", summary.HighMatch),
		slog.Int("total_found", summary.TotalFound),
	)
	return summary, nil
}

// GenerateProposal asks the backend to draft a proposal for jobID on behalf of the
// current user. The result is returned to the caller and never merged into the job list.
func (c *Controller) GenerateProposal(ctx context.Context, jobID int64) (*types.ProposalResponse, error) {
	c.mu.Lock()
	userID := c.state.UserID
	c.mu.Unlock()
	if userID == 0 {
		return nil, ErrNoUser
	}
	if jobID <= 0 {
		return nil, fmt.Errorf("invalid job id %d", jobID)
	}
	return c.source.GenerateProposal(ctx, userID, jobID)
}

// mutate runs fn under the lock and notifies the OnChange callback when fn reports a
// change.
func (c *Controller) mutate(fn func(s *State) bool) {
	c.mu.Lock()
	changed := fn(&c.state)
	notify := c.onChange
	var snap State
	if changed && notify != nil {
		snap = c.state.clone()
	}
	c.mu.Unlock()

	if changed && notify != nil {
		notify(snap)
	}
}

// next must be called with c.mu held.
func (c *Controller) next() uint64 {
	c.seq++
	return c.seq
}

// loadError decides whether a settled load is shown. A rejected session always wins;
// otherwise the dashboard fails only when nothing could be fetched.
func loadError(s *State) error {
	errs := []error{s.Analytics.Err, s.Jobs.Err, s.Projects.Err, s.SkillGaps.Err}
	statuses := []ResourceStatus{s.Analytics.Status, s.Jobs.Status, s.Projects.Status, s.SkillGaps.Status}

	failed := 0
	var joined []error
	for i, err := range errs {
		if statuses[i] != ResourceFailed || err == nil {
			continue
		}
		if gateway.IsAuthRequired(err) {
			return err
		}
		failed++
		joined = append(joined, err)
	}
	if failed == len(errs) {
		return errors.Join(joined...)
	}
	return nil
}
