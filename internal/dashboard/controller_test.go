package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/freelance-agent/internal/gateway"
	"github.com/jonathan/freelance-agent/internal/types"
)

// fakeSource answers every resource from a function so tests can block, fail or count.
type fakeSource struct {
	analytics func(ctx context.Context, userID int64) (*types.Analytics, error)
	jobs      func(ctx context.Context, userID int64) (*types.JobsResponse, error)
	projects  func(ctx context.Context, userID int64) (*types.ProjectsResponse, error)
	skillGaps func(ctx context.Context, userID int64) (*types.SkillGapsResponse, error)
	search    func(ctx context.Context, userID int64) (*types.JobSearchResponse, error)
	proposal  func(ctx context.Context, userID, jobID int64) (*types.ProposalResponse, error)

	searchCalls atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		analytics: func(context.Context, int64) (*types.Analytics, error) {
			return &types.Analytics{Summary: types.AnalyticsSummary{
				TotalEarnings:  decimal.NewFromInt(1500),
				ActiveProjects: 2,
			}}, nil
		},
		jobs: func(context.Context, int64) (*types.JobsResponse, error) {
			return &types.JobsResponse{Jobs: []types.JobPosting{{ID: 1, Title: "Go API", MatchScore: 88}}}, nil
		},
		projects: func(context.Context, int64) (*types.ProjectsResponse, error) {
			return &types.ProjectsResponse{Projects: []types.Project{{ID: 4, Title: "Site"}}}, nil
		},
		skillGaps: func(context.Context, int64) (*types.SkillGapsResponse, error) {
			return &types.SkillGapsResponse{SkillGaps: []types.SkillGap{{ID: 1, MissingSkill: "Kubernetes"}}}, nil
		},
		search: func(context.Context, int64) (*types.JobSearchResponse, error) {
			return &types.JobSearchResponse{
				Jobs:          []types.JobPosting{{ID: 10}, {ID: 11}, {ID: 12}},
				TotalFound:    10,
				HighMatchJobs: 2,
			}, nil
		},
		proposal: func(_ context.Context, userID, jobID int64) (*types.ProposalResponse, error) {
			return &types.ProposalResponse{Proposal: &types.Proposal{UserID: userID, JobID: jobID, Content: "Dear client"}}, nil
		},
	}
}

func (f *fakeSource) GetAnalytics(ctx context.Context, userID int64) (*types.Analytics, error) {
	return f.analytics(ctx, userID)
}

func (f *fakeSource) GetJobs(ctx context.Context, userID int64) (*types.JobsResponse, error) {
	return f.jobs(ctx, userID)
}

func (f *fakeSource) GetProjects(ctx context.Context, userID int64) (*types.ProjectsResponse, error) {
	return f.projects(ctx, userID)
}

func (f *fakeSource) GetSkillGaps(ctx context.Context, userID int64) (*types.SkillGapsResponse, error) {
	return f.skillGaps(ctx, userID)
}

func (f *fakeSource) SearchJobs(ctx context.Context, userID int64) (*types.JobSearchResponse, error) {
	f.searchCalls.Add(1)
	return f.search(ctx, userID)
}

func (f *fakeSource) GenerateProposal(ctx context.Context, userID, jobID int64) (*types.ProposalResponse, error) {
	return f.proposal(ctx, userID, jobID)
}

func TestLoad_AllSucceed(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)
	assert.Equal(t, StatusUninitialized, c.Status())

	require.NoError(t, c.Load(context.Background(), 1))

	s := c.Snapshot()
	assert.Equal(t, StatusReady, s.Status)
	assert.Equal(t, int64(1), s.UserID)
	assert.NoError(t, s.Err)
	for _, st := range []ResourceStatus{s.Analytics.Status, s.Jobs.Status, s.Projects.Status, s.SkillGaps.Status} {
		assert.Equal(t, ResourceReady, st)
	}
	assert.Equal(t, 2, s.Analytics.Data.Summary.ActiveProjects)
	assert.Len(t, s.Jobs.Data, 1)
	assert.Len(t, s.Projects.Data, 1)
	assert.Len(t, s.SkillGaps.Data, 1)
}

func TestLoad_PartialFailureStillReady(t *testing.T) {
	src := newFakeSource()
	boom := &gateway.RequestFailedError{StatusCode: 500, Message: "Database unavailable"}
	src.projects = func(context.Context, int64) (*types.ProjectsResponse, error) { return nil, boom }

	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	s := c.Snapshot()
	assert.Equal(t, StatusReady, s.Status)
	assert.Equal(t, ResourceFailed, s.Projects.Status)
	assert.False(t, s.Projects.Loaded)
	assert.ErrorIs(t, s.Projects.Err, boom)
	assert.Equal(t, ResourceReady, s.Jobs.Status)
	assert.Len(t, s.Jobs.Data, 1)
}

func TestLoad_AllFailIsError(t *testing.T) {
	src := newFakeSource()
	transport := &gateway.TransportError{Method: "GET", Path: "/x", Op: "send request", Cause: errors.New("connection refused")}
	src.analytics = func(context.Context, int64) (*types.Analytics, error) { return nil, transport }
	src.jobs = func(context.Context, int64) (*types.JobsResponse, error) { return nil, transport }
	src.projects = func(context.Context, int64) (*types.ProjectsResponse, error) { return nil, transport }
	src.skillGaps = func(context.Context, int64) (*types.SkillGapsResponse, error) { return nil, transport }

	c := New(src, nil)
	err := c.Load(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, gateway.IsTransport(err))
	assert.Equal(t, StatusError, c.Status())
}

func TestLoad_AuthRequiredIsError(t *testing.T) {
	src := newFakeSource()
	authErr := &gateway.AuthRequiredError{Message: "Authentication required"}
	src.skillGaps = func(context.Context, int64) (*types.SkillGapsResponse, error) { return nil, authErr }

	c := New(src, nil)
	err := c.Load(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, gateway.IsAuthRequired(err))

	s := c.Snapshot()
	assert.Equal(t, StatusError, s.Status)
	assert.ErrorIs(t, s.Err, authErr)
}

func TestLoad_EmptySkillGapsIsReady(t *testing.T) {
	src := newFakeSource()
	src.skillGaps = func(context.Context, int64) (*types.SkillGapsResponse, error) {
		return &types.SkillGapsResponse{SkillGaps: []types.SkillGap{}}, nil
	}

	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	s := c.Snapshot()
	assert.Equal(t, StatusReady, s.Status)
	assert.Equal(t, ResourceReady, s.SkillGaps.Status)
	assert.True(t, s.SkillGaps.Empty())
	assert.False(t, s.Jobs.Empty())
}

func TestLoad_InvalidUser(t *testing.T) {
	c := New(newFakeSource(), nil)
	assert.Error(t, c.Load(context.Background(), 0))
	assert.Equal(t, StatusUninitialized, c.Status())
}

func TestLoad_OlderResponseDoesNotOverwriteNewer(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	var jobCalls atomic.Int32
	src.jobs = func(context.Context, int64) (*types.JobsResponse, error) {
		if jobCalls.Add(1) == 1 {
			<-release
			return &types.JobsResponse{Jobs: []types.JobPosting{{ID: 1, Title: "stale"}}}, nil
		}
		return &types.JobsResponse{Jobs: []types.JobPosting{{ID: 2, Title: "fresh"}}}, nil
	}

	c := New(src, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(ctx, 1) }()
	require.Eventually(t, func() bool { return jobCalls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Load(ctx, 1))
	close(release)
	require.NoError(t, <-firstDone)

	s := c.Snapshot()
	require.Len(t, s.Jobs.Data, 1)
	assert.Equal(t, "fresh", s.Jobs.Data[0].Title)
	assert.Equal(t, ResourceReady, s.Jobs.Status)
	assert.Equal(t, StatusReady, s.Status)
}

func TestLoad_OlderSuccessSurvivesNewerFailure(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	var jobCalls atomic.Int32
	src.jobs = func(context.Context, int64) (*types.JobsResponse, error) {
		if jobCalls.Add(1) == 1 {
			<-release
			return &types.JobsResponse{Jobs: []types.JobPosting{{ID: 1, Title: "first"}}}, nil
		}
		return nil, errors.New("scraper down")
	}

	c := New(src, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(ctx, 1) }()
	require.Eventually(t, func() bool { return jobCalls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Load(ctx, 1))
	assert.False(t, c.Snapshot().Jobs.Loaded)

	close(release)
	require.NoError(t, <-firstDone)

	s := c.Snapshot()
	require.True(t, s.Jobs.Loaded)
	require.Len(t, s.Jobs.Data, 1)
	assert.Equal(t, "first", s.Jobs.Data[0].Title)
	assert.Equal(t, ResourceFailed, s.Jobs.Status)
	assert.EqualError(t, s.Jobs.Err, "scraper down")
	assert.Equal(t, StatusReady, s.Status)
}

func TestLoad_StaleUserCompletionIgnored(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	src.projects = func(_ context.Context, userID int64) (*types.ProjectsResponse, error) {
		if userID == 1 {
			started <- struct{}{}
			<-release
			return &types.ProjectsResponse{Projects: []types.Project{{ID: 1, Title: "user one"}}}, nil
		}
		return &types.ProjectsResponse{Projects: []types.Project{{ID: 2, Title: "user two"}}}, nil
	}

	c := New(src, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(ctx, 1) }()
	<-started

	require.NoError(t, c.Load(ctx, 2))
	close(release)
	require.NoError(t, <-firstDone)

	s := c.Snapshot()
	assert.Equal(t, int64(2), s.UserID)
	require.Len(t, s.Projects.Data, 1)
	assert.Equal(t, "user two", s.Projects.Data[0].Title)
	assert.Equal(t, StatusReady, s.Status)
}

func TestReload(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)
	assert.ErrorIs(t, c.Reload(context.Background()), ErrNoUser)

	var calls atomic.Int32
	src.analytics = func(context.Context, int64) (*types.Analytics, error) {
		calls.Add(1)
		return &types.Analytics{}, nil
	}
	require.NoError(t, c.Load(context.Background(), 3))
	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	src.jobs = func(context.Context, int64) (*types.JobsResponse, error) {
		return nil, &gateway.RequestFailedError{StatusCode: 502, Message: "Request failed"}
	}
	require.NoError(t, c.Reload(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, ResourceFailed, s.Jobs.Status)
	assert.True(t, s.Jobs.Loaded)
	assert.Len(t, s.Jobs.Data, 1, "previous snapshot is kept")
	assert.Error(t, s.Jobs.Err)
}

func TestSearchJobs_ReplacesJobsAndSummarizes(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	summary, err := c.SearchJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SearchSummary{Returned: 3, HighMatch: 2, TotalFound: 10}, summary)
	assert.Equal(t, "Found 2 high-match jobs from 10 total jobs!", summary.String())

	s := c.Snapshot()
	assert.Len(t, s.Jobs.Data, 3)
	require.NotNil(t, s.LastSearch)
	assert.Equal(t, summary, *s.LastSearch)
	assert.Equal(t, StatusReady, s.Status)
	assert.False(t, c.Refreshing())
}

func TestSearchJobs_RequiresUser(t *testing.T) {
	c := New(newFakeSource(), nil)
	_, err := c.SearchJobs(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestSearchJobs_FailureLeavesJobsUntouched(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	failure := &gateway.RequestFailedError{StatusCode: 500, Message: "Scraper unavailable"}
	src.search = func(context.Context, int64) (*types.JobSearchResponse, error) { return nil, failure }

	_, err := c.SearchJobs(context.Background())
	assert.ErrorIs(t, err, failure)

	s := c.Snapshot()
	require.Len(t, s.Jobs.Data, 1)
	assert.Equal(t, "Go API", s.Jobs.Data[0].Title)
	assert.Equal(t, ResourceReady, s.Jobs.Status)
	assert.NoError(t, s.Jobs.Err)
	assert.Equal(t, StatusReady, s.Status)
}

func TestSearchJobs_SingleFlight(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	base := src.search
	src.search = func(ctx context.Context, userID int64) (*types.JobSearchResponse, error) {
		once.Do(func() { close(started) })
		<-release
		return base(ctx, userID)
	}

	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	var statuses []Status
	var mu sync.Mutex
	c.OnChange(func(s State) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	})

	results := make(chan SearchSummary, 2)
	search := func() {
		summary, err := c.SearchJobs(context.Background())
		assert.NoError(t, err)
		results <- summary
	}

	go search()
	<-started
	assert.True(t, c.Refreshing())
	assert.Equal(t, StatusRefreshing, c.Status())

	// The first search is held open by the source, so the second trigger must join it.
	go search()
	time.Sleep(50 * time.Millisecond)
	close(release)
	first, second := <-results, <-results

	assert.Equal(t, int32(1), src.searchCalls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, StatusReady, c.Status())
	assert.False(t, c.Refreshing())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, statuses, StatusRefreshing)
	assert.Equal(t, StatusReady, statuses[len(statuses)-1])
}

func TestSearchJobs_CallerCancellationDoesNotAbortSharedSearch(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	started := make(chan struct{})
	base := src.search
	src.search = func(ctx context.Context, userID int64) (*types.JobSearchResponse, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return base(ctx, userID)
	}

	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.SearchJobs(ctx)
		errCh <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return !c.Refreshing() }, time.Second, time.Millisecond)
	assert.Len(t, c.Snapshot().Jobs.Data, 3)
}

func TestGenerateProposal_DoesNotTouchJobs(t *testing.T) {
	src := newFakeSource()
	c := New(src, nil)

	_, err := c.GenerateProposal(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoUser)

	require.NoError(t, c.Load(context.Background(), 1))
	before := c.Snapshot()

	resp, err := c.GenerateProposal(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Proposal.UserID)
	assert.Equal(t, int64(42), resp.Proposal.JobID)
	assert.Equal(t, before.Jobs.Data, c.Snapshot().Jobs.Data)

	_, err = c.GenerateProposal(context.Background(), 0)
	assert.Error(t, err)
}

func TestSetView_DoesNotFetch(t *testing.T) {
	src := newFakeSource()
	var fetches atomic.Int32
	src.jobs = func(context.Context, int64) (*types.JobsResponse, error) {
		fetches.Add(1)
		return &types.JobsResponse{}, nil
	}

	c := New(src, nil)
	require.NoError(t, c.Load(context.Background(), 1))

	for _, v := range Views {
		require.NoError(t, c.SetView(v))
		assert.Equal(t, v, c.View())
	}
	assert.Error(t, c.SetView("settings"))
	assert.Equal(t, int32(1), fetches.Load())
}

func TestParseView(t *testing.T) {
	tests := []struct {
		input   string
		want    View
		wantErr bool
	}{
		{"", ViewOverview, false},
		{"jobs", ViewJobs, false},
		{" Skills ", ViewSkills, false},
		{"communication", ViewCommunication, false},
		{"billing", "", true},
	}
	for _, tt := range tests {
		got, err := ParseView(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := New(newFakeSource(), nil)
	require.NoError(t, c.Load(context.Background(), 1))

	s := c.Snapshot()
	s.Jobs.Data[0].Title = "mutated"
	s.Analytics.Data.Summary.ActiveProjects = 99

	fresh := c.Snapshot()
	assert.Equal(t, "Go API", fresh.Jobs.Data[0].Title)
	assert.Equal(t, 2, fresh.Analytics.Data.Summary.ActiveProjects)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "refreshing", StatusRefreshing.String())
	assert.Equal(t, "status(42)", Status(42).String())
}

func TestUse_SelectsUserWithoutFetching(t *testing.T) {
	src := newFakeSource()
	var fetches atomic.Int32
	src.analytics = func(context.Context, int64) (*types.Analytics, error) {
		fetches.Add(1)
		return &types.Analytics{}, nil
	}

	c := New(src, nil)
	assert.Error(t, c.Use(0))
	require.NoError(t, c.Use(5))
	assert.Equal(t, int32(0), fetches.Load())
	assert.Equal(t, StatusUninitialized, c.Status())

	summary, err := c.SearchJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalFound)

	s := c.Snapshot()
	assert.Equal(t, int64(5), s.UserID)
	assert.Len(t, s.Jobs.Data, 3)
	assert.Equal(t, ResourceReady, s.Jobs.Status)
	assert.Equal(t, StatusUninitialized, s.Status)
}
