// Package api is the typed catalog of backend operations. Every method maps to exactly one
// gateway call; errors come back unchanged so callers can classify them with errors.As.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/freelance-agent/internal/gateway"
	"github.com/jonathan/freelance-agent/internal/session"
	"github.com/jonathan/freelance-agent/internal/types"
)

// Backend paths, relative to the gateway base URL.
const (
	PathRegister         = "/register"
	PathLogin            = "/login"
	PathLogout           = "/logout"
	PathTest             = "/test"
	PathProjects         = "/projects"
	PathGenerateProposal = "/proposals/generate"
	PathTimeLogs         = "/time-logs"
	PathSuggestReply     = "/communication/suggest"
)

// Client exposes the backend operations. It is safe for concurrent use.
type Client struct {
	gw    *gateway.Gateway
	store *session.Store
}

// New creates a Client. The store must be the one the gateway reads credentials from.
func New(gw *gateway.Gateway, store *session.Store) *Client {
	return &Client{gw: gw, store: store}
}

// Session returns the session store shared with the gateway.
func (c *Client) Session() *session.Store {
	return c.store
}

// Register creates an account. When the backend also opens a session (token and user in
// the response) it is saved, replacing any prior session.
func (c *Client) Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisterResponse, error) {
	var resp types.RegisterResponse
	if err := c.gw.Post(ctx, PathRegister, req, &resp); err != nil {
		return nil, err
	}
	if err := c.saveSession(resp.AccessToken, resp.User); err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Login authenticates and saves the returned token and user as the current session.
// A response missing either one leaves the store untouched.
func (c *Client) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	if err := c.gw.Post(ctx, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	if err := c.saveSession(resp.AccessToken, resp.User); err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Logout ends the session on the backend and always clears the local session, even when
// the backend call fails. The call error, if any, is returned.
func (c *Client) Logout(ctx context.Context) error {
	callErr := c.gw.Post(ctx, PathLogout, nil, nil)
	if err := c.store.Clear(); err != nil {
		return errors.Join(callErr, err)
	}
	return callErr
}

// GetAnalytics fetches the earnings summary and pricing suggestion.
func (c *Client) GetAnalytics(ctx context.Context, userID int64) (*types.Analytics, error) {
	var resp types.Analytics
	if err := c.gw.Get(ctx, userPath("/analytics", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJobs fetches the stored job postings scored for the user.
func (c *Client) GetJobs(ctx context.Context, userID int64) (*types.JobsResponse, error) {
	var resp types.JobsResponse
	if err := c.gw.Get(ctx, userPath("/jobs", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchJobs asks the backend to look for new jobs and returns the refreshed list.
func (c *Client) SearchJobs(ctx context.Context, userID int64) (*types.JobSearchResponse, error) {
	var resp types.JobSearchResponse
	if err := c.gw.Post(ctx, userPath("/jobs/search", userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProjects fetches the user's projects.
func (c *Client) GetProjects(ctx context.Context, userID int64) (*types.ProjectsResponse, error) {
	var resp types.ProjectsResponse
	if err := c.gw.Get(ctx, userPath("/projects", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProject records a new project.
func (c *Client) CreateProject(ctx context.Context, req *types.CreateProjectRequest) (*types.ProjectResponse, error) {
	var resp types.ProjectResponse
	if err := c.gw.Post(ctx, PathProjects, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSkillGaps fetches the skills the user is missing for recent jobs.
func (c *Client) GetSkillGaps(ctx context.Context, userID int64) (*types.SkillGapsResponse, error) {
	var resp types.SkillGapsResponse
	if err := c.gw.Get(ctx, userPath("/skill-gaps", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateProposal asks the backend to draft a proposal for a job.
func (c *Client) GenerateProposal(ctx context.Context, userID, jobID int64) (*types.ProposalResponse, error) {
	req := types.GenerateProposalRequest{UserID: userID, JobID: jobID}
	var resp types.ProposalResponse
	if err := c.gw.Post(ctx, PathGenerateProposal, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProposals fetches the proposals generated for the user.
func (c *Client) GetProposals(ctx context.Context, userID int64) (*types.ProposalsResponse, error) {
	var resp types.ProposalsResponse
	if err := c.gw.Get(ctx, userPath("/proposals", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTime records hours worked on a project.
func (c *Client) LogTime(ctx context.Context, req *types.CreateTimeLogRequest) (*types.TimeLogResponse, error) {
	var resp types.TimeLogResponse
	if err := c.gw.Post(ctx, PathTimeLogs, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SuggestCommunication asks the backend for a reply to a client message.
func (c *Client) SuggestCommunication(ctx context.Context, req *types.CommunicationRequest) (*types.CommunicationResponse, error) {
	var resp types.CommunicationResponse
	if err := c.gw.Post(ctx, PathSuggestReply, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping checks that the backend is reachable.
func (c *Client) Ping(ctx context.Context) (*types.StatusResponse, error) {
	var resp types.StatusResponse
	if err := c.gw.Get(ctx, PathTest, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) saveSession(token string, user *types.User) error {
	if token == "" || user == nil {
		return nil
	}
	if err := c.store.Save(session.Session{Token: token, User: user}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func userPath(prefix string, userID int64) string {
	return fmt.Sprintf("%s/%d", prefix, userID)
}
