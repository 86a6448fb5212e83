// Package client wraps the backend channel: named request/response calls
// returning results or typed errors, and named event subscriptions with
// teardown handles. Call names are the backend's RPC surface verbatim.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

type Client struct {
	t Transport
}

func New(t Transport) *Client {
	return &Client{t: t}
}

func (c *Client) Subscribe(op string, handler func(payload json.RawMessage)) func() {
	return c.t.Subscribe(op, handler)
}

func (c *Client) Close() error {
	return c.t.Close()
}

func (c *Client) CreateAgentSession(ctx context.Context, projectPath string) (*types.SessionSummary, error) {
	if strings.TrimSpace(projectPath) == "" {
		return nil, errors.New("project path is required")
	}
	var summary types.SessionSummary
	if err := c.t.Call(ctx, "CreateAgentSession", createSessionRequest{ProjectPath: projectPath}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) CreateFirefighterSession(ctx context.Context, projectPath, scope string) (string, error) {
	var resp sessionIDResponse
	req := createFirefighterRequest{ProjectPath: projectPath, Scope: scope}
	if err := c.t.Call(ctx, "CreateFirefighterSession", req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *Client) CreateBoatmanModeSession(ctx context.Context, projectPath, input string, mode BoatmanInputMode, linearAPIKey string) (string, error) {
	var resp sessionIDResponse
	req := createBoatmanRequest{ProjectPath: projectPath, Input: input, Mode: mode, LinearAPIKey: linearAPIKey}
	if err := c.t.Call(ctx, "CreateBoatmanModeSession", req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *Client) StartAgentSession(ctx context.Context, id string) error {
	return c.t.Call(ctx, "StartAgentSession", sessionIDRequest{SessionID: id}, nil)
}

func (c *Client) StopAgentSession(ctx context.Context, id string) error {
	return c.t.Call(ctx, "StopAgentSession", sessionIDRequest{SessionID: id}, nil)
}

func (c *Client) DeleteAgentSession(ctx context.Context, id string) error {
	return c.t.Call(ctx, "DeleteAgentSession", sessionIDRequest{SessionID: id}, nil)
}

func (c *Client) ListAgentSessions(ctx context.Context) ([]*types.SessionSummary, error) {
	var resp sessionsResponse
	if err := c.t.Call(ctx, "ListAgentSessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) SendAgentMessage(ctx context.Context, id, content string) error {
	return c.t.Call(ctx, "SendAgentMessage", sendMessageRequest{SessionID: id, Content: content}, nil)
}

func (c *Client) ApproveAgentAction(ctx context.Context, id, actionID string) error {
	return c.t.Call(ctx, "ApproveAgentAction", actionRequest{SessionID: id, ActionID: actionID}, nil)
}

func (c *Client) RejectAgentAction(ctx context.Context, id, actionID string) error {
	return c.t.Call(ctx, "RejectAgentAction", actionRequest{SessionID: id, ActionID: actionID}, nil)
}

func (c *Client) GetAgentMessages(ctx context.Context, id string) ([]*types.Message, error) {
	var resp messagesResponse
	if err := c.t.Call(ctx, "GetAgentMessages", sessionIDRequest{SessionID: id}, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) GetAgentMessagesPaginated(ctx context.Context, id string, page, pageSize int) (*MessagePage, error) {
	var resp MessagePage
	req := paginatedMessagesRequest{SessionID: id, Page: page, PageSize: pageSize}
	if err := c.t.Call(ctx, "GetAgentMessagesPaginated", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAgentTasks(ctx context.Context, id string) ([]*types.Task, error) {
	var resp tasksResponse
	if err := c.t.Call(ctx, "GetAgentTasks", sessionIDRequest{SessionID: id}, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) SetSessionFavorite(ctx context.Context, id string, favorite bool) error {
	return c.t.Call(ctx, "SetSessionFavorite", favoriteRequest{SessionID: id, IsFavorite: favorite}, nil)
}

func (c *Client) AddSessionTag(ctx context.Context, id, tag string) error {
	return c.t.Call(ctx, "AddSessionTag", tagRequest{SessionID: id, Tag: tag}, nil)
}

func (c *Client) RemoveSessionTag(ctx context.Context, id, tag string) error {
	return c.t.Call(ctx, "RemoveSessionTag", tagRequest{SessionID: id, Tag: tag}, nil)
}

func (c *Client) ToggleFirefighterMonitoring(ctx context.Context, id string, enabled bool) error {
	return c.t.Call(ctx, "ToggleFirefighterMonitoring", monitoringRequest{SessionID: id, Enabled: enabled}, nil)
}

func (c *Client) IsMonitoringActive(ctx context.Context, id string) (bool, error) {
	var resp monitoringResponse
	if err := c.t.Call(ctx, "IsMonitoringActive", sessionIDRequest{SessionID: id}, &resp); err != nil {
		return false, err
	}
	return resp.Active, nil
}

func (c *Client) InvestigateLinearTicket(ctx context.Context, id, ticketID string) error {
	return c.t.Call(ctx, "InvestigateLinearTicket", ticketRequest{SessionID: id, TicketID: ticketID}, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]*types.Project, error) {
	var resp projectsResponse
	if err := c.t.Call(ctx, "ListProjects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *Client) OpenProject(ctx context.Context, path string) (*types.Project, error) {
	var project types.Project
	if err := c.t.Call(ctx, "OpenProject", pathRequest{Path: path}, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) RemoveProject(ctx context.Context, id string) error {
	return c.t.Call(ctx, "RemoveProject", projectIDRequest{ProjectID: id}, nil)
}

// SelectFolder opens the backend's native folder picker. An empty path means
// the user cancelled; that is not an error.
func (c *Client) SelectFolder(ctx context.Context) (string, error) {
	var resp selectFolderResponse
	if err := c.t.Call(ctx, "SelectFolder", nil, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

func (c *Client) GetWorkspaceInfo(ctx context.Context, path string) (*types.WorkspaceInfo, error) {
	var info types.WorkspaceInfo
	if err := c.t.Call(ctx, "GetWorkspaceInfo", pathRequest{Path: path}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetGitStatus(ctx context.Context, path string) (*types.GitStatus, error) {
	var status types.GitStatus
	if err := c.t.Call(ctx, "GetGitStatus", pathRequest{Path: path}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) GetGitDiff(ctx context.Context, path, ref string) (string, error) {
	var resp gitDiffResponse
	if err := c.t.Call(ctx, "GetGitDiff", gitDiffRequest{Path: path, Ref: ref}, &resp); err != nil {
		return "", err
	}
	return resp.Diff, nil
}

// ParseDiff and GetSideBySideDiff are backend-computed; their results are
// forwarded opaquely to the presentation layer.
func (c *Client) ParseDiff(ctx context.Context, text string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.t.Call(ctx, "ParseDiff", parseDiffRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetSideBySideDiff(ctx context.Context, fileDiff json.RawMessage) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.t.Call(ctx, "GetSideBySideDiff", sideBySideRequest{FileDiff: fileDiff}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetPreferences(ctx context.Context) (*types.Preferences, error) {
	var prefs types.Preferences
	if err := c.t.Call(ctx, "GetPreferences", nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (c *Client) SetPreferences(ctx context.Context, prefs *types.Preferences) error {
	if prefs == nil {
		return errors.New("preferences are required")
	}
	return c.t.Call(ctx, "SetPreferences", prefs, nil)
}

func (c *Client) IsOnboardingCompleted(ctx context.Context) (bool, error) {
	var resp onboardingResponse
	if err := c.t.Call(ctx, "IsOnboardingCompleted", nil, &resp); err != nil {
		return false, err
	}
	return resp.Completed, nil
}

func (c *Client) CompleteOnboarding(ctx context.Context) error {
	return c.t.Call(ctx, "CompleteOnboarding", nil, nil)
}

func (c *Client) GetMCPServers(ctx context.Context) ([]types.MCPServer, error) {
	var resp mcpServersResponse
	if err := c.t.Call(ctx, "GetMCPServers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Servers, nil
}

func (c *Client) AddMCPServer(ctx context.Context, server types.MCPServer) error {
	return c.t.Call(ctx, "AddMCPServer", server, nil)
}

func (c *Client) RemoveMCPServer(ctx context.Context, name string) error {
	return c.t.Call(ctx, "RemoveMCPServer", mcpServerNameRequest{Name: name}, nil)
}

func (c *Client) UpdateMCPServer(ctx context.Context, server types.MCPServer) error {
	return c.t.Call(ctx, "UpdateMCPServer", server, nil)
}

func (c *Client) GetMCPPresets(ctx context.Context) ([]types.MCPServer, error) {
	var resp mcpServersResponse
	if err := c.t.Call(ctx, "GetMCPPresets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Servers, nil
}

func (c *Client) SearchSessions(ctx context.Context, filter types.SearchFilter) ([]*types.SearchResult, error) {
	var resp searchResponse
	if err := c.t.Call(ctx, "SearchSessions", filter, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) GetAllTags(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	if err := c.t.Call(ctx, "GetAllTags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

func (c *Client) CleanupOldSessions(ctx context.Context) (int, error) {
	var resp cleanupResponse
	if err := c.t.Call(ctx, "CleanupOldSessions", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) GetSessionStats(ctx context.Context) (*types.SessionStats, error) {
	var stats types.SessionStats
	if err := c.t.Call(ctx, "GetSessionStats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) SendNotification(ctx context.Context, title, message string) error {
	return c.t.Call(ctx, "SendNotification", notificationRequest{Title: title, Message: message}, nil)
}

func (c *Client) CheckGCloudAuth(ctx context.Context) (*GCloudAuthStatus, error) {
	var status GCloudAuthStatus
	if err := c.t.Call(ctx, "CheckGCloudAuth", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) LoginGCloud(ctx context.Context) error {
	return c.t.Call(ctx, "LoginGCloud", nil, nil)
}
