package state

import (
	"context"
	"encoding/json"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// Thin passthrough intents: one transport call, at most one reducer. The
// backend owns the work; the engine only orders the observations.

func (e *Engine) OpenProject(ctx context.Context, path string) (*types.Project, error) {
	project, err := e.api.OpenProject(ctx, path)
	if err != nil {
		return nil, e.fail("failed to open project", err)
	}
	if err := e.RefreshProjects(ctx); err != nil {
		return project, nil
	}
	return project, nil
}

func (e *Engine) RemoveProject(ctx context.Context, id string) error {
	if err := e.api.RemoveProject(ctx, id); err != nil {
		return e.fail("failed to remove project", err)
	}
	return e.RefreshProjects(ctx)
}

func (e *Engine) RefreshProjects(ctx context.Context) error {
	projects, err := e.api.ListProjects(ctx)
	if err != nil {
		return e.fail("failed to load projects", err)
	}
	e.dispatch(func(s *State) *State { return reduceSetProjects(s, projects) })
	return nil
}

func (e *Engine) SelectFolder(ctx context.Context) (string, error) {
	return e.api.SelectFolder(ctx)
}

func (e *Engine) WorkspaceInfo(ctx context.Context, path string) (*types.WorkspaceInfo, error) {
	return e.api.GetWorkspaceInfo(ctx, path)
}

func (e *Engine) GitStatus(ctx context.Context, path string) (*types.GitStatus, error) {
	return e.api.GetGitStatus(ctx, path)
}

func (e *Engine) GitDiff(ctx context.Context, path, ref string) (string, error) {
	return e.api.GetGitDiff(ctx, path, ref)
}

func (e *Engine) ParseDiff(ctx context.Context, text string) (json.RawMessage, error) {
	return e.api.ParseDiff(ctx, text)
}

func (e *Engine) SideBySideDiff(ctx context.Context, fileDiff json.RawMessage) (json.RawMessage, error) {
	return e.api.GetSideBySideDiff(ctx, fileDiff)
}

func (e *Engine) ToggleMonitoring(ctx context.Context, id string, enabled bool) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	if err := e.api.ToggleFirefighterMonitoring(ctx, id, enabled); err != nil {
		return e.fail("failed to toggle monitoring", err)
	}
	e.dispatch(func(s *State) *State { return reduceSetMonitoring(s, id, enabled) })
	return nil
}

func (e *Engine) RefreshMonitoring(ctx context.Context, id string) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	active, err := e.api.IsMonitoringActive(ctx, id)
	if err != nil {
		return err
	}
	e.dispatch(func(s *State) *State { return reduceSetMonitoring(s, id, active) })
	return nil
}

func (e *Engine) InvestigateTicket(ctx context.Context, id, ticketID string) error {
	if _, err := e.guardOutbound(id); err != nil {
		return err
	}
	if err := e.api.InvestigateLinearTicket(ctx, id, ticketID); err != nil {
		return e.fail("failed to investigate ticket", err)
	}
	return nil
}

func (e *Engine) CleanupOldSessions(ctx context.Context) (int, error) {
	count, err := e.api.CleanupOldSessions(ctx)
	if err != nil {
		return 0, e.fail("cleanup failed", err)
	}
	// Cleanup can remove sessions we hold; reconcile against the backend.
	if err := e.RefreshSessions(ctx); err != nil {
		return count, nil
	}
	return count, nil
}

func (e *Engine) SessionStats(ctx context.Context) (*types.SessionStats, error) {
	return e.api.GetSessionStats(ctx)
}

func (e *Engine) MCPServers(ctx context.Context) ([]types.MCPServer, error) {
	return e.api.GetMCPServers(ctx)
}

func (e *Engine) AddMCPServer(ctx context.Context, server types.MCPServer) error {
	if err := e.api.AddMCPServer(ctx, server); err != nil {
		return e.fail("failed to add MCP server", err)
	}
	return nil
}

func (e *Engine) RemoveMCPServer(ctx context.Context, name string) error {
	if err := e.api.RemoveMCPServer(ctx, name); err != nil {
		return e.fail("failed to remove MCP server", err)
	}
	return nil
}

func (e *Engine) UpdateMCPServer(ctx context.Context, server types.MCPServer) error {
	if err := e.api.UpdateMCPServer(ctx, server); err != nil {
		return e.fail("failed to update MCP server", err)
	}
	return nil
}

func (e *Engine) MCPPresets(ctx context.Context) ([]types.MCPServer, error) {
	return e.api.GetMCPPresets(ctx)
}
