package state

import (
	"context"
	"fmt"

	"github.com/philjestin/boatmanapp-sub000/internal/client"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// Session intents. Each follows the same shape: optimistic reducer where the
// backend does not echo, transport call, compensating reducer on failure.

func (e *Engine) sessionFor(id string) (*types.Session, error) {
	session := e.store.Snapshot().Session(id)
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return session, nil
}

// guardOutbound rejects intents against terminal sessions; those still
// receive a final flush of in-flight events but accept nothing outbound.
func (e *Engine) guardOutbound(id string) (*types.Session, error) {
	session, err := e.sessionFor(id)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("session %s: %w", id, ErrTerminal)
	}
	return session, nil
}

func (e *Engine) CreateSession(ctx context.Context, projectPath string) (string, error) {
	summary, err := e.api.CreateAgentSession(ctx, projectPath)
	if err != nil {
		return "", e.fail("failed to create session", err)
	}
	e.dispatch(func(s *State) *State {
		s = reduceAddSession(s, summary)
		return reduceSelectSession(s, summary.ID)
	})
	return summary.ID, nil
}

func (e *Engine) CreateFirefighterSession(ctx context.Context, projectPath, scope string) (string, error) {
	id, err := e.api.CreateFirefighterSession(ctx, projectPath, scope)
	if err != nil {
		return "", e.fail("failed to create firefighter session", err)
	}
	e.dispatch(func(s *State) *State {
		s = reduceAddSession(s, &types.SessionSummary{
			ID:          id,
			ProjectPath: projectPath,
			Status:      types.SessionStatusIdle,
			Mode:        types.SessionModeFirefighter,
		})
		return reduceSelectSession(s, id)
	})
	return id, nil
}

func (e *Engine) CreateBoatmanSession(ctx context.Context, projectPath, input string, mode client.BoatmanInputMode, linearAPIKey string) (string, error) {
	id, err := e.api.CreateBoatmanModeSession(ctx, projectPath, input, mode, linearAPIKey)
	if err != nil {
		return "", e.fail("failed to create boatman session", err)
	}
	e.dispatch(func(s *State) *State {
		s = reduceAddSession(s, &types.SessionSummary{
			ID:          id,
			ProjectPath: projectPath,
			Status:      types.SessionStatusIdle,
			Mode:        types.SessionModeBoatman,
		})
		return reduceSelectSession(s, id)
	})
	return id, nil
}

func (e *Engine) StartSession(ctx context.Context, id string) error {
	if _, err := e.guardOutbound(id); err != nil {
		return err
	}
	if err := e.api.StartAgentSession(ctx, id); err != nil {
		return e.fail("failed to start session", err)
	}
	// Status moves on the echoed agent:status event.
	return nil
}

func (e *Engine) StopSession(ctx context.Context, id string) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	if err := e.api.StopAgentSession(ctx, id); err != nil {
		return e.fail("failed to stop session", err)
	}
	return nil
}

// DeleteSession removes the row locally on success; removal is not echoed as
// an event. Any in-flight page load for the session lands on a missing row
// and is discarded.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	if err := e.api.DeleteAgentSession(ctx, id); err != nil {
		return e.fail("failed to delete session", err)
	}
	e.dispatch(func(s *State) *State { return reduceRemoveSession(s, id) })
	e.clearDecisions(id)
	return nil
}

// SelectSession sets the active session. Selecting a placeholder row counts
// as the navigation that triggers the follow-up session refresh.
func (e *Engine) SelectSession(ctx context.Context, id string) error {
	var placeholder bool
	if id != "" {
		session, err := e.sessionFor(id)
		if err != nil {
			return err
		}
		placeholder = session.Placeholder
	}
	e.dispatch(func(s *State) *State { return reduceSelectSession(s, id) })
	if placeholder {
		return e.RefreshSessions(ctx)
	}
	return nil
}

// RefreshSessions merges the backend's authoritative list over local rows,
// filling in placeholders. Locally-known rows missing from the list are kept;
// deletion is only observed through DeleteSession.
func (e *Engine) RefreshSessions(ctx context.Context) error {
	sessions, err := e.api.ListAgentSessions(ctx)
	if err != nil {
		return e.fail("failed to refresh sessions", err)
	}
	e.dispatch(func(s *State) *State {
		for _, summary := range sessions {
			s = reduceMergeSummary(s, summary)
		}
		return s
	})
	return nil
}

// SendMessage optimistically moves an idle session to running; the user and
// assistant messages themselves arrive as agent:message events.
func (e *Engine) SendMessage(ctx context.Context, id, content string) error {
	session, err := e.guardOutbound(id)
	if err != nil {
		return err
	}
	prev := session.Status
	if prev == types.SessionStatusIdle {
		e.dispatch(func(s *State) *State {
			return reduceUpdateStatus(s, id, types.SessionStatusRunning)
		})
	}
	if err := e.api.SendAgentMessage(ctx, id, content); err != nil {
		if prev == types.SessionStatusIdle {
			e.dispatch(func(s *State) *State {
				return reduceUpdateStatus(s, id, prev)
			})
		}
		return e.fail("failed to send message", err)
	}
	return nil
}

// LoadMessages fetches the newest page for a session, replacing whatever is
// materialized. Used when a session is first opened.
func (e *Engine) LoadMessages(ctx context.Context, id string) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	page, err := e.api.GetAgentMessagesPaginated(ctx, id, 0, e.pageSize)
	if err != nil {
		return e.fail("failed to load messages", err)
	}
	e.dispatch(func(s *State) *State {
		return reduceReplaceMessages(s, id, 0, e.pageSize, page.Messages, page.HasMore)
	})
	return nil
}

// RefreshTasks replaces the session's task table from the backend.
func (e *Engine) RefreshTasks(ctx context.Context, id string) error {
	if _, err := e.sessionFor(id); err != nil {
		return err
	}
	tasks, err := e.api.GetAgentTasks(ctx, id)
	if err != nil {
		return e.fail("failed to load tasks", err)
	}
	e.dispatch(func(s *State) *State { return reduceReplaceTasks(s, id, tasks) })
	return nil
}
