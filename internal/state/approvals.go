package state

import (
	"context"
	"fmt"
	"strings"
)

// ApprovalCoordinator: at-most-one outstanding decision per action. The
// inbound status stream owns pendingApproval (set on waiting, cleared on
// running/error/stopped); a decision only issues the transport call and
// trusts the backend to emit the clearing status event.

func decisionKey(sessionID, actionID string) string {
	return sessionID + "|" + actionID
}

func (e *Engine) Approve(ctx context.Context, sessionID, actionID string) error {
	return e.decide(ctx, sessionID, actionID, true)
}

func (e *Engine) Reject(ctx context.Context, sessionID, actionID string) error {
	return e.decide(ctx, sessionID, actionID, false)
}

func (e *Engine) decide(ctx context.Context, sessionID, actionID string, approve bool) error {
	session, err := e.sessionFor(sessionID)
	if err != nil {
		return err
	}
	pending := session.PendingApproval
	if pending == nil {
		return fmt.Errorf("session %s: %w", sessionID, ErrNoPendingApproval)
	}
	if actionID == "" {
		actionID = pending.ActionID
	}

	key := decisionKey(sessionID, actionID)
	e.mu.Lock()
	if _, dup := e.decided[key]; dup {
		e.mu.Unlock()
		return fmt.Errorf("decision already made for %s: %w", actionID, ErrConflict)
	}
	e.decided[key] = struct{}{}
	e.mu.Unlock()

	if approve {
		err = e.api.ApproveAgentAction(ctx, sessionID, actionID)
	} else {
		err = e.api.RejectAgentAction(ctx, sessionID, actionID)
	}
	if err != nil {
		// The decision never reached the backend; let the user retry.
		e.mu.Lock()
		delete(e.decided, key)
		e.mu.Unlock()
		return e.fail("failed to submit decision", err)
	}
	return nil
}

// clearDecisions forgets decision bookkeeping for a session once its waiting
// state resolved (or the session went away).
func (e *Engine) clearDecisions(sessionID string) {
	prefix := sessionID + "|"
	e.mu.Lock()
	for key := range e.decided {
		if strings.HasPrefix(key, prefix) {
			delete(e.decided, key)
		}
	}
	e.mu.Unlock()
}
