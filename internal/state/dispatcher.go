package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/philjestin/boatmanapp-sub000/internal/logging"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// The dispatcher is the single point of ingress for backend events. Handlers
// run on the transport read goroutine and only decode and enqueue, so the
// engine queue observes events in channel-delivery order per session. The
// dispatcher never reorders by timestamp; it trusts the channel.

func (e *Engine) attachDispatcher() {
	unsubs := []func(){
		e.api.Subscribe(types.EventAgentMessage, e.onMessageEvent),
		e.api.Subscribe(types.EventAgentTask, e.onTaskEvent),
		e.api.Subscribe(types.EventAgentStatus, e.onStatusEvent),
	}
	e.mu.Lock()
	e.unsubs = append(e.unsubs, unsubs...)
	e.mu.Unlock()
}

func (e *Engine) onMessageEvent(payload json.RawMessage) {
	var ev types.AgentMessageEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		e.onEventFailure(types.EventAgentMessage, rawSessionID(payload), err)
		return
	}
	e.post(func() {
		e.guardReducer(ev.SessionID, types.EventAgentMessage, func() {
			e.store.apply(func(s *State) *State {
				s = e.ensureSessionRow(s, ev.SessionID, types.SessionStatusIdle)
				return reduceAppendMessage(s, ev.SessionID, ev.Message)
			})
		})
	})
}

func (e *Engine) onTaskEvent(payload json.RawMessage) {
	var ev types.AgentTaskEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		e.onEventFailure(types.EventAgentTask, rawSessionID(payload), err)
		return
	}
	e.post(func() {
		e.guardReducer(ev.SessionID, types.EventAgentTask, func() {
			e.store.apply(func(s *State) *State {
				s = e.ensureSessionRow(s, ev.SessionID, types.SessionStatusIdle)
				return reduceUpsertTask(s, ev.SessionID, ev.Task)
			})
		})
	})
}

func (e *Engine) onStatusEvent(payload json.RawMessage) {
	var ev types.AgentStatusEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		e.onEventFailure(types.EventAgentStatus, rawSessionID(payload), err)
		return
	}
	e.post(func() {
		e.guardReducer(ev.SessionID, types.EventAgentStatus, func() {
			e.store.apply(func(s *State) *State {
				s = e.ensureSessionRow(s, ev.SessionID, ev.Status)
				if ev.Status == types.SessionStatusWaiting {
					req := ev.Approval
					if req == nil {
						req = synthesizedApproval(ev.SessionID)
					}
					return reduceSetPendingApproval(s, ev.SessionID, req)
				}
				return reduceUpdateStatus(s, ev.SessionID, ev.Status)
			})
		})
		if ev.Status != types.SessionStatusWaiting {
			e.clearDecisions(ev.SessionID)
		}
	})
}

// ensureSessionRow implements the startup-race policy: an event for an
// unknown session counts as an orphan and inserts a placeholder row that the
// next session refresh fills in.
func (e *Engine) ensureSessionRow(s *State, sessionID string, status types.SessionStatus) *State {
	if sessionID == "" {
		return reduceCountOrphan(s)
	}
	if _, ok := s.Sessions[sessionID]; ok {
		return s
	}
	e.log.Debug("orphan event; inserting placeholder", logging.F("session", sessionID))
	s = reduceCountOrphan(s)
	return reducePlaceholderSession(s, sessionID, status)
}

// guardReducer keeps a failing reducer from taking the dispatcher down: the
// affected session is marked errored and a banner is surfaced.
func (e *Engine) guardReducer(sessionID, op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("reducer panic", logging.F("op", op), logging.F("session", sessionID), logging.F("panic", fmt.Sprintf("%v", r)))
			e.markSessionError(sessionID)
			e.errs.Publish(fmt.Sprintf("failed to process %s event", op))
		}
	}()
	fn()
}

// onEventFailure handles an undecodable event envelope. Runs on the
// transport goroutine, so the state change is posted to the queue.
func (e *Engine) onEventFailure(op, sessionID string, err error) {
	e.log.Warn("dropping malformed event", logging.F("op", op), logging.F("session", sessionID), logging.F("err", err))
	e.post(func() {
		if sessionID == "" {
			e.store.apply(reduceCountOrphan)
		} else {
			e.markSessionError(sessionID)
		}
		e.errs.Publish(fmt.Sprintf("failed to process %s event", op))
	})
}

// markSessionError flips a running/waiting session to error. Must run on the
// engine queue.
func (e *Engine) markSessionError(sessionID string) {
	e.store.apply(func(s *State) *State {
		session, ok := s.Sessions[sessionID]
		if !ok {
			return reduceCountOrphan(s)
		}
		if session.Status != types.SessionStatusRunning && session.Status != types.SessionStatusWaiting {
			return s
		}
		return reduceUpdateStatus(s, sessionID, types.SessionStatusError)
	})
}

// rawSessionID scans the top-level keys of a possibly truncated event payload
// for session_id. A whole-document unmarshal would fail on the very frames
// this lookup exists for, so it walks tokens and stops at the first decode
// error past the id.
func rawSessionID(payload json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(payload))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return ""
	}
	for {
		keyTok, err := dec.Token()
		if err != nil {
			return ""
		}
		key, ok := keyTok.(string)
		if !ok {
			return ""
		}
		if key == "session_id" {
			valTok, err := dec.Token()
			if err != nil {
				return ""
			}
			id, _ := valTok.(string)
			return id
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return ""
		}
	}
}
