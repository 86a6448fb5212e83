package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/philjestin/boatmanapp-sub000/internal/client"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// fakeTransport scripts backend responses by op name and lets tests emit
// events into registered handlers in delivery order.
type fakeTransport struct {
	mu       sync.Mutex
	calls    []fakeCall
	handlers map[string][]func(json.RawMessage)
	respond  map[string]func(args json.RawMessage) (any, error)
}

type fakeCall struct {
	Op   string
	Args json.RawMessage
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		handlers: map[string][]func(json.RawMessage){},
		respond:  map[string]func(args json.RawMessage) (any, error){},
	}
}

func (f *fakeTransport) on(op string, fn func(args json.RawMessage) (any, error)) {
	f.mu.Lock()
	f.respond[op] = fn
	f.mu.Unlock()
}

func (f *fakeTransport) onResult(op string, result any) {
	f.on(op, func(json.RawMessage) (any, error) { return result, nil })
}

func (f *fakeTransport) onError(op string, err error) {
	f.on(op, func(json.RawMessage) (any, error) { return nil, err })
}

func (f *fakeTransport) Call(ctx context.Context, op string, args any, out any) error {
	var raw json.RawMessage
	if args != nil {
		var err error
		raw, err = json.Marshal(args)
		if err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{Op: op, Args: raw})
	fn := f.respond[op]
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	result, err := fn(raw)
	if err != nil {
		return err
	}
	if out == nil || result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeTransport) Subscribe(op string, handler func(payload json.RawMessage)) func() {
	f.mu.Lock()
	f.handlers[op] = append(f.handlers[op], handler)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) emit(t *testing.T, op string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	f.emitRaw(op, data)
}

func (f *fakeTransport) emitRaw(op string, payload json.RawMessage) {
	f.mu.Lock()
	handlers := append([]func(json.RawMessage){}, f.handlers[op]...)
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(payload)
	}
}

func (f *fakeTransport) callsFor(op string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, call := range f.calls {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// flush waits for everything already on the engine queue.
func (e *Engine) flush() {
	e.dispatch(func(s *State) *State { return s })
}

func newTestEngine(t *testing.T, f *fakeTransport) *Engine {
	t.Helper()
	e := NewEngine(client.New(f), Options{PageSize: 50})
	t.Cleanup(e.Close)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e
}

func summary(id, path string, status types.SessionStatus) *types.SessionSummary {
	return &types.SessionSummary{
		ID:          id,
		ProjectPath: path,
		Status:      status,
		Mode:        types.SessionModeNormal,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func msg(id string, role types.MessageRole, content string, at time.Time) *types.Message {
	return &types.Message{ID: id, Role: role, Content: content, Timestamp: at}
}

func TestStartupLoadsSnapshot(t *testing.T) {
	f := newFakeTransport()
	f.onResult("ListAgentSessions", map[string]any{
		"sessions": []*types.SessionSummary{summary("s1", "/p", types.SessionStatusIdle)},
	})
	f.onResult("GetPreferences", &types.Preferences{Theme: types.ThemeDark, NotificationsEnabled: true})
	f.onResult("IsOnboardingCompleted", map[string]any{"completed": true})
	f.onResult("GetAllTags", map[string]any{"tags": []string{"infra"}})

	e := newTestEngine(t, f)
	s := e.Store().Snapshot()
	if len(s.Sessions) != 1 || s.Sessions["s1"] == nil {
		t.Fatalf("expected session s1, got %d sessions", len(s.Sessions))
	}
	if s.Preferences == nil || s.Preferences.Theme != types.ThemeDark {
		t.Fatalf("expected preferences to be mirrored")
	}
	if !s.OnboardingDone {
		t.Fatalf("expected onboarding flag")
	}
	if len(s.AvailableTags) != 1 || s.AvailableTags[0] != "infra" {
		t.Fatalf("expected cached tags, got %v", s.AvailableTags)
	}
}

func TestCreateSessionHappyPath(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)

	id, err := e.CreateSession(context.Background(), "/p")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "s1" {
		t.Fatalf("expected s1, got %s", id)
	}
	if e.Selectors().ActiveSessionID() != "s1" {
		t.Fatalf("expected s1 active")
	}

	f.emit(t, types.EventAgentStatus, types.AgentStatusEvent{SessionID: "s1", Status: types.SessionStatusRunning})
	e.flush()
	if got := e.Store().Snapshot().Session("s1").Status; got != types.SessionStatusRunning {
		t.Fatalf("expected running, got %s", got)
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m1", types.MessageRoleUser, "hi", base)})
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m2", types.MessageRoleAssistant, "hello", base.Add(time.Second))})
	e.flush()

	messages := e.Selectors().MessagesFor("s1")
	if len(messages) != 2 || messages[0].ID != "m1" || messages[1].ID != "m2" {
		t.Fatalf("unexpected transcript: %+v", messages)
	}
}

func TestDuplicateMessageDropped(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	event := types.AgentMessageEvent{SessionID: "s1", Message: msg("m1", types.MessageRoleUser, "hi", at)}
	f.emit(t, types.EventAgentMessage, event)
	f.emit(t, types.EventAgentMessage, event)
	e.flush()

	if got := len(e.Selectors().MessagesFor("s1")); got != 1 {
		t.Fatalf("expected one message, got %d", got)
	}
}

func TestOutOfOrderMessagesSorted(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m2", types.MessageRoleAssistant, "b", base.Add(time.Second))})
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m1", types.MessageRoleUser, "a", base)})
	// Tie on timestamp breaks by id.
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m0", types.MessageRoleSystem, "c", base)})
	e.flush()

	messages := e.Selectors().MessagesFor("s1")
	want := []string{"m0", "m1", "m2"}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i, id := range want {
		if messages[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, messages[i].ID)
		}
	}
}

func TestOrphanEventInsertsPlaceholder(t *testing.T) {
	f := newFakeTransport()
	e := newTestEngine(t, f)

	f.emit(t, types.EventAgentStatus, types.AgentStatusEvent{SessionID: "ghost", Status: types.SessionStatusRunning})
	e.flush()

	s := e.Store().Snapshot()
	if s.OrphanEvents != 1 {
		t.Fatalf("expected one orphan event, got %d", s.OrphanEvents)
	}
	ghost := s.Session("ghost")
	if ghost == nil || !ghost.Placeholder {
		t.Fatalf("expected placeholder row, got %+v", ghost)
	}
	if ghost.Status != types.SessionStatusRunning {
		t.Fatalf("expected observed status on placeholder, got %s", ghost.Status)
	}

	// The next refresh fills the placeholder in.
	f.onResult("ListAgentSessions", map[string]any{
		"sessions": []*types.SessionSummary{summary("ghost", "/p", types.SessionStatusRunning)},
	})
	if err := e.RefreshSessions(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ghost = e.Store().Snapshot().Session("ghost")
	if ghost.Placeholder || ghost.ProjectPath != "/p" {
		t.Fatalf("expected placeholder filled in, got %+v", ghost)
	}
}

func TestMalformedEventMarksSessionError(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}
	f.emit(t, types.EventAgentStatus, types.AgentStatusEvent{SessionID: "s1", Status: types.SessionStatusRunning})
	e.flush()

	var banners []Banner
	unsub := e.Errors().Subscribe(func(b Banner) { banners = append(banners, b) })
	defer unsub()

	f.emitRaw(types.EventAgentMessage, json.RawMessage(`{"session_id":"s1","message":`))
	e.flush()

	if got := e.Store().Snapshot().Session("s1").Status; got != types.SessionStatusError {
		t.Fatalf("expected error status, got %s", got)
	}
	if len(banners) == 0 {
		t.Fatalf("expected an error banner")
	}
}

func TestRemoveSessionClearsActiveSelection(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	s := e.Store().Snapshot()
	if len(s.Sessions) != 0 {
		t.Fatalf("expected sessions slice restored to empty")
	}
	if s.ActiveSessionID != "" {
		t.Fatalf("expected active selection cleared, got %q", s.ActiveSessionID)
	}
}

func TestTerminalSessionRejectsOutboundIntents(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}
	f.emit(t, types.EventAgentStatus, types.AgentStatusEvent{SessionID: "s1", Status: types.SessionStatusStopped})
	e.flush()

	if err := e.SendMessage(context.Background(), "s1", "hi"); !errors.Is(err, ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}
	if calls := f.callsFor("SendAgentMessage"); len(calls) != 0 {
		t.Fatalf("expected no transport call, got %d", len(calls))
	}

	// A final flush of in-flight events is still accepted.
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.emit(t, types.EventAgentMessage, types.AgentMessageEvent{SessionID: "s1", Message: msg("m1", types.MessageRoleAssistant, "bye", at)})
	e.flush()
	if got := len(e.Selectors().MessagesFor("s1")); got != 1 {
		t.Fatalf("expected final event applied, got %d messages", got)
	}
}

func TestSendMessageOptimisticStatusRollback(t *testing.T) {
	f := newFakeTransport()
	f.onResult("CreateAgentSession", summary("s1", "/p", types.SessionStatusIdle))
	f.onError("SendAgentMessage", errors.New("backend unavailable"))
	e := newTestEngine(t, f)
	if _, err := e.CreateSession(context.Background(), "/p"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := e.SendMessage(context.Background(), "s1", "hi"); err == nil {
		t.Fatalf("expected failure")
	}
	if got := e.Store().Snapshot().Session("s1").Status; got != types.SessionStatusIdle {
		t.Fatalf("expected rollback to idle, got %s", got)
	}
}

func TestNotifyGatedOnPreference(t *testing.T) {
	f := newFakeTransport()
	f.onResult("GetPreferences", &types.Preferences{NotificationsEnabled: false})
	e := newTestEngine(t, f)

	if err := e.Notify(context.Background(), "t", "m"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls := f.callsFor("SendNotification"); len(calls) != 0 {
		t.Fatalf("expected notification suppressed")
	}

	if err := e.SavePreferences(context.Background(), &types.Preferences{NotificationsEnabled: true}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	if err := e.Notify(context.Background(), "t", "m"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls := f.callsFor("SendNotification"); len(calls) != 1 {
		t.Fatalf("expected one notification call, got %d", len(calls))
	}
}
