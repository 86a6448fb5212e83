package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

type recordedCall struct {
	op   string
	args json.RawMessage
}

type scriptedTransport struct {
	calls   []recordedCall
	results map[string]any
	errs    map[string]error
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{results: map[string]any{}, errs: map[string]error{}}
}

func (s *scriptedTransport) Call(_ context.Context, op string, args any, out any) error {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return err
		}
		raw = b
	}
	s.calls = append(s.calls, recordedCall{op: op, args: raw})
	if err, ok := s.errs[op]; ok {
		return &RemoteError{Op: op, Code: "scripted", Reason: err.Error()}
	}
	result, ok := s.results[op]
	if !ok || out == nil {
		return nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (s *scriptedTransport) Subscribe(string, func(json.RawMessage)) func() {
	return func() {}
}

func (s *scriptedTransport) Close() error { return nil }

func (s *scriptedTransport) lastCall(t *testing.T, op string) recordedCall {
	t.Helper()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].op == op {
			return s.calls[i]
		}
	}
	t.Fatalf("no call recorded for %s", op)
	return recordedCall{}
}

func TestCreateAgentSessionRequiresPath(t *testing.T) {
	c := New(newScriptedTransport())
	if _, err := c.CreateAgentSession(context.Background(), "  "); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCreateAgentSessionArgsAndResult(t *testing.T) {
	tr := newScriptedTransport()
	tr.results["CreateAgentSession"] = types.SessionSummary{ID: "s1", ProjectPath: "/repo", Status: types.SessionStatusIdle}
	c := New(tr)

	summary, err := c.CreateAgentSession(context.Background(), "/repo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if summary.ID != "s1" || summary.ProjectPath != "/repo" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var req createSessionRequest
	if err := json.Unmarshal(tr.lastCall(t, "CreateAgentSession").args, &req); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if req.ProjectPath != "/repo" {
		t.Fatalf("unexpected args: %+v", req)
	}
}

func TestApproveAgentActionArgs(t *testing.T) {
	tr := newScriptedTransport()
	c := New(tr)
	if err := c.ApproveAgentAction(context.Background(), "s1", "a1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var req actionRequest
	if err := json.Unmarshal(tr.lastCall(t, "ApproveAgentAction").args, &req); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if req.SessionID != "s1" || req.ActionID != "a1" {
		t.Fatalf("unexpected args: %+v", req)
	}
}

func TestGetAgentMessagesPaginatedArgs(t *testing.T) {
	tr := newScriptedTransport()
	tr.results["GetAgentMessagesPaginated"] = MessagePage{HasMore: true}
	c := New(tr)

	page, err := c.GetAgentMessagesPaginated(context.Background(), "s1", 2, 50)
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if !page.HasMore {
		t.Fatalf("expected hasMore set")
	}

	var req paginatedMessagesRequest
	if err := json.Unmarshal(tr.lastCall(t, "GetAgentMessagesPaginated").args, &req); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if req.SessionID != "s1" || req.Page != 2 || req.PageSize != 50 {
		t.Fatalf("unexpected args: %+v", req)
	}
}

func TestSetPreferencesRejectsNil(t *testing.T) {
	c := New(newScriptedTransport())
	if err := c.SetPreferences(context.Background(), nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRemoteErrorPassesThrough(t *testing.T) {
	tr := newScriptedTransport()
	tr.errs["StopAgentSession"] = errors.New("session not running")
	c := New(tr)

	err := c.StopAgentSession(context.Background(), "s1")
	remote := AsRemoteError(err)
	if remote == nil || remote.Reason != "session not running" {
		t.Fatalf("expected remote error, got %v", err)
	}
}

func TestSearchSessionsFilterForwarded(t *testing.T) {
	tr := newScriptedTransport()
	tr.results["SearchSessions"] = searchResponse{Results: []*types.SearchResult{{SessionID: "s1"}}}
	c := New(tr)

	results, err := c.SearchSessions(context.Background(), types.SearchFilter{Query: "deploy", Tags: []string{"infra"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s1" {
		t.Fatalf("unexpected results: %+v", results)
	}

	var filter types.SearchFilter
	if err := json.Unmarshal(tr.lastCall(t, "SearchSessions").args, &filter); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if filter.Query != "deploy" || len(filter.Tags) != 1 {
		t.Fatalf("unexpected filter: %+v", filter)
	}
}
