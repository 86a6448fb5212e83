package client

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	in := Envelope{
		ID:      "c0ffee",
		Type:    envelopeTypeRequest,
		Op:      "SendAgentMessage",
		Payload: mustRaw(map[string]string{"session_id": "s1", "content": "hi"}),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Envelope
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Type != in.Type || out.Op != in.Op {
		t.Fatalf("header mismatch: %+v", out)
	}
	var payload map[string]string
	if err := json.Unmarshal(out.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["content"] != "hi" {
		t.Fatalf("payload mismatch: %v", payload)
	}
}

func TestEnvelopeErrorFrame(t *testing.T) {
	data := []byte(`{"id":"c0ffee","type":"res","op":"StartAgentSession","error":{"code":"not_found","message":"no such session"}}`)
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error == nil || env.Error.Code != "not_found" || env.Error.Message != "no such session" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
	if len(env.Payload) != 0 {
		t.Fatalf("expected no payload on an error frame")
	}
}

func TestEventEnvelopeHasNoID(t *testing.T) {
	data, err := json.Marshal(Envelope{
		Type:    envelopeTypeEvent,
		Op:      "agent:status",
		Payload: mustRaw(map[string]string{"session_id": "s1", "status": "running"}),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["id"]; ok {
		t.Fatalf("event frames must omit the id field, got %s", data)
	}
}
