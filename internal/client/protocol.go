package client

import "encoding/json"

const (
	envelopeTypeRequest  = "req"
	envelopeTypeResponse = "res"
	envelopeTypeEvent    = "event"
)

// Envelope is the wire frame for every message on the channel, in either
// direction. Requests and responses correlate by ID; events carry no ID.
type Envelope struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *ErrPayload     `json:"error,omitempty"`
}

type ErrPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func mustRaw(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
