package types

import "time"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// Message is append-only once accepted by the store; it is never edited in
// place. Ordering is by (Timestamp, ID), both assigned by the backend.
type Message struct {
	ID        string           `json:"id"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// Before reports whether m sorts strictly before other under the backend's
// (timestamp, id) order.
func (m *Message) Before(other *Message) bool {
	if !m.Timestamp.Equal(other.Timestamp) {
		return m.Timestamp.Before(other.Timestamp)
	}
	return m.ID < other.ID
}

type MessageMetadata struct {
	AgentID    string          `json:"agent_id,omitempty"`
	ToolUse    *ToolDescriptor `json:"tool_use,omitempty"`
	ToolResult *ToolResult     `json:"tool_result,omitempty"`
	Cost       *CostInfo       `json:"cost,omitempty"`
}

type ToolDescriptor struct {
	Name  string `json:"name"`
	Input string `json:"input,omitempty"`
}

type ToolResult struct {
	ToolUseID string `json:"tool_use_id,omitempty"`
	Output    string `json:"output,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

type CostInfo struct {
	InputTokens  int     `json:"input_tokens,omitempty"`
	OutputTokens int     `json:"output_tokens,omitempty"`
	TotalUSD     float64 `json:"total_usd,omitempty"`
}
