package types

// Event ops delivered over the transport's subscription channel. Delivery is
// in backend emission order; no gaps are guaranteed across reconnect.
const (
	EventAgentMessage = "agent:message"
	EventAgentTask    = "agent:task"
	EventAgentStatus  = "agent:status"
)

type AgentMessageEvent struct {
	SessionID string   `json:"session_id"`
	Message   *Message `json:"message"`
}

type AgentTaskEvent struct {
	SessionID string `json:"session_id"`
	Task      *Task  `json:"task"`
}

// AgentStatusEvent carries the approval request when the new status is
// waiting; it is absent otherwise.
type AgentStatusEvent struct {
	SessionID string           `json:"session_id"`
	Status    SessionStatus    `json:"status"`
	Approval  *ApprovalRequest `json:"approval,omitempty"`
}
