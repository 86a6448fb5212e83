package types

import "time"

type ActionType string

const (
	ActionTypeEdit    ActionType = "edit"
	ActionTypeCommand ActionType = "command"
	ActionTypeOther   ActionType = "other"
)

// ApprovalRequest is created by an inbound status event and destroyed by a
// user decision or by a later event superseding it.
type ApprovalRequest struct {
	SessionID   string     `json:"session_id"`
	ActionID    string     `json:"action_id,omitempty"`
	ActionType  ActionType `json:"action_type"`
	FilePath    string     `json:"file_path,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
