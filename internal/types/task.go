package types

import "encoding/json"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task updates replace the whole record; the id is stable across updates.
type Task struct {
	ID          string          `json:"id"`
	Subject     string          `json:"subject"`
	Description string          `json:"description,omitempty"`
	Status      TaskStatus      `json:"status"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}
