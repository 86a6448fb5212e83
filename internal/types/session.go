package types

import "time"

type SessionStatus string

const (
	SessionStatusIdle    SessionStatus = "idle"
	SessionStatusRunning SessionStatus = "running"
	SessionStatusWaiting SessionStatus = "waiting"
	SessionStatusError   SessionStatus = "error"
	SessionStatusStopped SessionStatus = "stopped"
)

// Terminal reports whether the status accepts no further outbound intents.
// In-flight events may still land on a terminal session.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusError || s == SessionStatusStopped
}

type SessionMode string

const (
	SessionModeNormal      SessionMode = "normal"
	SessionModeFirefighter SessionMode = "firefighter"
	SessionModeBoatman     SessionMode = "boatman"
)

// SessionSummary is the backend's view of a session: everything except the
// message log and task table, which are loaded separately.
type SessionSummary struct {
	ID          string        `json:"id"`
	ProjectPath string        `json:"project_path"`
	Status      SessionStatus `json:"status"`
	Mode        SessionMode   `json:"mode"`
	CreatedAt   time.Time     `json:"created_at"`
	Tags        []string      `json:"tags,omitempty"`
	IsFavorite  bool          `json:"is_favorite"`
}

// Session is the renderer-side record. The store owns these exclusively;
// readers receive snapshots and never mutate them.
type Session struct {
	ID          string        `json:"id"`
	ProjectPath string        `json:"project_path"`
	Status      SessionStatus `json:"status"`
	Mode        SessionMode   `json:"mode"`
	CreatedAt   time.Time     `json:"created_at"`
	Tags        []string      `json:"tags,omitempty"`
	IsFavorite  bool          `json:"is_favorite"`

	Messages        []*Message       `json:"messages,omitempty"`
	Tasks           map[string]*Task `json:"tasks,omitempty"`
	Pagination      Pagination       `json:"pagination"`
	PendingApproval *ApprovalRequest `json:"pending_approval,omitempty"`
	Monitoring      bool             `json:"monitoring,omitempty"`

	// Placeholder marks a row created from an event whose session the
	// store had not seen; only ID and Status are trustworthy until the
	// next session refresh fills it in.
	Placeholder bool `json:"placeholder,omitempty"`
}
