package client

import (
	"encoding/json"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

type createSessionRequest struct {
	ProjectPath string `json:"project_path"`
}

type createFirefighterRequest struct {
	ProjectPath string `json:"project_path"`
	Scope       string `json:"scope"`
}

// BoatmanInputMode selects how a boatman-mode session is seeded.
type BoatmanInputMode string

const (
	BoatmanInputTicket BoatmanInputMode = "ticket"
	BoatmanInputPrompt BoatmanInputMode = "prompt"
)

type createBoatmanRequest struct {
	ProjectPath  string           `json:"project_path"`
	Input        string           `json:"input"`
	Mode         BoatmanInputMode `json:"mode"`
	LinearAPIKey string           `json:"linear_api_key,omitempty"`
}

type sessionIDRequest struct {
	SessionID string `json:"session_id"`
}

type sessionIDResponse struct {
	SessionID string `json:"session_id"`
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type actionRequest struct {
	SessionID string `json:"session_id"`
	ActionID  string `json:"action_id,omitempty"`
}

type paginatedMessagesRequest struct {
	SessionID string `json:"session_id"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// MessagePage is one window of a session's message log, oldest first within
// the window.
type MessagePage struct {
	Messages []*types.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

type favoriteRequest struct {
	SessionID  string `json:"session_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type tagRequest struct {
	SessionID string `json:"session_id"`
	Tag       string `json:"tag"`
}

type monitoringRequest struct {
	SessionID string `json:"session_id"`
	Enabled   bool   `json:"enabled"`
}

type monitoringResponse struct {
	Active bool `json:"active"`
}

type ticketRequest struct {
	SessionID string `json:"session_id"`
	TicketID  string `json:"ticket_id"`
}

type sessionsResponse struct {
	Sessions []*types.SessionSummary `json:"sessions"`
}

type messagesResponse struct {
	Messages []*types.Message `json:"messages"`
}

type tasksResponse struct {
	Tasks []*types.Task `json:"tasks"`
}

type projectsResponse struct {
	Projects []*types.Project `json:"projects"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type projectIDRequest struct {
	ProjectID string `json:"project_id"`
}

type selectFolderResponse struct {
	Path string `json:"path"`
}

type gitDiffRequest struct {
	Path string `json:"path"`
	Ref  string `json:"ref,omitempty"`
}

type gitDiffResponse struct {
	Diff string `json:"diff"`
}

type parseDiffRequest struct {
	Text string `json:"text"`
}

type sideBySideRequest struct {
	FileDiff json.RawMessage `json:"file_diff"`
}

type onboardingResponse struct {
	Completed bool `json:"completed"`
}

type mcpServersResponse struct {
	Servers []types.MCPServer `json:"servers"`
}

type mcpServerNameRequest struct {
	Name string `json:"name"`
}

type searchResponse struct {
	Results []*types.SearchResult `json:"results"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

type cleanupResponse struct {
	Count int `json:"count"`
}

type notificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// GCloudAuthStatus reports whether a usable gcloud credential is present for
// the google-cloud auth method.
type GCloudAuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Account       string `json:"account,omitempty"`
}
