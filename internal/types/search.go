package types

import "time"

type SearchFilter struct {
	Query       string     `json:"query,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	ProjectPath string     `json:"project_path,omitempty"`
	IsFavorite  *bool      `json:"is_favorite,omitempty"`
	FromDate    *time.Time `json:"from_date,omitempty"`
	ToDate      *time.Time `json:"to_date,omitempty"`
}

type SearchResult struct {
	SessionID   string    `json:"session_id"`
	ProjectPath string    `json:"project_path"`
	Snippet     string    `json:"snippet,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
}

type SessionStats struct {
	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
	ActiveAgents  int `json:"active_agents"`
	DiskUsageKB   int `json:"disk_usage_kb,omitempty"`
}
