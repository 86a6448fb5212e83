package types

import "time"

// Project is a backend-owned list entry cached locally.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	LastOpened time.Time `json:"last_opened"`
	CreatedAt  time.Time `json:"created_at"`
}

type WorkspaceInfo struct {
	Path      string `json:"path"`
	IsGitRepo bool   `json:"is_git_repo"`
	Branch    string `json:"branch,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

type GitFileStatus struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

type GitStatus struct {
	Branch string          `json:"branch"`
	Files  []GitFileStatus `json:"files,omitempty"`
}
