package types

// UIState is the only renderer-persisted state; everything else is a cache
// over backend truth. Kept intentionally minimal to avoid staleness.
type UIState struct {
	SidebarOpen         bool   `json:"sidebar_open"`
	LastActiveProjectID string `json:"last_active_project_id,omitempty"`
}
