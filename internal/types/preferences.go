package types

type ApprovalMode string

const (
	ApprovalModeSuggest  ApprovalMode = "suggest"
	ApprovalModeAutoEdit ApprovalMode = "auto-edit"
	ApprovalModeFullAuto ApprovalMode = "full-auto"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type AuthMethod string

const (
	AuthMethodAnthropicAPI AuthMethod = "anthropic-api"
	AuthMethodGoogleCloud  AuthMethod = "google-cloud"
)

// Preferences mirrors the backend's preference record. The memory knobs and
// firefighter credentials are passed through untouched; the renderer only
// acts on theme, notifications and the auth method.
type Preferences struct {
	ApprovalMode         ApprovalMode `json:"approval_mode"`
	DefaultModel         string       `json:"default_model,omitempty"`
	Theme                Theme        `json:"theme"`
	NotificationsEnabled bool         `json:"notifications_enabled"`
	MCPServers           []MCPServer  `json:"mcp_servers,omitempty"`

	AuthMethod      AuthMethod `json:"auth_method,omitempty"`
	AnthropicAPIKey string     `json:"anthropic_api_key,omitempty"`
	GCloudProject   string     `json:"gcloud_project,omitempty"`
	GCloudRegion    string     `json:"gcloud_region,omitempty"`

	MaxMessagesPerSession int  `json:"max_messages_per_session,omitempty"`
	ArchiveOldMessages    bool `json:"archive_old_messages,omitempty"`
	AutoCleanupSessions   bool `json:"auto_cleanup_sessions,omitempty"`
	MaxSessionAgeDays     int  `json:"max_session_age_days,omitempty"`
	MaxTotalSessions      int  `json:"max_total_sessions,omitempty"`
	MaxAgentsPerSession   int  `json:"max_agents_per_session,omitempty"`
	KeepCompletedAgents   bool `json:"keep_completed_agents,omitempty"`

	LinearAPIKey string `json:"linear_api_key,omitempty"`
	OktaDomain   string `json:"okta_domain,omitempty"`
	OktaToken    string `json:"okta_token,omitempty"`
}

type MCPServer struct {
	Name    string            `json:"name"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}
