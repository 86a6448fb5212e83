package types

// Pagination describes how much of a session's unbounded message log is
// materialized locally. Page is 0-indexed; page 0 is the newest window.
type Pagination struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
	InFlight bool `json:"in_flight"`
}
