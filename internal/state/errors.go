package state

import "errors"

var (
	// ErrNotFound means the named session or project is absent locally.
	ErrNotFound = errors.New("not found")

	// ErrNoPendingApproval means a decision was made with no outstanding
	// approval request; no transport call is issued.
	ErrNoPendingApproval = errors.New("no pending approval")

	// ErrConflict covers duplicate tags, duplicate decisions, and other
	// idempotency violations that are dropped locally.
	ErrConflict = errors.New("conflict")

	// ErrTerminal means the session is in a terminal status and accepts no
	// further outbound intents.
	ErrTerminal = errors.New("session is terminal")
)
