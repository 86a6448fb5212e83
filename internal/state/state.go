package state

import (
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// State is the authoritative in-memory model. Reducers never mutate a State
// in place: they clone the spine down to whatever changed and share the rest,
// so a published snapshot is immutable and slice identity doubles as a
// memoization key.
type State struct {
	Sessions        map[string]*types.Session
	ActiveSessionID string

	Projects       []*types.Project
	Preferences    *types.Preferences
	OnboardingDone bool
	AvailableTags  []string

	// OrphanEvents counts inbound events that named no locally-known
	// session at arrival time.
	OrphanEvents int
}

func NewState() *State {
	return &State{Sessions: map[string]*types.Session{}}
}

func (s *State) clone() *State {
	next := *s
	return &next
}

func (s *State) cloneSessions() *State {
	next := s.clone()
	next.Sessions = make(map[string]*types.Session, len(s.Sessions))
	for id, session := range s.Sessions {
		next.Sessions[id] = session
	}
	return next
}

func cloneSession(session *types.Session) *types.Session {
	next := *session
	return &next
}

// Session returns the record for id, or nil. Callers must treat the result
// as read-only.
func (s *State) Session(id string) *types.Session {
	return s.Sessions[id]
}
