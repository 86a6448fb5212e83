package state

import (
	"sort"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// Reducers are pure: given a state and an intent they return a new state, or
// the same pointer when the intent is a no-op. They run only on the engine
// queue and must not block.

func reduceAddSession(s *State, summary *types.SessionSummary) *State {
	if summary == nil || summary.ID == "" {
		return s
	}
	if _, ok := s.Sessions[summary.ID]; ok {
		return s
	}
	next := s.cloneSessions()
	next.Sessions[summary.ID] = sessionFromSummary(summary)
	return next
}

func sessionFromSummary(summary *types.SessionSummary) *types.Session {
	session := &types.Session{
		ID:          summary.ID,
		ProjectPath: summary.ProjectPath,
		Status:      summary.Status,
		Mode:        summary.Mode,
		CreatedAt:   summary.CreatedAt,
		Tags:        summary.Tags,
		IsFavorite:  summary.IsFavorite,
		Pagination:  types.Pagination{HasMore: true},
	}
	if session.Status == types.SessionStatusWaiting {
		session.PendingApproval = synthesizedApproval(summary.ID)
	}
	return session
}

// synthesizedApproval stands in when a waiting session arrives without
// approval metadata, so waiting always implies a decidable request.
func synthesizedApproval(sessionID string) *types.ApprovalRequest {
	return &types.ApprovalRequest{
		SessionID:  sessionID,
		ActionType: types.ActionTypeOther,
	}
}

// reduceMergeSummary overlays an authoritative summary onto an existing row,
// preserving the locally-materialized messages, tasks and pagination. This is
// how placeholder rows get filled in.
func reduceMergeSummary(s *State, summary *types.SessionSummary) *State {
	existing, ok := s.Sessions[summary.ID]
	if !ok {
		return reduceAddSession(s, summary)
	}
	next := s.cloneSessions()
	merged := cloneSession(existing)
	merged.ProjectPath = summary.ProjectPath
	merged.Status = summary.Status
	merged.Mode = summary.Mode
	merged.CreatedAt = summary.CreatedAt
	merged.Tags = summary.Tags
	merged.IsFavorite = summary.IsFavorite
	merged.Placeholder = false
	if merged.Status != types.SessionStatusWaiting {
		merged.PendingApproval = nil
	} else if merged.PendingApproval == nil {
		merged.PendingApproval = synthesizedApproval(summary.ID)
	}
	next.Sessions[summary.ID] = merged
	return next
}

func reducePlaceholderSession(s *State, id string, status types.SessionStatus) *State {
	if id == "" {
		return s
	}
	if _, ok := s.Sessions[id]; ok {
		return s
	}
	next := s.cloneSessions()
	next.Sessions[id] = &types.Session{
		ID:          id,
		Status:      status,
		Pagination:  types.Pagination{HasMore: true},
		Placeholder: true,
	}
	return next
}

func reduceRemoveSession(s *State, id string) *State {
	if _, ok := s.Sessions[id]; !ok {
		return s
	}
	next := s.cloneSessions()
	delete(next.Sessions, id)
	if next.ActiveSessionID == id {
		next.ActiveSessionID = ""
	}
	return next
}

func reduceSelectSession(s *State, id string) *State {
	if s.ActiveSessionID == id {
		return s
	}
	next := s.clone()
	next.ActiveSessionID = id
	return next
}

func reduceUpdateStatus(s *State, id string, status types.SessionStatus) *State {
	session, ok := s.Sessions[id]
	if !ok || session.Status == status {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Status = status
	if status != types.SessionStatusWaiting {
		updated.PendingApproval = nil
	}
	next.Sessions[id] = updated
	return next
}

// reduceAppendMessage inserts by (timestamp, id) order, dropping duplicates
// by message id. Events almost always arrive in order, so the common case is
// a plain append.
func reduceAppendMessage(s *State, id string, msg *types.Message) *State {
	session, ok := s.Sessions[id]
	if !ok || msg == nil || msg.ID == "" {
		return s
	}
	for _, existing := range session.Messages {
		if existing.ID == msg.ID {
			return s
		}
	}
	messages := make([]*types.Message, 0, len(session.Messages)+1)
	messages = append(messages, session.Messages...)
	if n := len(messages); n == 0 || messages[n-1].Before(msg) {
		messages = append(messages, msg)
	} else {
		at := sort.Search(len(messages), func(i int) bool {
			return msg.Before(messages[i])
		})
		messages = append(messages, nil)
		copy(messages[at+1:], messages[at:])
		messages[at] = msg
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Messages = messages
	next.Sessions[id] = updated
	return next
}

// reduceReplaceMessages merges a loaded page with the existing head,
// deduplicating by message id, and updates the pagination cursor.
func reduceReplaceMessages(s *State, id string, page, pageSize int, loaded []*types.Message, hasMore bool) *State {
	session, ok := s.Sessions[id]
	if !ok {
		return s
	}
	seen := make(map[string]struct{}, len(session.Messages)+len(loaded))
	merged := make([]*types.Message, 0, len(session.Messages)+len(loaded))
	for _, msg := range loaded {
		if msg == nil || msg.ID == "" {
			continue
		}
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}
	for _, msg := range session.Messages {
		if _, dup := seen[msg.ID]; dup {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Before(merged[j])
	})

	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Messages = merged
	updated.Pagination = types.Pagination{
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}
	next.Sessions[id] = updated
	return next
}

func reduceSetPaginationInFlight(s *State, id string, inFlight bool) *State {
	session, ok := s.Sessions[id]
	if !ok || session.Pagination.InFlight == inFlight {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Pagination.InFlight = inFlight
	next.Sessions[id] = updated
	return next
}

// reduceUpsertTask replaces the record at task.ID atomically or inserts it.
// The task map is copied so snapshots stay immutable.
func reduceUpsertTask(s *State, id string, task *types.Task) *State {
	session, ok := s.Sessions[id]
	if !ok || task == nil || task.ID == "" {
		return s
	}
	tasks := make(map[string]*types.Task, len(session.Tasks)+1)
	for taskID, existing := range session.Tasks {
		tasks[taskID] = existing
	}
	tasks[task.ID] = task

	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Tasks = tasks
	next.Sessions[id] = updated
	return next
}

func reduceReplaceTasks(s *State, id string, loaded []*types.Task) *State {
	session, ok := s.Sessions[id]
	if !ok {
		return s
	}
	tasks := make(map[string]*types.Task, len(loaded))
	for _, task := range loaded {
		if task == nil || task.ID == "" {
			continue
		}
		tasks[task.ID] = task
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Tasks = tasks
	next.Sessions[id] = updated
	return next
}

func reduceSetTags(s *State, id string, tags []string) *State {
	session, ok := s.Sessions[id]
	if !ok {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Tags = tags
	next.Sessions[id] = updated
	return next
}

func reduceSetFavorite(s *State, id string, favorite bool) *State {
	session, ok := s.Sessions[id]
	if !ok || session.IsFavorite == favorite {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.IsFavorite = favorite
	next.Sessions[id] = updated
	return next
}

// reduceSetPendingApproval keeps the waiting-iff-pending invariant: a non-nil
// request forces waiting, clearing one from waiting returns to running.
func reduceSetPendingApproval(s *State, id string, req *types.ApprovalRequest) *State {
	session, ok := s.Sessions[id]
	if !ok {
		return s
	}
	if req == nil && session.PendingApproval == nil {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.PendingApproval = req
	if req != nil {
		updated.Status = types.SessionStatusWaiting
	} else if updated.Status == types.SessionStatusWaiting {
		updated.Status = types.SessionStatusRunning
	}
	next.Sessions[id] = updated
	return next
}

func reduceSetMonitoring(s *State, id string, active bool) *State {
	session, ok := s.Sessions[id]
	if !ok || session.Monitoring == active {
		return s
	}
	next := s.cloneSessions()
	updated := cloneSession(session)
	updated.Monitoring = active
	next.Sessions[id] = updated
	return next
}

func reduceSetProjects(s *State, projects []*types.Project) *State {
	next := s.clone()
	next.Projects = projects
	return next
}

func reduceSetPreferences(s *State, prefs *types.Preferences) *State {
	next := s.clone()
	next.Preferences = prefs
	return next
}

func reduceSetOnboardingDone(s *State, done bool) *State {
	if s.OnboardingDone == done {
		return s
	}
	next := s.clone()
	next.OnboardingDone = done
	return next
}

func reduceSetAvailableTags(s *State, tags []string) *State {
	next := s.clone()
	next.AvailableTags = tags
	return next
}

func reduceCountOrphan(s *State) *State {
	next := s.clone()
	next.OrphanEvents++
	return next
}
