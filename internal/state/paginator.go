package state

import (
	"context"
)

// MessagePaginator: a per-session windowed view over an unbounded message
// log. LoadMore is a no-op while a load is in flight or when the log is
// fully materialized, so concurrent calls collapse to one request.

func (e *Engine) LoadMore(ctx context.Context, id string) error {
	var (
		acquired bool
		page     int
		pageSize int
	)
	e.dispatch(func(s *State) *State {
		session, ok := s.Sessions[id]
		if !ok {
			return s
		}
		p := session.Pagination
		if p.InFlight || !p.HasMore {
			return s
		}
		acquired = true
		page = p.Page + 1
		pageSize = p.PageSize
		if pageSize <= 0 {
			pageSize = e.pageSize
		}
		return reduceSetPaginationInFlight(s, id, true)
	})
	if !acquired {
		return nil
	}

	result, err := e.api.GetAgentMessagesPaginated(ctx, id, page, pageSize)
	if err != nil {
		e.dispatch(func(s *State) *State {
			return reduceSetPaginationInFlight(s, id, false)
		})
		return e.fail("failed to load older messages", err)
	}
	// If the session was removed while the call was in flight, the merge
	// lands on a missing row and is discarded.
	e.dispatch(func(s *State) *State {
		return reduceReplaceMessages(s, id, page, pageSize, result.Messages, result.HasMore)
	})
	return nil
}
