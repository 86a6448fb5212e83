package state

import (
	"context"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// SearchClient: stateless passthrough over backend search. The only local
// state is the cached available-tags list, refreshed by tag mutations.

func (e *Engine) Search(ctx context.Context, filter types.SearchFilter) ([]*types.SearchResult, error) {
	results, err := e.api.SearchSessions(ctx, filter)
	if err != nil {
		return nil, e.fail("search failed", err)
	}
	return results, nil
}

// AvailableTags returns the cached tag list loaded at startup and refreshed
// after tag mutations.
func (e *Engine) AvailableTags() []string {
	return e.store.Snapshot().AvailableTags
}
