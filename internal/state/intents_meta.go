package state

import (
	"context"
	"fmt"
	"slices"

	"github.com/philjestin/boatmanapp-sub000/internal/logging"
)

// Favorite and tag mutations are optimistic: the store updates immediately,
// the pre-image is captured at dispatch time, and a failed call rolls back.
// The backend does not echo these as events; local truth stands after a
// successful call. A per-(session, field) lock queues a second intent behind
// the outstanding call.

func (e *Engine) SetFavorite(ctx context.Context, id string, favorite bool) error {
	lock := e.fieldLock(id, "favorite")
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessionFor(id)
	if err != nil {
		return err
	}
	prev := session.IsFavorite
	if prev == favorite {
		// Idempotent: state already matches, still confirm with the
		// backend so a lost earlier call cannot leave it stale.
		return e.api.SetSessionFavorite(ctx, id, favorite)
	}

	e.dispatch(func(s *State) *State { return reduceSetFavorite(s, id, favorite) })
	if err := e.api.SetSessionFavorite(ctx, id, favorite); err != nil {
		e.dispatch(func(s *State) *State { return reduceSetFavorite(s, id, prev) })
		return e.fail("failed to update favorite", err)
	}
	return nil
}

func (e *Engine) ToggleFavorite(ctx context.Context, id string) error {
	session, err := e.sessionFor(id)
	if err != nil {
		return err
	}
	return e.SetFavorite(ctx, id, !session.IsFavorite)
}

func (e *Engine) AddTag(ctx context.Context, id, tag string) error {
	if tag == "" {
		return fmt.Errorf("empty tag: %w", ErrConflict)
	}
	lock := e.fieldLock(id, "tags")
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessionFor(id)
	if err != nil {
		return err
	}
	prev := session.Tags
	if slices.Contains(prev, tag) {
		return fmt.Errorf("duplicate tag %q: %w", tag, ErrConflict)
	}

	next := make([]string, 0, len(prev)+1)
	next = append(next, prev...)
	next = append(next, tag)
	e.dispatch(func(s *State) *State { return reduceSetTags(s, id, next) })
	if err := e.api.AddSessionTag(ctx, id, tag); err != nil {
		e.dispatch(func(s *State) *State { return reduceSetTags(s, id, prev) })
		return e.fail("failed to add tag", err)
	}
	e.refreshTagCache(ctx)
	return nil
}

func (e *Engine) RemoveTag(ctx context.Context, id, tag string) error {
	lock := e.fieldLock(id, "tags")
	lock.Lock()
	defer lock.Unlock()

	session, err := e.sessionFor(id)
	if err != nil {
		return err
	}
	prev := session.Tags
	at := slices.Index(prev, tag)
	if at < 0 {
		return fmt.Errorf("tag %q not set: %w", tag, ErrConflict)
	}

	next := make([]string, 0, len(prev)-1)
	next = append(next, prev[:at]...)
	next = append(next, prev[at+1:]...)
	e.dispatch(func(s *State) *State { return reduceSetTags(s, id, next) })
	if err := e.api.RemoveSessionTag(ctx, id, tag); err != nil {
		e.dispatch(func(s *State) *State { return reduceSetTags(s, id, prev) })
		return e.fail("failed to remove tag", err)
	}
	e.refreshTagCache(ctx)
	return nil
}

// refreshTagCache keeps the available-tags list in step with tag mutations.
// Best effort; the stale cache only affects search suggestions.
func (e *Engine) refreshTagCache(ctx context.Context) {
	tags, err := e.api.GetAllTags(ctx)
	if err != nil {
		e.log.Debug("tag cache refresh failed", logging.F("err", err))
		return
	}
	e.dispatch(func(s *State) *State { return reduceSetAvailableTags(s, tags) })
}
