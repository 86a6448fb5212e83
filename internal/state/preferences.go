package state

import (
	"context"

	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// PreferencesStore: backend-owned preferences mirrored locally. Saving
// writes through first; the mirror updates only after the call succeeds.

func (e *Engine) Preferences() *types.Preferences {
	return e.store.Snapshot().Preferences
}

func (e *Engine) OnboardingCompleted() bool {
	return e.store.Snapshot().OnboardingDone
}

func (e *Engine) SavePreferences(ctx context.Context, prefs *types.Preferences) error {
	if err := e.api.SetPreferences(ctx, prefs); err != nil {
		return e.fail("failed to save preferences", err)
	}
	e.dispatch(func(s *State) *State { return reduceSetPreferences(s, prefs) })
	return nil
}

func (e *Engine) CompleteOnboarding(ctx context.Context) error {
	if err := e.api.CompleteOnboarding(ctx); err != nil {
		return e.fail("failed to complete onboarding", err)
	}
	e.dispatch(func(s *State) *State { return reduceSetOnboardingDone(s, true) })
	return nil
}

// Notify forwards a desktop notification, gated on the notifications
// preference. A disabled preference is a silent no-op.
func (e *Engine) Notify(ctx context.Context, title, message string) error {
	prefs := e.Preferences()
	if prefs == nil || !prefs.NotificationsEnabled {
		return nil
	}
	return e.api.SendNotification(ctx, title, message)
}
