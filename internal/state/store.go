package state

import (
	"sync"
	"sync/atomic"
)

// Store holds the current immutable snapshot. All writes happen on the
// engine queue; readers may take snapshots from any goroutine.
type Store struct {
	snapshot atomic.Pointer[State]

	mu      sync.Mutex
	subs    map[uint64]func()
	nextSub uint64
}

func NewStore() *Store {
	st := &Store{subs: map[uint64]func(){}}
	st.snapshot.Store(NewState())
	return st
}

func (st *Store) Snapshot() *State {
	return st.snapshot.Load()
}

// apply runs a reducer against the current snapshot and publishes the result.
// It reports whether the state changed. Only the engine queue calls this.
func (st *Store) apply(reduce func(*State) *State) bool {
	current := st.snapshot.Load()
	next := reduce(current)
	if next == current || next == nil {
		return false
	}
	st.snapshot.Store(next)
	st.notify()
	return true
}

func (st *Store) notify() {
	st.mu.Lock()
	subs := make([]func(), 0, len(st.subs))
	for _, fn := range st.subs {
		subs = append(subs, fn)
	}
	st.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// SubscribeChanges registers a callback fired after every state change. The
// callback runs on the engine queue and must not dispatch intents.
func (st *Store) SubscribeChanges(fn func()) func() {
	st.mu.Lock()
	st.nextSub++
	id := st.nextSub
	st.subs[id] = fn
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			delete(st.subs, id)
			st.mu.Unlock()
		})
	}
}
