// Package state is the renderer's session and event-stream engine: it owns
// the set of live agent sessions, multiplexes the backend event stream into
// per-session updates, coordinates approvals, and exposes consistent
// snapshots to the rendering layer. All state transitions run on one logical
// queue; transport calls are the only suspension points.
package state

import (
	"context"
	"sync"

	"github.com/philjestin/boatmanapp-sub000/internal/client"
	"github.com/philjestin/boatmanapp-sub000/internal/logging"
)

const queueDepth = 1024

type Engine struct {
	api       *client.Client
	store     *Store
	selectors *Selectors
	errs      *ErrorBus
	log       logging.Logger
	pageSize  int

	queue     chan func()
	stopped   chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	decided    map[string]struct{}
	fieldLocks map[string]*sync.Mutex
	unsubs     []func()
}

type Options struct {
	PageSize int
	Logger   logging.Logger
}

func NewEngine(api *client.Client, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	store := NewStore()
	e := &Engine{
		api:        api,
		store:      store,
		selectors:  NewSelectors(store),
		errs:       NewErrorBus(),
		log:        log,
		pageSize:   pageSize,
		queue:      make(chan func(), queueDepth),
		stopped:    make(chan struct{}),
		decided:    map[string]struct{}{},
		fieldLocks: map[string]*sync.Mutex{},
	}
	go e.loop()
	return e
}

func (e *Engine) Store() *Store          { return e.store }
func (e *Engine) Selectors() *Selectors  { return e.selectors }
func (e *Engine) Errors() *ErrorBus      { return e.errs }
func (e *Engine) Client() *client.Client { return e.api }

func (e *Engine) loop() {
	for {
		select {
		case fn := <-e.queue:
			fn()
		case <-e.stopped:
			// Drain whatever was enqueued before the close.
			for {
				select {
				case fn := <-e.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// post enqueues work for the engine queue, preserving enqueue order. It
// reports false once the engine is closed.
func (e *Engine) post(fn func()) bool {
	select {
	case <-e.stopped:
		return false
	default:
	}
	select {
	case e.queue <- fn:
		return true
	case <-e.stopped:
		return false
	}
}

// dispatch applies a reducer on the engine queue and waits for it, so the
// caller observes its own write. Never call from within the queue.
func (e *Engine) dispatch(reduce func(*State) *State) {
	done := make(chan struct{})
	ok := e.post(func() {
		e.store.apply(reduce)
		close(done)
	})
	if !ok {
		return
	}
	<-done
}

// fail publishes a user-visible banner and returns the error unchanged.
func (e *Engine) fail(msg string, err error) error {
	e.log.Warn(msg, logging.F("err", err))
	e.errs.Publish(msg)
	return err
}

// fieldLock serializes optimistic mutations of one (session, field) pair: a
// second intent queues behind the outstanding call.
func (e *Engine) fieldLock(sessionID, field string) *sync.Mutex {
	key := sessionID + "|" + field
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.fieldLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.fieldLocks[key] = lock
	}
	return lock
}

// Close tears down subscriptions and stops the queue. In-flight completions
// after Close are dropped.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		unsubs := e.unsubs
		e.unsubs = nil
		e.mu.Unlock()
		for _, unsub := range unsubs {
			unsub()
		}
		close(e.stopped)
	})
}

// Start loads the startup snapshot and attaches the event dispatcher. A
// failure here is fatal to the renderer.
func (e *Engine) Start(ctx context.Context) error {
	sessions, err := e.api.ListAgentSessions(ctx)
	if err != nil {
		return err
	}
	e.dispatch(func(s *State) *State {
		for _, summary := range sessions {
			s = reduceAddSession(s, summary)
		}
		return s
	})

	if prefs, err := e.api.GetPreferences(ctx); err == nil {
		e.dispatch(func(s *State) *State { return reduceSetPreferences(s, prefs) })
	} else {
		e.log.Warn("load preferences failed", logging.F("err", err))
	}
	if done, err := e.api.IsOnboardingCompleted(ctx); err == nil {
		e.dispatch(func(s *State) *State { return reduceSetOnboardingDone(s, done) })
	} else {
		e.log.Warn("load onboarding state failed", logging.F("err", err))
	}
	if projects, err := e.api.ListProjects(ctx); err == nil {
		e.dispatch(func(s *State) *State { return reduceSetProjects(s, projects) })
	} else {
		e.log.Warn("load projects failed", logging.F("err", err))
	}
	if tags, err := e.api.GetAllTags(ctx); err == nil {
		e.dispatch(func(s *State) *State { return reduceSetAvailableTags(s, tags) })
	} else {
		e.log.Warn("load tags failed", logging.F("err", err))
	}

	e.attachDispatcher()
	return nil
}
