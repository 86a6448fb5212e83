package state

import (
	"sync"
	"time"
)

// Banner is a transient, user-visible failure. The surface owns dismissal
// timing; the bus only publishes.
type Banner struct {
	Message string
	At      time.Time
}

// ErrorBus fans failure banners out to the rendering layer. Publishing never
// blocks and never touches the store.
type ErrorBus struct {
	mu      sync.Mutex
	subs    map[uint64]func(Banner)
	nextSub uint64
	last    *Banner
}

func NewErrorBus() *ErrorBus {
	return &ErrorBus{subs: map[uint64]func(Banner){}}
}

func (b *ErrorBus) Publish(message string) {
	banner := Banner{Message: message, At: time.Now()}
	b.mu.Lock()
	b.last = &banner
	subs := make([]func(Banner), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()
	for _, fn := range subs {
		fn(banner)
	}
}

// Last returns the most recent banner, if any.
func (b *ErrorBus) Last() *Banner {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func (b *ErrorBus) Subscribe(fn func(Banner)) func() {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}
