package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/philjestin/boatmanapp-sub000/internal/logging"
)

// Transport is the opaque bidirectional channel to the backend: named
// request/response calls and a named event subscription. It does not retry,
// buffer, or interpret payloads.
type Transport interface {
	Call(ctx context.Context, op string, args any, out any) error
	Subscribe(op string, handler func(payload json.RawMessage)) (unsubscribe func())
	Close() error
}

const defaultCallTimeout = 30 * time.Second

type subscription struct {
	id      uint64
	op      string
	handler func(payload json.RawMessage)
}

// WSTransport speaks the envelope protocol over a websocket. A single read
// loop dispatches responses to pending calls and events to subscribers, so
// handlers observe channel-delivery order on one goroutine.
type WSTransport struct {
	conn    *websocket.Conn
	timeout time.Duration
	log     logging.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan *Envelope
	subs    []subscription
	nextSub uint64
	closed  bool
	readErr chan error
	cancel  context.CancelFunc
}

type DialOptions struct {
	CallTimeout time.Duration
	Logger      logging.Logger
}

// Dial connects to the backend and starts the read loop. A dial failure is
// fatal to the renderer; callers surface it through the error boundary.
func Dial(ctx context.Context, url string, opts DialOptions) (*WSTransport, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	conn.SetReadLimit(1 << 22)

	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	readCtx, cancel := context.WithCancel(context.Background())
	t := &WSTransport{
		conn:    conn,
		timeout: timeout,
		log:     log,
		pending: map[string]chan *Envelope{},
		readErr: make(chan error, 1),
		cancel:  cancel,
	}
	go t.readLoop(readCtx)
	return t, nil
}

func (t *WSTransport) readLoop(ctx context.Context) {
	for {
		_, data, err := t.conn.Read(ctx)
		if err != nil {
			t.failAll(err)
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.log.Warn("transport: dropping malformed frame", logging.F("err", err))
			continue
		}
		switch env.Type {
		case envelopeTypeResponse:
			t.mu.Lock()
			ch, ok := t.pending[env.ID]
			if ok {
				delete(t.pending, env.ID)
			}
			t.mu.Unlock()
			if ok {
				ch <- &env
			} else {
				t.log.Debug("transport: late response", logging.F("op", env.Op), logging.F("id", env.ID))
			}
		case envelopeTypeEvent:
			t.dispatchEvent(&env)
		default:
			t.log.Warn("transport: unknown frame type", logging.F("type", env.Type))
		}
	}
}

// dispatchEvent invokes matching handlers synchronously on the read loop
// goroutine. Handlers must be fast; the engine only posts to its queue.
func (t *WSTransport) dispatchEvent(env *Envelope) {
	t.mu.Lock()
	handlers := make([]func(json.RawMessage), 0, len(t.subs))
	for _, sub := range t.subs {
		if sub.op == env.Op {
			handlers = append(handlers, sub.handler)
		}
	}
	t.mu.Unlock()
	for _, handler := range handlers {
		handler(env.Payload)
	}
}

// failAll closes every pending call channel so waiters observe the dead
// channel out of band, never as a wire-level error code.
func (t *WSTransport) failAll(err error) {
	t.mu.Lock()
	pending := t.pending
	t.pending = map[string]chan *Envelope{}
	t.closed = true
	t.mu.Unlock()
	for _, ch := range pending {
		close(ch)
	}
	select {
	case t.readErr <- err:
	default:
	}
}

// Closed yields the read-loop error once the channel dies. The renderer uses
// it to tear down the engine.
func (t *WSTransport) Closed() <-chan error {
	return t.readErr
}

func (t *WSTransport) Call(ctx context.Context, op string, args any, out any) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return &TransportError{Op: op, Err: ErrClosed}
	}
	id := uuid.NewString()
	ch := make(chan *Envelope, 1)
	t.pending[id] = ch
	t.mu.Unlock()

	env := Envelope{ID: id, Type: envelopeTypeRequest, Op: op}
	if args != nil {
		payload, err := json.Marshal(args)
		if err != nil {
			t.dropPending(id)
			return &TransportError{Op: op, Err: err}
		}
		env.Payload = payload
	}
	frame, err := json.Marshal(env)
	if err != nil {
		t.dropPending(id)
		return &TransportError{Op: op, Err: err}
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, t.timeout)
	t.writeMu.Lock()
	err = t.conn.Write(writeCtx, websocket.MessageText, frame)
	t.writeMu.Unlock()
	cancelWrite()
	if err != nil {
		t.dropPending(id)
		return &TransportError{Op: op, Err: err}
	}

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		t.dropPending(id)
		return &TransportError{Op: op, Err: ctx.Err()}
	case <-timer.C:
		t.dropPending(id)
		return &TransportError{Op: op, Err: ErrTransportTimeout}
	case resp, ok := <-ch:
		if !ok {
			return &TransportError{Op: op, Err: ErrClosed}
		}
		if resp.Error != nil {
			return &RemoteError{Op: op, Code: resp.Error.Code, Reason: resp.Error.Message}
		}
		if out == nil {
			return nil
		}
		if len(resp.Payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Payload, out); err != nil {
			return &TransportError{Op: op, Err: err}
		}
		return nil
	}
}

func (t *WSTransport) dropPending(id string) {
	t.mu.Lock()
	delete(t.pending, id)
	t.mu.Unlock()
}

// Subscribe registers a handler for an event op. The returned unsubscribe
// handle is idempotent.
func (t *WSTransport) Subscribe(op string, handler func(payload json.RawMessage)) func() {
	t.mu.Lock()
	t.nextSub++
	id := t.nextSub
	t.subs = append(t.subs, subscription{id: id, op: op, handler: handler})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, sub := range t.subs {
				if sub.id == id {
					t.subs = append(t.subs[:i], t.subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	t.cancel()
	return t.conn.Close(websocket.StatusNormalClosure, "")
}
