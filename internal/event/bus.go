// Package event implements the launcher's event bus.
//
// Design: Subscriptions are typed: Subscribe[T] registers a handler for
// events of concrete type T. Posting is safe from any goroutine and only
// enqueues; handlers run when the owning goroutine calls Drain. Extension
// goroutines reach shell state only through the queue; the phrase
// registry and cards carry their own locks. Notify exposes a channel that
// receives a token whenever the queue goes from empty to non-empty, so an
// event loop can wake up and drain.
package event

import (
	"errors"
	"reflect"
	"slices"
	"sync"
)

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("event bus closed")

// Subscription identifies a registered handler.
type Subscription struct {
	typ reflect.Type
	id  uint64
}

type handler struct {
	id uint64
	fn func(any)
}

// Bus is a typed publish/subscribe queue.
type Bus struct {
	mu       sync.Mutex
	queue    []any
	closed   bool
	handlers map[reflect.Type][]handler
	next     uint64
	notify   chan struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]handler),
		notify:   make(chan struct{}, 1),
	}
}

// Subscribe registers fn for events of type T. Handlers for one type run
// in subscription order.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	typ := reflect.TypeFor[T]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.handlers[typ] = append(b.handlers[typ], handler{
		id: b.next,
		fn: func(e any) { fn(e.(T)) },
	})
	return Subscription{typ: typ, id: b.next}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := slices.DeleteFunc(b.handlers[s.typ], func(h handler) bool { return h.id == s.id })
	if len(hs) == 0 {
		delete(b.handlers, s.typ)
		return
	}
	b.handlers[s.typ] = hs
}

// Post enqueues e for delivery on the next Drain.
func (b *Bus) Post(e any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.queue = append(b.queue, e)
	select {
	case b.notify <- struct{}{}:
	default:
	}
	return nil
}

// Notify returns a channel signalled when events are waiting.
func (b *Bus) Notify() <-chan struct{} { return b.notify }

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Drain delivers queued events, including events posted by handlers during
// the drain, and returns the number delivered. Events with no subscriber
// are dropped.
func (b *Bus) Drain() int {
	n := 0
	for {
		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, e := range batch {
			b.dispatch(e)
			n++
		}
	}
}

func (b *Bus) dispatch(e any) {
	b.mu.Lock()
	hs := slices.Clone(b.handlers[reflect.TypeOf(e)])
	b.mu.Unlock()
	for _, h := range hs {
		h.fn(e)
	}
}

// Close rejects further posts and delivers what is already queued.
func (b *Bus) Close() int {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.Drain()
}
