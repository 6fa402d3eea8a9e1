package reactive

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNestedUpdate is the panic value when an update function calls Update on
// the Broadcast it is updating.
var ErrNestedUpdate = errors.New("reactive: Update called from inside an update function")

// Channel is the publish/subscribe value holder a store container is built on.
type Channel[T any] interface {
	// Read returns the current value without subscribing.
	Read() T

	// Subscribe registers fn to receive every published value.
	// The returned function removes the subscription.
	Subscribe(fn func(T)) (unsubscribe func())

	// Update computes and stores the next value from the current one, then
	// notifies every subscriber. It returns the stored value.
	Update(fn func(T) T) T
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Broadcast is the default Channel. It has no equality check: every Update
// notifies every subscriber.
type Broadcast[T any] struct {
	// mu serializes Update so no two updates read the same stale value.
	// Read never takes it.
	mu     sync.Mutex
	value  atomic.Pointer[T]
	writer atomic.Uint64

	subMu sync.RWMutex
	subs  []subscription[T]
}

var _ Channel[int] = (*Broadcast[int])(nil)

// NewBroadcast creates a Broadcast holding initial.
func NewBroadcast[T any](initial T) *Broadcast[T] {
	b := &Broadcast[T]{}
	b.value.Store(&initial)
	return b
}

// Read returns the current value without subscribing. It is safe to call
// from inside an update function.
func (b *Broadcast[T]) Read() T {
	return *b.value.Load()
}

// Subscribe registers fn to receive every published value.
func (b *Broadcast[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	id := NextID()

	b.subMu.Lock()
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Broadcast[T]) unsubscribe(id uint64) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Update computes the next value while holding the update lock, then
// notifies subscribers after releasing it. Calling Update from inside fn
// panics with ErrNestedUpdate.
func (b *Broadcast[T]) Update(fn func(T) T) T {
	next := b.swap(fn)
	b.notify(next)
	return next
}

func (b *Broadcast[T]) swap(fn func(T) T) T {
	gid := getGoroutineID()
	if b.writer.Load() == gid {
		panic(ErrNestedUpdate)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.writer.Store(gid)
	defer b.writer.Store(0)

	next := fn(*b.value.Load())
	b.value.Store(&next)
	return next
}

// Publish replaces the value and notifies subscribers.
func (b *Broadcast[T]) Publish(value T) {
	b.Update(func(T) T { return value })
}

// notify delivers value to a copy of the subscriber list, in subscription order.
func (b *Broadcast[T]) notify(value T) {
	b.subMu.RLock()
	subs := make([]subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.subMu.RUnlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcast[T]) Subscribers() int {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	return len(b.subs)
}
