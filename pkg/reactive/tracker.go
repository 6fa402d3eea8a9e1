package reactive

import "sync"

// Tracker subscribes the listeners that read a Channel through it. Each
// listener is subscribed once, and released when the Owner it first read
// under is disposed.
type Tracker[T any] struct {
	ch Channel[T]

	mu   sync.Mutex
	subs map[uint64]*trackedListener
}

type trackedListener struct {
	unsub func()
	sched Scheduler
}

// NewTracker creates a Tracker reading ch.
func NewTracker[T any](ch Channel[T]) *Tracker[T] {
	return &Tracker[T]{ch: ch, subs: make(map[uint64]*trackedListener)}
}

// Get returns the current value and subscribes the current Listener, if any.
func (t *Tracker[T]) Get() T {
	if l := CurrentListener(); l != nil {
		t.track(l)
	}
	return t.ch.Read()
}

func (t *Tracker[T]) track(l Listener) {
	id := l.ID()

	t.mu.Lock()
	if _, ok := t.subs[id]; ok {
		t.mu.Unlock()
		return
	}
	sub := &trackedListener{sched: CurrentScheduler()}
	t.subs[id] = sub
	t.mu.Unlock()

	unsub := t.ch.Subscribe(func(T) { l.MarkDirty() })
	t.mu.Lock()
	sub.unsub = unsub
	t.mu.Unlock()

	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(func() { t.release(id) })
	}
}

func (t *Tracker[T]) release(id uint64) {
	t.mu.Lock()
	sub, ok := t.subs[id]
	delete(t.subs, id)
	t.mu.Unlock()
	if ok && sub.unsub != nil {
		sub.unsub()
	}
}

// Listeners returns the number of subscribed listeners.
func (t *Tracker[T]) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Schedulers returns the scheduler each listener rendered under, skipping
// listeners that rendered outside a host. The result may hold duplicates.
func (t *Tracker[T]) Schedulers() []Scheduler {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Scheduler, 0, len(t.subs))
	for _, sub := range t.subs {
		if sub.sched != nil {
			out = append(out, sub.sched)
		}
	}
	return out
}
