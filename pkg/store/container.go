package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vstore/pkg/reactive"
)

// Container holds one live store value. It is built on a reactive.Channel
// and adds shallow-merge updates, tracked reads and completion callbacks.
type Container struct {
	ch   reactive.Channel[State]
	opts options

	// sched is the scheduler in effect when the container was created.
	sched reactive.Scheduler

	tracker  *reactive.Tracker[State]
	external atomic.Int64
	version  atomic.Uint64
	disposed atomic.Bool
}

// NewContainer creates a container holding a copy of initial.
func NewContainer(initial State, opts ...Option) *Container {
	return newContainer(reactive.NewBroadcast(initial.Clone()), buildOptions(opts))
}

// NewContainerOn creates a container on top of an existing channel.
func NewContainerOn(ch reactive.Channel[State], opts ...Option) *Container {
	return newContainer(ch, buildOptions(opts))
}

func newContainer(ch reactive.Channel[State], o options) *Container {
	c := &Container{
		ch:      ch,
		opts:    o,
		sched:   reactive.CurrentScheduler(),
		tracker: reactive.NewTracker(ch),
	}
	o.observer.ContainerCreated(o.name)
	return c
}

// Snapshot returns the current value without subscribing.
func (c *Container) Snapshot() State {
	return c.ch.Read()
}

// Get returns the current value. Called while a component renders, it
// subscribes that component so it re-renders on every update. The
// subscription is released when the component's owner is disposed.
func (c *Container) Get() State {
	return c.tracker.Get()
}

// Subscribe registers fn to be called with the new value after every
// update. The returned function unsubscribes.
func (c *Container) Subscribe(fn func(State)) (unsubscribe func()) {
	c.external.Add(1)
	unsub := c.ch.Subscribe(fn)
	var once sync.Once
	return func() {
		once.Do(func() {
			c.external.Add(-1)
			unsub()
		})
	}
}

// Subscribers returns the number of tracked components plus Subscribe
// callbacks.
func (c *Container) Subscribers() int {
	return c.tracker.Listeners() + int(c.external.Load())
}

// Version returns the number of updates applied.
func (c *Container) Version() uint64 {
	return c.version.Load()
}

// Update shallow-merges the partial State described by u into the current
// value and notifies every subscriber, even if no value changed.
//
// Each onComplete callback runs once, after subscribers rendering under a
// scheduler have re-rendered, and receives the snapshot in effect at that
// moment. A nil Updater or nil UpdateFunc panics. An UpdateFunc may read
// the container, but calling Update from inside it panics.
func (c *Container) Update(u Updater, onComplete ...func(State)) {
	checkUpdater(u)

	_, span := c.opts.tracer.Start(context.Background(), "store.update",
		trace.WithAttributes(attribute.String("store.name", c.opts.name)))
	defer span.End()

	start := time.Now()
	var keys []string
	c.ch.Update(func(current State) State {
		partial := u.resolve(current)
		keys = partial.Keys()
		return current.Merge(partial)
	})
	version := c.version.Add(1)
	elapsed := time.Since(start)

	subscribers := c.Subscribers()
	span.SetAttributes(
		attribute.StringSlice("store.keys", keys),
		attribute.Int("store.subscribers", subscribers),
		attribute.Int64("store.version", int64(version)),
	)
	c.opts.logger.Debug("store updated",
		"keys", keys,
		"version", version,
		"subscribers", subscribers,
		"elapsed", elapsed)
	c.opts.observer.Updated(c.opts.name, keys, subscribers, elapsed)

	if len(onComplete) == 0 {
		return
	}
	c.afterCommit(func() {
		snapshot := c.Snapshot()
		for _, fn := range onComplete {
			if fn != nil {
				fn(snapshot)
			}
		}
	})
}

// afterCommit runs fn once every scheduler with a subscriber in it has
// committed.
func (c *Container) afterCommit(fn func()) {
	scheds := c.schedulers()
	run := fn
	for i := len(scheds) - 1; i >= 0; i-- {
		s, next := scheds[i], run
		run = func() { s.AfterCommit(next) }
	}
	run()
}

func (c *Container) schedulers() []reactive.Scheduler {
	var out []reactive.Scheduler
	seen := make(map[reactive.Scheduler]bool)
	add := func(s reactive.Scheduler) {
		if s != nil && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(c.sched)

	for _, s := range c.tracker.Schedulers() {
		add(s)
	}
	return out
}

func (c *Container) dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.opts.logger.Debug("store container disposed", "version", c.Version())
	c.opts.observer.ContainerDisposed(c.opts.name)
}
