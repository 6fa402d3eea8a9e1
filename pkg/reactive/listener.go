package reactive

// Listener is anything that can be notified when a value it read changes.
// Host component instances implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For components, this schedules a re-render.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used to deduplicate subscriptions.
	ID() uint64
}

// Scheduler runs callbacks once the host has committed pending re-renders.
type Scheduler interface {
	// AfterCommit runs fn after every pending re-render has been applied.
	// If nothing is pending, fn runs immediately.
	AfterCommit(fn func())
}

type schedulerKey struct{}

// ProvideScheduler registers s for the current owner and its descendants.
func ProvideScheduler(s Scheduler) {
	SetContext(schedulerKey{}, s)
}

// CurrentScheduler returns the scheduler registered on the current owner
// chain, or nil when running outside a host.
func CurrentScheduler() Scheduler {
	s, _ := GetContext(schedulerKey{}).(Scheduler)
	return s
}
