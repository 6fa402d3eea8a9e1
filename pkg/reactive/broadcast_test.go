package reactive

import (
	"sync"
	"testing"
	"time"
)

type testListener struct {
	id    uint64
	dirty int
}

func newTestListener() *testListener { return &testListener{id: NextID()} }

func (l *testListener) MarkDirty() { l.dirty++ }
func (l *testListener) ID() uint64 { return l.id }

func TestBroadcastReadAndPublish(t *testing.T) {
	b := NewBroadcast(1)
	if b.Read() != 1 {
		t.Fatalf("Read() = %d, want 1", b.Read())
	}

	var got []int
	unsub := b.Subscribe(func(v int) { got = append(got, v) })

	b.Publish(2)
	b.Update(func(v int) int { return v * 10 })
	unsub()
	unsub()
	b.Publish(3)

	if len(got) != 2 || got[0] != 2 || got[1] != 20 {
		t.Errorf("received %v, want [2 20]", got)
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", b.Subscribers())
	}
}

func TestBroadcastNotifiesOnIdenticalValue(t *testing.T) {
	b := NewBroadcast("same")
	calls := 0
	b.Subscribe(func(string) { calls++ })

	b.Publish("same")
	b.Publish("same")

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestTrackerSubscribesListenerOnce(t *testing.T) {
	b := NewBroadcast(0)
	tr := NewTracker[int](b)
	owner := NewOwner(nil)
	l := newTestListener()

	WithOwner(owner, func() {
		WithListener(l, func() {
			tr.Get()
			tr.Get()
		})
	})

	if b.Subscribers() != 1 || tr.Listeners() != 1 {
		t.Fatalf("Subscribers() = %d, Listeners() = %d, want 1/1", b.Subscribers(), tr.Listeners())
	}

	b.Publish(1)
	if l.dirty != 1 {
		t.Errorf("dirty = %d, want 1", l.dirty)
	}

	owner.Dispose()
	if b.Subscribers() != 0 || tr.Listeners() != 0 {
		t.Errorf("after dispose Subscribers() = %d, Listeners() = %d, want 0/0", b.Subscribers(), tr.Listeners())
	}
	b.Publish(2)
	if l.dirty != 1 {
		t.Error("disposed listener should not be notified")
	}
}

func TestTrackerWithoutListener(t *testing.T) {
	b := NewBroadcast(5)
	tr := NewTracker[int](b)
	Untracked(func() {
		if tr.Get() != 5 {
			t.Error("Get() value mismatch")
		}
	})
	if b.Subscribers() != 0 {
		t.Error("untracked read should not subscribe")
	}
}

type testScheduler struct{}

func (testScheduler) AfterCommit(fn func()) { fn() }

func TestTrackerSchedulers(t *testing.T) {
	b := NewBroadcast(0)
	tr := NewTracker[int](b)

	root := NewOwner(nil)
	WithOwner(root, func() { ProvideScheduler(testScheduler{}) })
	WithOwner(NewOwner(root), func() {
		WithListener(newTestListener(), func() { tr.Get() })
	})
	WithListener(newTestListener(), func() { tr.Get() })

	if got := tr.Schedulers(); len(got) != 1 {
		t.Errorf("Schedulers() = %v, want one scheduler", got)
	}
	if tr.Listeners() != 2 {
		t.Errorf("Listeners() = %d, want 2", tr.Listeners())
	}
}

func TestBroadcastReadInsideUpdate(t *testing.T) {
	b := NewBroadcast(1)
	done := make(chan int, 1)
	go func() {
		done <- b.Update(func(v int) int { return v + b.Read() })
	}()

	select {
	case got := <-done:
		if got != 2 {
			t.Errorf("Update() = %d, want 2", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Update with a reading update function did not return")
	}
}

func TestBroadcastNestedUpdatePanics(t *testing.T) {
	b := NewBroadcast(1)
	func() {
		defer func() {
			if r := recover(); r != ErrNestedUpdate {
				t.Errorf("recovered %v, want ErrNestedUpdate", r)
			}
		}()
		b.Update(func(v int) int {
			b.Update(func(v int) int { return v + 1 })
			return v
		})
	}()

	// The lock is released and later updates work.
	if got := b.Update(func(v int) int { return v + 10 }); got != 11 {
		t.Errorf("Update() after panic = %d, want 11", got)
	}
}

func TestBroadcastUpdateIsSerialized(t *testing.T) {
	b := NewBroadcast(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	if b.Read() != 50 {
		t.Errorf("Read() = %d, want 50", b.Read())
	}
}
