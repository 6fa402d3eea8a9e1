package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner represents a component scope. When an Owner is disposed, its child
// owners are disposed and its cleanups run.
//
// Owners form a hierarchy mirroring the component tree, which is how context
// values reach descendants.
type Owner struct {
	id uint64

	// parent is nil for a root owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// cleanups run in reverse registration order on Dispose.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// values stores context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool

	// Hook slot storage for stable identity across renders.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner with the given parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     NextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// Depth returns the number of ancestors of this Owner.
func (o *Owner) Depth() int {
	d := 0
	for p := o.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers a function to run when this Owner is disposed.
// On an already disposed Owner, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// SetValue sets a context value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue retrieves a value from this Owner or its nearest ancestor that has it.
func (o *Owner) GetValue(key any) any {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val
		}
	}
	return nil
}

// Dispose disposes this Owner and all its children.
// Children are disposed in reverse order (last created first), then
// cleanups run in reverse order.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// StartRender is called at the beginning of a component render.
// It resets the hook slot index.
func (o *Owner) StartRender() {
	o.hookSlotIdx = 0
}

// UseHookSlot returns the stored value for the current hook slot, or nil on
// the first render. The caller creates the value and stores it with
// SetHookSlot.
//
//	func useThing() *Thing {
//	    owner := reactive.CurrentOwner()
//	    if slot := owner.UseHookSlot(); slot != nil {
//	        return slot.(*Thing)
//	    }
//	    t := &Thing{}
//	    owner.SetHookSlot(t)
//	    return t
//	}
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the slot last returned empty by UseHookSlot.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}
