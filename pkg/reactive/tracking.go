package reactive

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// currentOwner is the Owner of the component being rendered.
	currentOwner *Owner

	// currentListener subscribes to values read through Tracker.Get.
	// nil means reads don't create subscriptions.
	currentListener Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

var idCounter atomic.Uint64

// NextID returns a process-unique identifier for owners and listeners.
func NextID() uint64 {
	return idCounter.Add(1)
}

// getGoroutineID returns the id of the current goroutine, parsed from the
// header of its stack trace ("goroutine <id> ...").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// releaseTrackingContext drops the goroutine's context once nothing is
// tracked any more, so finished goroutines don't leak entries.
func releaseTrackingContext(ctx *trackingContext) {
	if ctx.currentOwner == nil && ctx.currentListener == nil {
		trackingContexts.Delete(getGoroutineID())
	}
}

// CurrentOwner returns the owner of the component being rendered, or nil.
func CurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// CurrentListener returns the listener tracking reads, or nil.
func CurrentListener() Listener {
	return getTrackingContext().currentListener
}

// WithOwner runs fn with owner as the current owner.
func WithOwner(owner *Owner, fn func()) {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = owner
	defer func() {
		ctx.currentOwner = old
		releaseTrackingContext(ctx)
	}()
	fn()
}

// WithListener runs fn with l subscribing to every tracked read.
func WithListener(l Listener, fn func()) {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	defer func() {
		ctx.currentListener = old
		releaseTrackingContext(ctx)
	}()
	fn()
}

// Untracked runs fn without a current listener, so reads inside it don't
// subscribe.
func Untracked(fn func()) {
	WithListener(nil, fn)
}

// SetContext sets a context value on the current owner.
// It is a no-op outside a render.
func SetContext(key, value any) {
	if owner := CurrentOwner(); owner != nil {
		owner.SetValue(key, value)
	}
}

// GetContext retrieves a context value from the nearest owner that set it.
// Returns nil if no value is found.
func GetContext(key any) any {
	if owner := CurrentOwner(); owner != nil {
		return owner.GetValue(key)
	}
	return nil
}
