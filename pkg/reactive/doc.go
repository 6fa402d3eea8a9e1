// Package reactive provides the scopes and the broadcast primitive vstore is
// built on.
//
// # Owners
//
// An Owner is the reactive scope of a mounted component. Owners form a tree
// mirroring the component tree; context values set on an Owner are visible to
// every descendant, and disposing an Owner disposes its children and runs its
// cleanups. Hook slots give components stable state across re-renders.
//
// # Broadcast
//
// Broadcast is a publish/subscribe value holder. Every Update notifies all
// subscribers, whether or not the value changed. Reads never block on an
// Update in progress, so an update function may read the value it updates.
//
// A Tracker reads a Channel on behalf of components: Get subscribes the
// current Listener (the component being rendered), and the subscription is
// released when the reading component's Owner is disposed.
//
// # Tracking
//
// The current Owner and Listener are tracked per goroutine. Hosts establish
// them around a render with WithOwner and WithListener.
package reactive
