// Package host mounts vdom trees and keeps them current.
//
// A Root owns one mounted tree. Every component node becomes an instance
// with its own reactive.Owner, so hook state survives re-renders and context
// values flow to descendants. Instances subscribe to whatever they read
// through a reactive.Tracker while rendering; a notification marks the
// instance dirty and the root re-renders it.
//
// Work is synchronous. Outside Act, a notification flushes immediately;
// inside Act, notifications are collected and flushed once when Act returns.
// Callbacks registered with AfterCommit run after the flush that follows
// them, once every re-rendered instance shows the new state.
//
// A Root is not safe for concurrent use; confine it to one goroutine.
package host
