package store

import (
	"sort"

	vserr "github.com/vango-dev/vstore/internal/errors"
)

// State is a store snapshot: string keys to arbitrary values.
//
// A snapshot returned by the store must be treated as read-only. Updates
// always produce a new map.
type State map[string]any

// Clone returns a shallow copy of s. A nil State clones to an empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the keys of s in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new State holding the keys of s overwritten by the keys
// of partial. Keys absent from partial are kept. Neither input is modified.
func (s State) Merge(partial State) State {
	out := make(State, len(s)+len(partial))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

func (s State) resolve(State) State { return s }

// Updater describes a change to a store: either a partial State or an
// UpdateFunc computing one from the current snapshot.
type Updater interface {
	resolve(current State) State
}

// UpdateFunc computes a partial State from the current snapshot.
type UpdateFunc func(current State) State

func (f UpdateFunc) resolve(current State) State { return f(current) }

// Set returns an Updater that sets key to value.
func Set(key string, value any) Updater {
	return State{key: value}
}

// ErrInvalidUpdater matches (via errors.Is) every error returned for a value
// that cannot be used as an Updater.
var ErrInvalidUpdater error = vserr.New("S001")

// ParseUpdater converts v into an Updater. It accepts State,
// map[string]any, UpdateFunc, func(State) State and
// func(map[string]any) map[string]any.
func ParseUpdater(v any) (Updater, error) {
	switch u := v.(type) {
	case State:
		return u, nil
	case map[string]any:
		return State(u), nil
	case UpdateFunc:
		if u != nil {
			return u, nil
		}
	case func(State) State:
		if u != nil {
			return UpdateFunc(u), nil
		}
	case func(map[string]any) map[string]any:
		if u != nil {
			return UpdateFunc(func(cur State) State { return u(cur) }), nil
		}
	}
	return nil, invalidUpdater(v)
}

func invalidUpdater(v any) error {
	return vserr.New("S001").WithDetailf("got %T", v)
}

// checkUpdater panics on updaters that would fail while the store is being
// written.
func checkUpdater(u Updater) {
	switch f := u.(type) {
	case nil:
		panic(invalidUpdater(u))
	case UpdateFunc:
		if f == nil {
			panic(invalidUpdater(u))
		}
	}
}
