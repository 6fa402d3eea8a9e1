// Package store provides a shared key/value store for component trees.
//
// A Store is created once with an initial State. Rendering its Provider
// creates a fresh Container for that subtree; components below it read the
// container through WithStore, Consumer, UseStore and UseSetStore.
//
//	counter := store.New(store.State{"count": 0})
//
//	view := counter.WithStore("count")(vdom.Define("Count", func(p vdom.Props) *vdom.VNode {
//	    return vdom.Span(vdom.Textf("%v", p["count"]))
//	}))
//
//	root.Mount(counter.Provider(vdom.H(view, nil)))
//
// Updates shallow-merge a partial State into the current snapshot and
// rebroadcast to every subscriber, even when nothing changed.
package store
