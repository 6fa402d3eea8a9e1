// Package vtest provides testing helpers for components rendered by a
// host.Root.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    r := vtest.Render(t, counter.Provider(vdom.H(CounterView, nil)))
//	    r.ExpectText("count", "number is 47")
//
//	    r.Click("btn1")
//	    r.ExpectText("count", "number is 48")
//	}
//
// # Finding Components
//
// Resolved trees keep component nodes, so tests can inspect the props a
// component actually received:
//
//	props := r.PropsOf(Foo)
//	if props["numberProp"] != 47 { ... }
//
// # Render Assertions
//
// Assert on rendered HTML output of any node:
//
//	vtest.ExpectContains(t, r.Tree(), "number is 48")
//	vtest.ExpectNotContains(t, r.Tree(), "Error")
package vtest
