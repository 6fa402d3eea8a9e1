// Package vdom provides the node model used by vstore components.
//
// VNode is the building block representing elements, text, fragments,
// components and raw HTML. Elements are created with variadic factory
// functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    Button(OnClick(handler), Text("Go")),
//	)
//
// # Components
//
// A ComponentType describes a component: its render function and the
// metadata other code inspects without rendering it (display name,
// identifier, prop-type declarations, default props). H creates a component
// node with explicit props:
//
//	var Counter = vdom.Define("Counter", func(p vdom.Props) *vdom.VNode {
//	    return vdom.Textf("%v", p["count"])
//	})
//
//	vdom.H(Counter, vdom.Props{"count": 3})
//
// Component nodes are resolved into rendered output by a host runtime.
package vdom
