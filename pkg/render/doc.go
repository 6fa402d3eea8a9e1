// Package render writes resolved vdom trees as HTML.
//
// Component nodes render their resolved output, so trees should come from a
// host.Root. Event handler props are never written. Attributes are emitted in
// sorted order for stable output.
//
//	html, err := render.HTML(root.Tree())
package render
