package vtest

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/vstore/pkg/host"
	"github.com/vango-dev/vstore/pkg/render"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// Result is a mounted tree under test.
type Result struct {
	tb   testing.TB
	root *host.Root
}

// Render mounts node on a new host.Root. The root is unmounted when the
// test finishes.
func Render(tb testing.TB, node *vdom.VNode, opts ...host.Option) *Result {
	tb.Helper()
	root := host.New(opts...)
	root.Mount(node)
	tb.Cleanup(root.Unmount)
	return &Result{tb: tb, root: root}
}

// Root returns the underlying host root.
func (r *Result) Root() *host.Root {
	return r.root
}

// Tree returns the current resolved tree.
func (r *Result) Tree() *vdom.VNode {
	return r.root.Tree()
}

// Act runs fn as one batch on the root.
func (r *Result) Act(fn func()) {
	r.root.Act(fn)
}

// HTML renders the current tree.
func (r *Result) HTML() string {
	r.tb.Helper()
	html, err := render.HTML(r.Tree())
	if err != nil {
		r.tb.Fatalf("render: %v", err)
	}
	return html
}

// Text returns the concatenated text of the current tree.
func (r *Result) Text() string {
	return render.Text(r.Tree())
}

// FindByID returns the element with the given id attribute, or nil.
func (r *Result) FindByID(id string) *vdom.VNode {
	return FindByID(r.Tree(), id)
}

// TextOf returns the text of the element with the given id. The test fails
// if there is no such element.
func (r *Result) TextOf(id string) string {
	r.tb.Helper()
	n := r.FindByID(id)
	if n == nil {
		r.tb.Fatalf("no element with id %q in:\n%s", id, truncate(r.HTML(), 500))
	}
	return render.Text(n)
}

// Click calls the onclick handler of the element with the given id inside
// Act. The test fails if the element or handler is missing.
func (r *Result) Click(id string) {
	r.tb.Helper()
	n := r.FindByID(id)
	if n == nil {
		r.tb.Fatalf("no element with id %q", id)
	}
	handler, ok := n.Props["onclick"].(func())
	if !ok {
		r.tb.Fatalf("element %q has no click handler", id)
	}
	r.Act(handler)
}

// FindByType returns the first component node of type t, or nil.
func (r *Result) FindByType(t *vdom.ComponentType) *vdom.VNode {
	all := FindAllByType(r.Tree(), t)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// PropsOf returns the props received by the first component of type t.
// The test fails if there is none.
func (r *Result) PropsOf(t *vdom.ComponentType) vdom.Props {
	r.tb.Helper()
	n := r.FindByType(t)
	if n == nil {
		r.tb.Fatalf("no %s component in tree", t.ComponentName())
	}
	return n.Props
}

// FindByProps returns the first component node whose props include every
// entry of want, or nil.
func (r *Result) FindByProps(want vdom.Props) *vdom.VNode {
	return FindByProps(r.Tree(), want)
}

// ExpectText fails the test if the text of element id differs from want.
func (r *Result) ExpectText(id, want string) {
	r.tb.Helper()
	if got := r.TextOf(id); got != want {
		r.tb.Errorf("text of #%s = %q, want %q", id, got, want)
	}
}

// FindByID returns the first element under node with the given id, or nil.
func FindByID(node *vdom.VNode, id string) *vdom.VNode {
	var found *vdom.VNode
	walk(node, func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindElement && n.Props.String("id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAllByType returns every component node of type t under node, in
// document order.
func FindAllByType(node *vdom.VNode, t *vdom.ComponentType) []*vdom.VNode {
	var out []*vdom.VNode
	walk(node, func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindComponent && n.Type == t {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindByProps returns the first component node under node whose props
// include every entry of want, or nil. Values are compared with
// reflect.DeepEqual; funcs never match.
func FindByProps(node *vdom.VNode, want vdom.Props) *vdom.VNode {
	var found *vdom.VNode
	walk(node, func(n *vdom.VNode) bool {
		if n.Kind != vdom.KindComponent {
			return true
		}
		for k, v := range want {
			got, ok := n.Props[k]
			if !ok || !reflect.DeepEqual(got, v) {
				return true
			}
		}
		found = n
		return false
	})
	return found
}

func walk(node *vdom.VNode, fn func(*vdom.VNode) bool) {
	if node == nil {
		return
	}
	node.Walk(fn)
}

// RenderToString renders a node to HTML, returning "" on error.
//
// Example:
//
//	html := vtest.RenderToString(r.Tree())
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	html, err := render.HTML(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, r.Tree(), "number is 48")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
