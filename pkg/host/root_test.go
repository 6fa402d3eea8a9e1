package host

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vstore/pkg/reactive"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// tracked returns a reader of b that subscribes the rendering instance.
func tracked[T any](b *reactive.Broadcast[T]) func() T {
	return reactive.NewTracker[T](b).Get
}

func counterView(b *reactive.Broadcast[int]) *vdom.ComponentType {
	get := tracked(b)
	return vdom.Define("CounterView", func(vdom.Props) *vdom.VNode {
		return vdom.Span(vdom.ID("count"), vdom.Textf("%d", get()))
	})
}

func textOf(node *vdom.VNode) string {
	var sb strings.Builder
	node.Walk(func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}

func TestMountResolvesComponents(t *testing.T) {
	greeting := vdom.Define("Greeting", func(p vdom.Props) *vdom.VNode {
		return vdom.H1(vdom.Textf("hello %s", p["name"]))
	})
	greeting.DefaultProps = vdom.Props{"name": "world"}

	r := New()
	tree := r.Mount(vdom.Div(vdom.H(greeting, nil), vdom.H(greeting, vdom.Props{"name": "gopher"})))

	if got := textOf(tree); got != "hello worldhello gopher" {
		t.Errorf("text = %q", got)
	}

	first := tree.Children[0]
	if first.Kind != vdom.KindComponent || first.Type != greeting {
		t.Fatalf("first child = %+v", first)
	}
	if first.Props["name"] != "world" {
		t.Errorf("resolved props should include defaults, got %v", first.Props)
	}
	if first.Rendered() == nil || first.Rendered().Tag != "h1" {
		t.Errorf("Rendered() = %+v", first.Rendered())
	}
}

func TestBroadcastReRendersSubscriber(t *testing.T) {
	b := reactive.NewBroadcast(47)
	r := New()
	r.Mount(vdom.H(counterView(b), nil))

	if got := textOf(r.Tree()); got != "47" {
		t.Fatalf("initial = %q, want 47", got)
	}

	b.Publish(48)
	if got := textOf(r.Tree()); got != "48" {
		t.Errorf("after publish = %q, want 48", got)
	}
	if r.Stats().Commits < 2 {
		t.Errorf("Commits = %d, want at least 2", r.Stats().Commits)
	}
}

func TestActBatchesRenders(t *testing.T) {
	b := reactive.NewBroadcast(0)
	r := New()
	r.Mount(vdom.H(counterView(b), nil))
	before := r.Stats().Renders

	r.Act(func() {
		b.Publish(1)
		b.Publish(2)
		b.Publish(3)
		if got := textOf(r.Tree()); got != "0" {
			t.Errorf("tree updated inside Act: %q", got)
		}
	})

	if got := textOf(r.Tree()); got != "3" {
		t.Errorf("after Act = %q, want 3", got)
	}
	if renders := r.Stats().Renders - before; renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
}

func TestAfterCommitRunsAfterReRender(t *testing.T) {
	b := reactive.NewBroadcast(0)
	r := New()
	r.Mount(vdom.H(counterView(b), nil))

	var seen string
	r.Act(func() {
		b.Publish(9)
		r.AfterCommit(func() { seen = textOf(r.Tree()) })
	})
	if seen != "9" {
		t.Errorf("AfterCommit observed %q, want 9", seen)
	}

	ran := false
	r.AfterCommit(func() { ran = true })
	if !ran {
		t.Error("AfterCommit with nothing pending should run immediately")
	}
}

func TestHookStateSurvivesReRender(t *testing.T) {
	b := reactive.NewBroadcast(0)
	get := tracked(b)
	created := 0
	stateful := vdom.Define("Stateful", func(vdom.Props) *vdom.VNode {
		owner := reactive.CurrentOwner()
		if owner.UseHookSlot() == nil {
			created++
			owner.SetHookSlot(true)
		}
		return vdom.Textf("%d", get())
	})

	r := New()
	r.Mount(vdom.H(stateful, nil))
	b.Publish(1)
	b.Publish(2)

	if created != 1 {
		t.Errorf("hook state created %d times, want 1", created)
	}
}

func TestUnmountedChildrenAreDisposed(t *testing.T) {
	show := reactive.NewBroadcast(true)
	data := reactive.NewBroadcast(0)
	getShow, getData := tracked(show), tracked(data)
	cleaned := 0

	child := vdom.Define("Child", func(vdom.Props) *vdom.VNode {
		owner := reactive.CurrentOwner()
		if owner.UseHookSlot() == nil {
			owner.SetHookSlot(true)
			owner.OnCleanup(func() { cleaned++ })
		}
		return vdom.Textf("%d", getData())
	})
	parent := vdom.Define("Parent", func(vdom.Props) *vdom.VNode {
		return vdom.Div(vdom.If(getShow(), vdom.H(child, nil)))
	})

	r := New()
	r.Mount(vdom.H(parent, nil))
	if data.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", data.Subscribers())
	}

	show.Publish(false)
	if cleaned != 1 {
		t.Errorf("cleanups = %d, want 1", cleaned)
	}
	if data.Subscribers() != 0 {
		t.Errorf("Subscribers() after unmount = %d, want 0", data.Subscribers())
	}

	r.Unmount()
	if show.Subscribers() != 0 {
		t.Errorf("root subscribers after Unmount = %d", show.Subscribers())
	}
	if r.Tree() != nil {
		t.Error("Tree() after Unmount should be nil")
	}
}

func TestKeyedChildrenKeepInstances(t *testing.T) {
	order := reactive.NewBroadcast([]string{"a", "b"})
	getOrder := tracked(order)
	mounts := map[string]int{}

	item := vdom.Define("Item", func(p vdom.Props) *vdom.VNode {
		owner := reactive.CurrentOwner()
		if owner.UseHookSlot() == nil {
			owner.SetHookSlot(true)
			mounts[p.String("name")]++
		}
		return vdom.Li(vdom.Text(p.String("name")))
	})
	list := vdom.Define("List", func(vdom.Props) *vdom.VNode {
		var items []*vdom.VNode
		for _, name := range getOrder() {
			items = append(items, vdom.H(item, vdom.Props{"name": name, "key": name}))
		}
		return vdom.Ul(items)
	})

	r := New()
	r.Mount(vdom.H(list, nil))
	order.Publish([]string{"b", "a"})

	if mounts["a"] != 1 || mounts["b"] != 1 {
		t.Errorf("mounts = %v, want each item mounted once", mounts)
	}
	if got := textOf(r.Tree()); got != "ba" {
		t.Errorf("text = %q, want ba", got)
	}
}

func TestInvalidPropsAreLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	typed := vdom.Define("Typed", func(vdom.Props) *vdom.VNode { return nil })
	typed.PropTypes = vdom.PropTypes{"count": vdom.Int}

	b := reactive.NewBroadcast(0)
	get := tracked(b)
	parent := vdom.Define("Parent", func(vdom.Props) *vdom.VNode {
		get()
		return vdom.H(typed, vdom.Props{"count": "many"})
	})

	r := New(WithLogger(logger))
	r.Mount(vdom.H(parent, nil))
	b.Publish(1)

	out := buf.String()
	if !strings.Contains(out, "S003") {
		t.Errorf("log missing S003: %s", out)
	}
	if strings.Count(out, "invalid props") != 1 {
		t.Errorf("warning should be logged once: %s", out)
	}
}

func TestFlushLoopIsBounded(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	b := reactive.NewBroadcast(0)
	get := tracked(b)
	looping := vdom.Define("Looping", func(vdom.Props) *vdom.VNode {
		v := get()
		if v > 0 {
			b.Update(func(n int) int { return n + 1 })
		}
		return vdom.Textf("%d", v)
	})

	r := New(WithLogger(logger), WithMaxFlushPasses(5))
	r.Mount(vdom.H(looping, nil))
	b.Publish(1)

	if !strings.Contains(buf.String(), "S005") {
		t.Errorf("expected S005 in log, got: %s", buf.String())
	}
}

func TestComponentWithoutTypeIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	tree := r.Mount(vdom.Div(&vdom.VNode{Kind: vdom.KindComponent}, vdom.Text("ok")))

	if got := textOf(tree); got != "ok" {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(buf.String(), "component node without type") {
		t.Errorf("missing log: %s", buf.String())
	}
}
