package host

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vstore/pkg/reactive"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// instance is a mounted component.
type instance struct {
	id     uint64
	root   *Root
	typ    *vdom.ComponentType
	props  vdom.Props
	owner  *reactive.Owner
	parent *instance
	depth  int

	// children are keyed by position, key and component type.
	children map[string]*instance

	// tree is the last resolved output.
	tree *vdom.VNode

	dirty    bool
	disposed bool
}

var _ reactive.Listener = (*instance)(nil)

func (r *Root) newInstance(typ *vdom.ComponentType, parent *instance) *instance {
	parentOwner := r.owner
	depth := 0
	if parent != nil {
		parentOwner = parent.owner
		depth = parent.depth + 1
	}
	return &instance{
		id:       reactive.NextID(),
		root:     r,
		typ:      typ,
		owner:    reactive.NewOwner(parentOwner),
		parent:   parent,
		depth:    depth,
		children: make(map[string]*instance),
	}
}

// ID implements reactive.Listener.
func (i *instance) ID() uint64 {
	return i.id
}

// MarkDirty implements reactive.Listener.
func (i *instance) MarkDirty() {
	if i.disposed || i.dirty {
		return
	}
	i.dirty = true
	i.root.schedule(i)
}

// render re-renders the component with its current props and reconciles
// child instances against the new output.
func (i *instance) render() {
	i.dirty = false

	var out *vdom.VNode
	reactive.WithOwner(i.owner, func() {
		i.owner.StartRender()
		reactive.WithListener(i, func() {
			if i.typ.Render != nil {
				out = i.typ.Render(i.props)
			}
		})
	})
	i.root.stats.Renders++

	seen := make(map[string]bool, len(i.children))
	i.tree = i.resolve(out, "0", seen)

	for key, child := range i.children {
		if !seen[key] {
			child.dispose()
			delete(i.children, key)
		}
	}
}

// resolve copies node, rendering every component node it contains.
func (i *instance) resolve(node *vdom.VNode, path string, seen map[string]bool) *vdom.VNode {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindComponent:
		if node.Type == nil {
			i.root.logger.Error("component node without type", "parent", i.typ.ComponentName(), "path", path)
			return nil
		}
		key := fmt.Sprintf("%s|%p", path, node.Type)
		seen[key] = true

		child := i.children[key]
		if child == nil {
			child = i.root.newInstance(node.Type, i)
			i.children[key] = child
		}
		child.props = node.Type.WithDefaults(node.Props)
		i.root.validate(node.Type, child.props)
		child.render()

		return &vdom.VNode{
			Kind:     vdom.KindComponent,
			Type:     node.Type,
			Props:    child.props,
			Key:      node.Key,
			Children: []*vdom.VNode{child.tree},
		}

	case vdom.KindElement, vdom.KindFragment:
		out := *node
		out.Children = make([]*vdom.VNode, 0, len(node.Children))
		for idx, c := range node.Children {
			if c == nil {
				continue
			}
			seg := strconv.Itoa(idx)
			if c.Key != "" {
				seg = "k:" + c.Key
			}
			if rc := i.resolve(c, path+"."+seg, seen); rc != nil {
				out.Children = append(out.Children, rc)
			}
		}
		return &out

	default:
		return node
	}
}

// dispose unmounts the instance and its descendants.
func (i *instance) dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	for _, child := range i.children {
		child.dispose()
	}
	i.children = nil
	i.owner.Dispose()
}
