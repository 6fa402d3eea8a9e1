package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual node.
//
// For KindComponent nodes, Type and Props describe the component call. Once a
// host has rendered the component, Children holds exactly one node: the
// component's resolved output.
type VNode struct {
	Kind     VKind          // Node type
	Tag      string         // Element tag name (e.g., "div")
	Props    Props          // Attributes, event handlers or component props
	Children []*VNode       // Child nodes
	Key      string         // Reconciliation key
	Text     string         // For KindText and KindRaw
	Type     *ComponentType // For KindComponent
}

// ChildrenProp is the prop under which a component receives its children.
const ChildrenProp = "children"

// Props holds attributes, event handlers and component inputs.
type Props map[string]any

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the value for key if it is a string.
func (p Props) String(key string) string {
	s, _ := p.Get(key).(string)
	return s
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Rendered returns the resolved output of a component node, or nil if the
// node is not a component or has not been rendered.
func (v *VNode) Rendered() *VNode {
	if v == nil || v.Kind != KindComponent || len(v.Children) == 0 {
		return nil
	}
	return v.Children[0]
}

// Walk visits the node and all its descendants depth-first. Returning false
// from fn stops the walk.
func (v *VNode) Walk(fn func(*VNode) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, child := range v.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}
