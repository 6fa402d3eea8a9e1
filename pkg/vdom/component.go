package vdom

import (
	"reflect"
	"runtime"
	"strings"
)

// RenderFunc renders a component from its props.
type RenderFunc func(props Props) *VNode

// ComponentType describes a component and the metadata other code can
// inspect without rendering it.
type ComponentType struct {
	// DisplayName is the diagnostic name. It takes precedence over Name.
	DisplayName string

	// Name is the component identifier. When empty, the identifier of the
	// Render function is used.
	Name string

	// PropTypes declares the expected type of each prop.
	PropTypes PropTypes

	// DefaultProps are applied for props that are absent or nil.
	DefaultProps Props

	// Render produces the component output.
	Render RenderFunc
}

// Define creates a named component type.
func Define(name string, render RenderFunc) *ComponentType {
	return &ComponentType{Name: name, Render: render}
}

// Component creates a component type named after its render function.
func Component(render RenderFunc) *ComponentType {
	return &ComponentType{Render: render}
}

// ComponentName returns the diagnostic name of the component: its
// DisplayName, falling back to Name, falling back to the identifier of the
// render function, falling back to "Component".
func (t *ComponentType) ComponentName() string {
	if t == nil {
		return "Component"
	}
	if t.DisplayName != "" {
		return t.DisplayName
	}
	if t.Name != "" {
		return t.Name
	}
	if id := funcIdentifier(t.Render); id != "" {
		return id
	}
	return "Component"
}

// String implements fmt.Stringer.
func (t *ComponentType) String() string {
	return t.ComponentName()
}

// funcIdentifier returns the declared name of a top-level function, or ""
// for closures, method values and nil.
func funcIdentifier(fn RenderFunc) string {
	if fn == nil {
		return ""
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if name == "" || strings.ContainsAny(name, ".-()*") {
		return ""
	}
	return name
}

// WithDefaults returns props with the component's defaults filled in for
// absent or nil keys. The input is not modified.
func (t *ComponentType) WithDefaults(props Props) Props {
	out := make(Props, len(props)+len(t.DefaultProps))
	for k, v := range props {
		out[k] = v
	}
	for k, v := range t.DefaultProps {
		if cur, ok := out[k]; !ok || cur == nil {
			out[k] = v
		}
	}
	return out
}

// H creates a component node. Children, if any, are passed to the component
// under ChildrenProp.
func H(t *ComponentType, props Props, children ...any) *VNode {
	p := make(Props, len(props)+1)
	key := ""
	for k, v := range props {
		if k == "key" {
			key, _ = v.(string)
			continue
		}
		p[k] = v
	}
	if len(children) > 0 {
		var kids []*VNode
		for _, c := range children {
			kids = appendChild(kids, c)
		}
		p[ChildrenProp] = kids
	}
	return &VNode{
		Kind:  KindComponent,
		Type:  t,
		Props: p,
		Key:   key,
	}
}

// ChildrenOf returns the children passed to a component.
func ChildrenOf(props Props) []*VNode {
	kids, _ := props.Get(ChildrenProp).([]*VNode)
	return kids
}
