package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// ID sets the id attribute.
func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Class sets the class attribute.
func Class(class string) Attr { return Attr{Key: "class", Value: class} }

// Key sets the reconciliation key.
func Key(key string) Attr { return Attr{Key: "key", Value: key} }

// OnClick attaches a click handler.
func OnClick(handler func()) Attr { return Attr{Key: "onclick", Value: handler} }
