package render

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/vstore/pkg/vdom"
)

// HTML renders node to a string.
func HTML(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write streams node to w.
func Write(w io.Writer, node *vdom.VNode) error {
	return renderNode(w, node)
}

// Text returns the concatenated text content of node.
func Text(node *vdom.VNode) string {
	var sb strings.Builder
	node.Walk(func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}

func renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case vdom.KindFragment, vdom.KindComponent:
		return renderChildren(w, node)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func renderChildren(w io.Writer, node *vdom.VNode) error {
	for _, child := range node.Children {
		if err := renderNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

func renderElement(w io.Writer, node *vdom.VNode) error {
	if _, err := fmt.Fprintf(w, "<%s", node.Tag); err != nil {
		return err
	}
	if err := renderAttributes(w, node.Props); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if vdom.IsVoidElement(node.Tag) {
		return nil
	}

	if err := renderChildren(w, node); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

func renderAttributes(w io.Writer, props vdom.Props) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		if strings.HasPrefix(k, "on") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := props[k]
		switch val := v.(type) {
		case nil:
			continue
		case bool:
			if !val {
				continue
			}
			if _, err := fmt.Fprintf(w, " %s", k); err != nil {
				return err
			}
			continue
		}
		if reflect.TypeOf(v).Kind() == reflect.Func {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, k, escapeAttr(fmt.Sprint(v))); err != nil {
			return err
		}
	}
	return nil
}
