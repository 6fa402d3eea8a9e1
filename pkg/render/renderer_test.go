package render

import (
	"testing"

	"github.com/vango-dev/vstore/pkg/vdom"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"nil", nil, ""},
		{"text is escaped", vdom.Text(`<b>"x" & 'y'</b>`), "&lt;b&gt;&quot;x&quot; &amp; &#39;y&#39;&lt;/b&gt;"},
		{"raw is not escaped", vdom.Raw("<b>x</b>"), "<b>x</b>"},
		{
			"attributes sorted, handlers dropped",
			vdom.Button(vdom.ID("btn1"), vdom.Class("primary"), vdom.OnClick(func() {}), vdom.Text("go")),
			`<button class="primary" id="btn1">go</button>`,
		},
		{
			"boolean and nil attributes",
			vdom.El("input", vdom.Attr{Key: "disabled", Value: true}, vdom.Attr{Key: "checked", Value: false}, vdom.Attr{Key: "value", Value: nil}),
			`<input disabled>`,
		},
		{"attribute escaping", vdom.Div(vdom.Attr{Key: "title", Value: "a\"b\nc"}), `<div title="a&quot;b&#10;c"></div>`},
		{"numeric attribute", vdom.Div(vdom.Attr{Key: "data-n", Value: 47}), `<div data-n="47"></div>`},
		{"fragment", vdom.Fragment(vdom.Span(), "t"), "<span></span>t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTML(tt.node)
			if err != nil {
				t.Fatalf("HTML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLComponentRendersResolvedOutput(t *testing.T) {
	node := &vdom.VNode{
		Kind:     vdom.KindComponent,
		Type:     vdom.Define("X", nil),
		Props:    vdom.Props{"secret": "not rendered"},
		Children: []*vdom.VNode{vdom.P(vdom.Text("out"))},
	}
	got, err := HTML(node)
	if err != nil {
		t.Fatal(err)
	}
	if got != "<p>out</p>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestHTMLUnknownKind(t *testing.T) {
	if _, err := HTML(&vdom.VNode{Kind: vdom.VKind(42)}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestText(t *testing.T) {
	node := vdom.Div(vdom.Text("number is "), vdom.Span(vdom.Text("47")))
	if got := Text(node); got != "number is 47" {
		t.Errorf("Text() = %q", got)
	}
}
