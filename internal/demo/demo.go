// Package demo is the counter app served by the dev server and printed by
// the render command.
package demo

import (
	"log/slog"

	"github.com/vango-dev/vstore/pkg/store"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// DefaultState is the initial state when no seed is configured.
func DefaultState() store.State {
	return store.State{
		"numberProp": 47,
		"otherProp":  "from store",
	}
}

// App is a counter wired to a store.
type App struct {
	st *store.Store

	// Counter shows numberProp with three buttons that update it.
	Counter *vdom.ComponentType

	// Label shows otherProp. Its default wins over the store value.
	Label *vdom.ComponentType

	logger *slog.Logger
}

// New builds the app. produce is called once for the initial state.
func New(produce func() store.State, logger *slog.Logger, opts ...store.Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		st:     store.NewFunc(produce, append([]store.Option{store.WithLogger(logger)}, opts...)...),
		logger: logger.With("component", "demo"),
	}
	a.Counter = a.st.WithStore("numberProp")(vdom.Define("Counter", a.renderCounter))

	label := vdom.Define("Label", renderLabel)
	label.PropTypes = vdom.PropTypes{
		"numberProp": vdom.Int,
		"otherProp":  vdom.String,
	}
	label.DefaultProps = vdom.Props{"otherProp": "hello"}
	a.Label = a.st.WithStore("numberProp", "otherProp")(label)
	return a
}

// Store returns the app's store.
func (a *App) Store() *store.Store {
	return a.st
}

// Tree returns the app's root node: View under the store's Provider.
func (a *App) Tree() *vdom.VNode {
	return a.st.Provider(a.View())
}

// View returns the app's content. It must be rendered under a Provider of
// Store to get its own state.
func (a *App) View() *vdom.VNode {
	return vdom.Div(vdom.Class("app"),
		vdom.H(a.Counter, nil),
		vdom.H(a.Label, nil),
		a.st.Consumer(renderStatus),
	)
}

func (a *App) renderCounter(p vdom.Props) *vdom.VNode {
	set := a.st.UseSetStore()
	n := ToInt(p["numberProp"])

	return vdom.Div(vdom.Class("counter"),
		vdom.Span(vdom.ID("number"), vdom.Textf("number is %d", n)),
		vdom.Button(vdom.ID("btn1"), vdom.Text("+1"), vdom.OnClick(func() {
			set(store.UpdateFunc(func(cur store.State) store.State {
				return store.State{"numberProp": ToInt(cur["numberProp"]) + 1}
			}))
		})),
		vdom.Button(vdom.ID("btn2"), vdom.Text("100"), vdom.OnClick(func() {
			set(store.UpdateFunc(func(store.State) store.State {
				return store.State{"numberProp": 100}
			}))
		})),
		vdom.Button(vdom.ID("btn3"), vdom.Text("2"), vdom.OnClick(func() {
			set(store.Set("numberProp", 2), func(s store.State) {
				a.logger.Info("counter reset", "numberProp", s["numberProp"])
			})
		})),
	)
}

func renderLabel(p vdom.Props) *vdom.VNode {
	return vdom.P(vdom.ID("label"), vdom.Textf("%v (%d)", p["otherProp"], ToInt(p["numberProp"])))
}

func renderStatus(s store.State, _ store.SetStore) *vdom.VNode {
	return vdom.P(vdom.ID("status"), vdom.Textf("%d keys", len(s)))
}

// ToInt converts numeric store values to int. Other values yield 0.
func ToInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
