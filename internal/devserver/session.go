package devserver

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/vstore/internal/seed"
	"github.com/vango-dev/vstore/pkg/host"
	"github.com/vango-dev/vstore/pkg/render"
	"github.com/vango-dev/vstore/pkg/store"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// App is what the dev server renders.
type App interface {
	// Store returns the store whose Provider wraps View.
	Store() *store.Store

	// View returns the content placed under the Provider.
	View() *vdom.VNode
}

// session is one mounted tree. It must be used from a single goroutine.
type session struct {
	id        string
	root      *host.Root
	container *store.Container
	logger    *slog.Logger
}

func newSession(id string, app App, logger *slog.Logger) *session {
	s := &session{
		id:     id,
		logger: logger.With("session", id),
	}
	s.root = host.New(host.WithLogger(s.logger))

	st := app.Store()
	bridge := &vdom.ComponentType{
		DisplayName: "SessionBridge",
		Render: func(vdom.Props) *vdom.VNode {
			s.container = st.UseContainer()
			return nil
		},
	}
	s.root.Mount(st.Provider(app.View(), vdom.H(bridge, nil)))
	return s
}

// handle applies msg and returns the reply.
func (s *session) handle(msg ClientMessage) (reply ServerMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked", "type", msg.Type, "panic", r)
			reply = errorMessage(fmt.Errorf("handler panicked: %v", r))
		}
	}()

	switch msg.Type {
	case TypeClick:
		if err := s.click(msg.ID); err != nil {
			return errorMessage(err)
		}
	case TypeUpdate:
		if err := s.update(msg.Partial); err != nil {
			return errorMessage(err)
		}
	default:
		return errorMessage(fmt.Errorf("unknown message type %q", msg.Type))
	}
	return s.render()
}

func (s *session) click(id string) error {
	el := findByID(s.root.Tree(), id)
	if el == nil {
		return fmt.Errorf("no element with id %q", id)
	}
	handler, ok := el.Props["onclick"].(func())
	if !ok {
		return fmt.Errorf("element %q has no click handler", id)
	}
	s.root.Act(handler)
	return nil
}

func (s *session) update(raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("update without partial")
	}
	partial, err := seed.Decode("partial.json", raw)
	if err != nil {
		return err
	}
	s.root.Act(func() {
		s.container.Update(partial)
	})
	return nil
}

func (s *session) render() ServerMessage {
	html, err := render.HTML(s.root.Tree())
	if err != nil {
		return errorMessage(err)
	}
	return ServerMessage{
		Type:    TypeRender,
		Session: s.id,
		HTML:    html,
		Version: s.container.Version(),
	}
}

func (s *session) close() {
	s.root.Unmount()
}

func findByID(node *vdom.VNode, id string) *vdom.VNode {
	var found *vdom.VNode
	node.Walk(func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindElement && n.Props.String("id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}
