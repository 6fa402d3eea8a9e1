package store

import (
	"fmt"
	"sync"

	vserr "github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/reactive"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// SetStore applies an update to the nearest store container.
type SetStore func(u Updater, onComplete ...func(State))

// ConsumerFunc renders from a store snapshot and its updater.
type ConsumerFunc func(state State, set SetStore) *vdom.VNode

const renderProp = "render"

// Store is a store definition. Every Provider mount gets its own
// Container seeded with a copy of the initial State; two Stores never
// share state.
type Store struct {
	initial State
	opts    options

	ctx      *reactive.Context[*Container]
	provider *vdom.ComponentType
	consumer *vdom.ComponentType

	fallbackOnce sync.Once
	fallback     *Container
}

// New creates a Store whose containers start from a copy of initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		initial: initial.Clone(),
		opts:    buildOptions(opts),
		ctx:     reactive.CreateContext[*Container](nil),
	}
	s.provider = &vdom.ComponentType{
		DisplayName: "StoreProvider",
		Render:      s.renderProvider,
	}
	s.consumer = &vdom.ComponentType{
		DisplayName: "StoreConsumer",
		PropTypes:   vdom.PropTypes{renderProp: vdom.Func.IsRequired()},
		Render:      s.renderConsumer,
	}
	return s
}

// NewFunc creates a Store whose initial State is produced by calling
// produce once. A nil produce panics.
func NewFunc(produce func() State, opts ...Option) *Store {
	if produce == nil {
		panic(vserr.New("S002"))
	}
	return New(produce(), opts...)
}

// Name returns the store's name.
func (s *Store) Name() string {
	return s.opts.name
}

// Initial returns a copy of the initial State.
func (s *Store) Initial() State {
	return s.initial.Clone()
}

// Provider returns a node that owns a fresh Container for the lifetime of
// its mount and renders children under it.
func (s *Store) Provider(children ...any) *vdom.VNode {
	return vdom.H(s.provider, nil, children...)
}

func (s *Store) renderProvider(props vdom.Props) *vdom.VNode {
	s.ctx.Provide(s.mountContainer())
	return vdom.Fragment(vdom.ChildrenOf(props))
}

// mountContainer returns the container owned by the rendering Provider,
// creating it on first render.
func (s *Store) mountContainer() *Container {
	owner := reactive.CurrentOwner()
	if owner == nil {
		return s.Fallback()
	}
	if c, ok := owner.UseHookSlot().(*Container); ok {
		return c
	}
	c := newContainer(reactive.NewBroadcast(s.initial.Clone()), s.opts)
	owner.SetHookSlot(c)
	owner.OnCleanup(c.dispose)
	s.opts.logger.Debug("store container created", "owner", owner.ID())
	return c
}

// Consumer returns a node that renders fn with the nearest container's
// snapshot and updater. It re-renders on every update.
func (s *Store) Consumer(fn ConsumerFunc) *vdom.VNode {
	return vdom.H(s.consumer, vdom.Props{renderProp: fn})
}

func (s *Store) renderConsumer(props vdom.Props) *vdom.VNode {
	fn, _ := props[renderProp].(ConsumerFunc)
	if fn == nil {
		return nil
	}
	c := s.UseContainer()
	return fn(c.Get(), c.Update)
}

// WithStore returns a wrapper that injects store keys into a component's
// props. With no keys the whole snapshot is injected. Keys missing from the
// store are injected as nil. Explicit props win over store values of the
// same name.
//
// The wrapper is named withStore(<inner name>) and carries the inner
// component's PropTypes and DefaultProps.
func (s *Store) WithStore(keys ...string) func(inner *vdom.ComponentType) *vdom.ComponentType {
	requested := append([]string(nil), keys...)
	return func(inner *vdom.ComponentType) *vdom.ComponentType {
		if inner == nil {
			panic("store: WithStore applied to nil component")
		}
		return &vdom.ComponentType{
			DisplayName:  fmt.Sprintf("withStore(%s)", inner.ComponentName()),
			PropTypes:    inner.PropTypes,
			DefaultProps: inner.DefaultProps,
			Render: func(props vdom.Props) *vdom.VNode {
				snapshot := s.UseContainer().Get()
				return vdom.H(inner, project(snapshot, requested, props))
			},
		}
	}
}

// project builds the inner props: requested store keys (or all of them)
// overlaid by explicit props.
func project(snapshot State, keys []string, explicit vdom.Props) vdom.Props {
	out := make(vdom.Props, len(keys)+len(explicit))
	if len(keys) == 0 {
		for k, v := range snapshot {
			out[k] = v
		}
	} else {
		for _, k := range keys {
			out[k] = snapshot[k]
		}
	}
	for k, v := range explicit {
		out[k] = v
	}
	return out
}

// UseContainer returns the container of the nearest enclosing Provider, or
// the store's fallback container outside any Provider. It must be called
// while rendering to find a Provider.
func (s *Store) UseContainer() *Container {
	if c, ok := s.ctx.Lookup(); ok && c != nil {
		return c
	}
	return s.Fallback()
}

// UseStore returns the nearest container's snapshot and subscribes the
// rendering component to updates.
func (s *Store) UseStore() State {
	return s.UseContainer().Get()
}

// UseSetStore returns the nearest container's updater without subscribing.
func (s *Store) UseSetStore() SetStore {
	return s.UseContainer().Update
}

// Fallback returns the container used by readers outside any Provider. It
// is created on first use from the initial State.
func (s *Store) Fallback() *Container {
	s.fallbackOnce.Do(func() {
		// Not bound to whichever host happens to render first.
		reactive.WithOwner(nil, func() {
			s.fallback = newContainer(reactive.NewBroadcast(s.initial.Clone()), s.opts)
		})
	})
	return s.fallback
}
