package host

import (
	"errors"
	"log/slog"
	"sort"

	vserr "github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/reactive"
	"github.com/vango-dev/vstore/pkg/vdom"
)

// DefaultMaxFlushPasses bounds how many times a single flush re-renders
// instances that keep marking themselves dirty.
const DefaultMaxFlushPasses = 100

// Stats counts work done by a Root.
type Stats struct {
	// Renders is the number of component renders.
	Renders int

	// Commits is the number of completed flushes.
	Commits int
}

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger used for prop validation warnings and flush errors.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxFlushPasses overrides DefaultMaxFlushPasses.
func WithMaxFlushPasses(n int) Option {
	return func(r *Root) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// Root is a mounted component tree.
type Root struct {
	owner     *reactive.Owner
	logger    *slog.Logger
	maxPasses int

	top *instance

	batchDepth  int
	flushing    bool
	dirty       []*instance
	afterCommit []func()

	warned map[string]bool
	stats  Stats
}

var _ reactive.Scheduler = (*Root)(nil)

// New creates an empty Root.
func New(opts ...Option) *Root {
	r := &Root{
		owner:     reactive.NewOwner(nil),
		logger:    slog.Default().With("component", "host"),
		maxPasses: DefaultMaxFlushPasses,
		warned:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	reactive.WithOwner(r.owner, func() {
		reactive.ProvideScheduler(r)
	})
	return r
}

// Mount renders node as the root of the tree, replacing any previous tree,
// and returns the resolved output.
func (r *Root) Mount(node *vdom.VNode) *vdom.VNode {
	if r.top != nil {
		r.top.dispose()
	}

	typ := &vdom.ComponentType{
		DisplayName: "Root",
		Render:      func(vdom.Props) *vdom.VNode { return node },
	}
	r.top = r.newInstance(typ, nil)
	r.Act(func() {
		r.top.render()
	})
	return r.Tree()
}

// Tree returns the resolved output of the mounted tree.
func (r *Root) Tree() *vdom.VNode {
	if r.top == nil {
		return nil
	}
	return r.top.tree
}

// Owner returns the root owner. Every instance owner descends from it.
func (r *Root) Owner() *reactive.Owner {
	return r.owner
}

// Stats returns render and commit counts.
func (r *Root) Stats() Stats {
	return r.stats
}

// Unmount disposes every instance. Subscriptions made while rendering are
// released.
func (r *Root) Unmount() {
	if r.top != nil {
		r.top.dispose()
		r.top = nil
	}
	r.dirty = nil
	r.afterCommit = nil
}

// Act runs fn as one batch: re-renders requested while fn runs are applied
// together once it returns.
func (r *Root) Act(fn func()) {
	r.batchDepth++
	func() {
		defer func() { r.batchDepth-- }()
		fn()
	}()

	if r.batchDepth == 0 && (len(r.dirty) > 0 || len(r.afterCommit) > 0) {
		r.flush()
	}
}

// AfterCommit runs fn once pending re-renders are applied, or immediately
// if nothing is pending.
func (r *Root) AfterCommit(fn func()) {
	if r.batchDepth > 0 || r.flushing || len(r.dirty) > 0 {
		r.afterCommit = append(r.afterCommit, fn)
		return
	}
	fn()
}

// schedule queues a dirty instance and flushes unless a batch or flush is
// already in progress.
func (r *Root) schedule(inst *instance) {
	r.dirty = append(r.dirty, inst)
	if r.batchDepth == 0 && !r.flushing {
		r.flush()
	}
}

func (r *Root) flush() {
	r.renderDirty()
	r.stats.Commits++

	callbacks := r.afterCommit
	r.afterCommit = nil
	for _, fn := range callbacks {
		fn()
	}
}

// renderDirty re-renders dirty instances, shallowest first, until none remain.
func (r *Root) renderDirty() {
	r.flushing = true
	defer func() { r.flushing = false }()

	for passes := 0; len(r.dirty) > 0; passes++ {
		if passes == r.maxPasses {
			err := vserr.New("S005").WithDetailf("%d instances still dirty after %d passes", len(r.dirty), passes)
			r.logger.Error("flush aborted", "error", err)
			for _, inst := range r.dirty {
				inst.dirty = false
			}
			r.dirty = nil
			return
		}

		batch := r.dirty
		r.dirty = nil
		sort.SliceStable(batch, func(a, b int) bool {
			return batch[a].depth < batch[b].depth
		})

		for _, inst := range batch {
			if inst.dirty && !inst.disposed {
				inst.render()
			}
		}
	}
}

// validate logs prop-type violations once per distinct message.
func (r *Root) validate(typ *vdom.ComponentType, props vdom.Props) {
	for _, err := range vdom.ValidateProps(typ, props) {
		msg := err.Error()
		var se *vserr.StoreError
		if errors.As(err, &se) {
			msg = se.FormatCompact()
		}
		if r.warned[msg] {
			continue
		}
		r.warned[msg] = true
		r.logger.Warn("invalid props", "component", typ.ComponentName(), "error", msg)
	}
}
