package conditional

import (
	"time"

	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// DefaultAnimationDuration is used when the engine wraps a constraint swap in
// an animation block.
const DefaultAnimationDuration = 250 * time.Millisecond

// ApplyFunc applies one update pass's result: the full active/inactive
// partition of the view's constraint lists. Implementations must treat the
// call as atomic - deactivate everything in inactive, activate everything in
// active, no partial application.
type ApplyFunc func(active, inactive []*constraint.List, owner *view.View, animated bool)

// DefaultApply deactivates the losing lists first, then activates the
// winners, so the constraint system never sees both sides of a mutually
// exclusive pair active at once.
func DefaultApply(active, inactive []*constraint.List, owner *view.View, animated bool) {
	for _, l := range inactive {
		l.Deactivate()
	}
	for _, l := range active {
		l.Activate()
	}
}

// PassRecorder observes evaluation passes for tracing. Implementations live
// outside the engine (the SQLite trace store, the test harness); a nil
// recorder costs nothing.
type PassRecorder interface {
	// Pass is called after every Update() execution with the pass sequence
	// number, the owning view, the computed active-id set (insertion order),
	// whether the set differed from the previous pass, and whether the apply
	// ran animated.
	Pass(seq int64, owner *view.View, activeIDs []string, changed, animated bool)
}

// Coordinator owns the per-view condition lists for one view registry, plus
// the policies they share: the id generator, the pass clock, the apply hook,
// and the optional trace recorder.
type Coordinator struct {
	reg      *view.Registry
	gen      IDGenerator
	clock    *Clock
	apply    ApplyFunc
	recorder PassRecorder
	lists    map[view.ID]*List
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithIDGenerator overrides the item id generator (tests use
// SequentialGenerator for deterministic ids).
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Coordinator) {
		c.gen = gen
	}
}

// WithApplyFunc overrides the constraint application hook. Tests install
// counting stubs to observe (or assert the absence of) side effects.
func WithApplyFunc(fn ApplyFunc) Option {
	return func(c *Coordinator) {
		c.apply = fn
	}
}

// WithRecorder installs a trace recorder.
func WithRecorder(r PassRecorder) Option {
	return func(c *Coordinator) {
		c.recorder = r
	}
}

// NewCoordinator creates a coordinator for the registry. Defaults: UUIDv7
// ids, DefaultApply, no recorder.
func NewCoordinator(reg *view.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		reg:   reg,
		gen:   UUIDv7Generator{},
		clock: NewClock(),
		apply: DefaultApply,
		lists: make(map[view.ID]*List),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the coordinated view registry.
func (c *Coordinator) Registry() *view.Registry {
	return c.reg
}

// Clock returns the pass clock.
func (c *Coordinator) Clock() *Clock {
	return c.clock
}

// ListFor returns the view's condition list, creating it lazily on first use.
func (c *Coordinator) ListFor(v *view.View) *List {
	if l, ok := c.lists[v.ID()]; ok {
		return l
	}
	l := newList(c, v)
	c.lists[v.ID()] = l
	return l
}

// PeekList returns the view's condition list or nil when none exists yet.
func (c *Coordinator) PeekList(v *view.View) *List {
	return c.lists[v.ID()]
}
