package view

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/AndreasVerhoeven/condlayout/geometry"
)

// ID identifies a view within its registry. IDs are never reused.
type ID int64

// DefaultConfigurationName is the configuration every view starts in.
const DefaultConfigurationName = "main"

// Registry owns a tree of views, their change-signal hub, the run loop, and
// the animation context. One registry corresponds to one UI scene.
//
// All methods must be called from the loop goroutine (see package doc).
type Registry struct {
	nextID ID
	views  map[ID]*View
	hub    *hub
	loop   *RunLoop
	anim   *Animator
}

// NewRegistry creates an empty registry with a fresh run loop and an
// animation context with animations enabled.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[ID]*View),
		hub:   &hub{},
		loop:  NewRunLoop(),
		anim:  NewAnimator(),
	}
}

// Loop returns the registry's run loop.
func (r *Registry) Loop() *RunLoop {
	return r.loop
}

// Animator returns the registry's animation context.
func (r *Registry) Animator() *Animator {
	return r.anim
}

// NewView creates a view with the given debug name. The view starts with
// zero bounds, scale 1, visible, no traits, configuration "main", detached.
func (r *Registry) NewView(name string) *View {
	r.nextID++
	v := &View{
		reg:        r,
		id:         r.nextID,
		name:       name,
		scale:      1,
		configName: DefaultConfigurationName,
	}
	r.views[v.id] = v
	return v
}

// Remove detaches a view from its superview and drops it and its whole
// subtree from the registry. Refs to removed views resolve to nil afterwards.
func (r *Registry) Remove(v *View) {
	if v == nil || v.removed {
		return
	}
	if v.superview != nil {
		v.superview.removeSubview(v)
	}
	r.dropSubtree(v)
}

func (r *Registry) dropSubtree(v *View) {
	for _, sub := range v.subviews {
		r.dropSubtree(sub)
	}
	v.removed = true
	delete(r.views, v.id)
	slog.Debug("view removed", "view", v.name, "id", v.id)
}

// Subscribe registers a change observer for one view and a kind set.
// The observer runs synchronously on the posting goroutine.
func (r *Registry) Subscribe(id ID, kinds ChangeKind, fn func(Signal)) Token {
	return r.hub.subscribe(id, kinds, fn)
}

// Unsubscribe cancels a subscription. Unknown tokens are ignored.
func (r *Registry) Unsubscribe(tok Token) {
	r.hub.unsubscribe(tok)
}

// SubscriptionCount returns the number of live subscriptions targeting the
// view. Exposed for tests that verify install idempotence.
func (r *Registry) SubscriptionCount(id ID) int {
	return r.hub.countFor(id)
}

// Ref is a handle to a view that does not keep it alive. Get returns nil
// once the view has been removed from its registry.
type Ref struct {
	reg *Registry
	id  ID
}

// Get resolves the handle, or returns nil for a zero or dead ref.
func (ref Ref) Get() *View {
	if ref.reg == nil {
		return nil
	}
	return ref.reg.views[ref.id]
}

// ID returns the referenced view's id (0 for the zero ref).
func (ref Ref) ID() ID {
	return ref.id
}

// View is one node in the view tree. Its observable state (bounds, traits,
// hidden, configuration name) posts change signals on mutation.
type View struct {
	reg     *Registry
	id      ID
	name    string
	removed bool

	bounds     geometry.Rect
	scale      float64
	hidden     bool
	traits     Traits
	configName string

	superview *View
	subviews  []*View
	inWindow  bool

	needsLayout  bool
	layoutPasses int
}

// ID returns the view's registry id.
func (v *View) ID() ID {
	return v.id
}

// Name returns the debug name.
func (v *View) Name() string {
	return v.name
}

// Ref returns a non-owning handle to the view.
func (v *View) Ref() Ref {
	return Ref{reg: v.reg, id: v.id}
}

// Registry returns the owning registry.
func (v *View) Registry() *Registry {
	return v.reg
}

// Bounds returns the current bounds in points.
func (v *View) Bounds() geometry.Rect {
	return v.bounds
}

// SetBounds updates the bounds and posts a bounds signal when they changed.
func (v *View) SetBounds(b geometry.Rect) {
	if v.bounds == b {
		return
	}
	v.bounds = b
	v.post(KindBounds)
}

// Scale returns the display scale (pixels per point).
func (v *View) Scale() float64 {
	return v.scale
}

// SetScale sets the display scale. Scale changes do not post a signal; the
// host reports them as bounds changes when they matter.
func (v *View) SetScale(s float64) {
	if s > 0 {
		v.scale = s
	}
}

// Hidden returns the hidden flag.
func (v *View) Hidden() bool {
	return v.hidden
}

// SetHidden updates the hidden flag and posts a visibility signal on change.
func (v *View) SetHidden(h bool) {
	if v.hidden == h {
		return
	}
	v.hidden = h
	v.post(KindVisibility)
}

// Traits returns the current trait set.
func (v *View) Traits() Traits {
	return v.traits
}

// SetTraits replaces the trait set and posts a traits signal on change.
func (v *View) SetTraits(t Traits) {
	if v.traits.Equal(t) {
		return
	}
	v.traits = t
	v.post(KindTraits)
}

// ActiveConfigurationName returns the current named configuration.
func (v *View) ActiveConfigurationName() string {
	return v.configName
}

// SetActiveConfigurationName switches the named configuration and posts a
// configuration signal on change. Names are NFC-normalized so visually
// identical spellings select the same configuration.
func (v *View) SetActiveConfigurationName(name string) {
	name = norm.NFC.String(name)
	if name == "" {
		name = DefaultConfigurationName
	}
	if v.configName == name {
		return
	}
	v.configName = name
	v.post(KindConfiguration)
}

// Superview returns the parent, or nil for detached and root views.
func (v *View) Superview() *View {
	return v.superview
}

// Subviews returns the children in insertion order. The returned slice must
// not be mutated.
func (v *View) Subviews() []*View {
	return v.subviews
}

// AddSubview attaches child under v.
//
// Attaching a view that already sits under a DIFFERENT parent is a fatal
// programmer error and panics: the engine conditionally activates
// constraints, it never conditionally reparents views. Re-adding under the
// same parent is a no-op.
func (v *View) AddSubview(child *View) {
	if child == nil || child == v {
		panic("view: invalid AddSubview argument")
	}
	if child.superview == v {
		return
	}
	if child.superview != nil {
		panic(fmt.Sprintf(
			"view: %q is already a subview of %q, cannot attach under %q (conditional reparenting is not supported)",
			child.name, child.superview.name, v.name))
	}
	child.superview = v
	v.subviews = append(v.subviews, child)
	child.setInWindow(v.inWindow)
}

func (v *View) removeSubview(child *View) {
	for i, sub := range v.subviews {
		if sub == child {
			v.subviews = append(v.subviews[:i], v.subviews[i+1:]...)
			break
		}
	}
	child.superview = nil
	child.setInWindow(false)
}

// InWindow reports whether the view is part of an on-screen hierarchy.
func (v *View) InWindow() bool {
	return v.inWindow
}

// SetInWindow marks the subtree rooted at v as on-screen (or off-screen).
// Hosts call this on root views when a window attaches them.
func (v *View) SetInWindow(in bool) {
	v.setInWindow(in)
}

func (v *View) setInWindow(in bool) {
	if v.inWindow == in {
		return
	}
	v.inWindow = in
	for _, sub := range v.subviews {
		sub.setInWindow(in)
	}
}

// SetNeedsLayout marks the view as needing a layout pass.
func (v *View) SetNeedsLayout() {
	v.needsLayout = true
}

// LayoutIfNeeded performs a pending layout pass. The host abstraction does
// not solve geometry; the pass is recorded so callers (and tests) can observe
// that one was forced.
func (v *View) LayoutIfNeeded() {
	if !v.needsLayout {
		return
	}
	v.needsLayout = false
	v.layoutPasses++
}

// LayoutPassCount returns the number of layout passes performed so far.
func (v *View) LayoutPassCount() int {
	return v.layoutPasses
}

func (v *View) post(kind ChangeKind) {
	if v.removed {
		return
	}
	v.reg.hub.post(Signal{View: v.id, Kind: kind})
}
