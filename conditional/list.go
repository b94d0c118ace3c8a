package conditional

import (
	"log/slog"
	"sort"

	"github.com/AndreasVerhoeven/condlayout/condition"
	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// Item binds one constraint set to one condition. Items are immutable after
// creation and live as long as their list: the engine reconciles them as
// active or inactive, it never evicts them.
type Item struct {
	ID          string
	Condition   condition.Condition
	Constraints *constraint.List
}

// List is the reactive collection for one view: the registered items, the
// last-computed active-id set, the live observer subscriptions, and the
// update dispatch policy.
//
// All methods run on the loop goroutine (see the view package doc). The list
// holds only a Ref to its owning view - it never keeps the view alive, and
// every entry point re-resolves the handle and no-ops when the view is gone.
type List struct {
	coord *Coordinator
	owner view.Ref

	items     []*Item
	activeIDs map[string]struct{}

	tokens            []view.Token
	installed         bool
	canUpdateDirectly bool

	needsUpdate   bool
	idleScheduled bool

	coalesce bool
	animate  bool

	updateRuns int
}

func newList(coord *Coordinator, v *view.View) *List {
	return &List{
		coord:     coord,
		owner:     v.Ref(),
		activeIDs: make(map[string]struct{}),
		coalesce:  true,
	}
}

// Owner returns a handle to the owning view.
func (l *List) Owner() view.Ref {
	return l.owner
}

// Items returns the registered items in insertion order.
// The slice must not be mutated.
func (l *List) Items() []*Item {
	return l.items
}

// ActiveIDs returns the last-computed active item ids in insertion order.
func (l *List) ActiveIDs() []string {
	out := make([]string, 0, len(l.activeIDs))
	for _, it := range l.items {
		if _, ok := l.activeIDs[it.ID]; ok {
			out = append(out, it.ID)
		}
	}
	return out
}

// IsActive reports whether the item with the given id matched on the last
// update pass.
func (l *List) IsActive(id string) bool {
	_, ok := l.activeIDs[id]
	return ok
}

// CanUpdateDirectly reports whether the last Install() resolved to a single
// observed (view, kind) pair, enabling the synchronous update fast path.
func (l *List) CanUpdateDirectly() bool {
	return l.canUpdateDirectly
}

// NeedsUpdate reports whether a coalesced update is pending.
func (l *List) NeedsUpdate() bool {
	return l.needsUpdate
}

// UpdateRuns returns the number of Update() executions. Test hook.
func (l *List) UpdateRuns() int {
	return l.updateRuns
}

// Add registers a constraint set under a condition and returns the new item.
//
// Add has no immediate side effect: observers are not (re)resolved and the
// set is not activated until Install() runs. Every call creates a fresh item
// with a fresh id - duplicates are allowed and tracked independently.
func (l *List) Add(payload *constraint.List, cond condition.Condition) *Item {
	item := &Item{
		ID:          l.coord.gen.Generate(),
		Condition:   cond,
		Constraints: payload,
	}
	l.items = append(l.items, item)
	slog.Debug("conditional item registered",
		"view", l.ownerName(),
		"item", item.ID,
		"condition", cond.String(),
	)
	return item
}

// Install (re)computes the observer set from scratch and establishes the
// initial active state.
//
// All previous subscriptions are torn down first, so repeated installs never
// leak or duplicate observers. Requirements are merged per view, meaning each
// required (view, kind) pair is subscribed exactly once even when several
// conditions need it. The direct-update fast path is enabled iff exactly one
// (view, single-kind) pair remains. Install always ends with an unconditional
// Update() to establish the correct initial state.
func (l *List) Install() {
	reg := l.coord.reg
	for _, tok := range l.tokens {
		reg.Unsubscribe(tok)
	}
	l.tokens = nil

	owner := l.owner.Get()
	if owner == nil {
		l.installed = false
		l.canUpdateDirectly = false
		return
	}

	needed := make(condition.Observers)
	for _, item := range l.items {
		needed.Merge(item.Condition.RequiredObservers(owner))
	}

	l.canUpdateDirectly = needed.PairCount() == 1

	// Deterministic subscription order keeps traces reproducible.
	ids := make([]view.ID, 0, len(needed))
	for id := range needed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		tok := reg.Subscribe(id, needed[id], func(view.Signal) {
			l.SetNeedsUpdate()
		})
		l.tokens = append(l.tokens, tok)
	}
	l.installed = true

	slog.Debug("conditional list installed",
		"view", l.ownerName(),
		"items", len(l.items),
		"observed_views", len(ids),
		"direct", l.canUpdateDirectly,
	)

	l.Update()
}

// Installed reports whether Install() has run.
func (l *List) Installed() bool {
	return l.installed
}

// SetNeedsUpdate is the dispatch policy gate for observed signals.
//
// With the direct fast path (single observed pair) or with coalescing
// disabled, the update runs synchronously. Otherwise the list marks itself
// dirty and registers one idle callback per dirty transition; N same-turn
// signals produce exactly one evaluation pass at end of turn.
func (l *List) SetNeedsUpdate() {
	if l.canUpdateDirectly || !l.coalesce {
		l.Update()
		return
	}

	l.needsUpdate = true
	if l.idleScheduled {
		return
	}
	l.idleScheduled = true
	l.coord.reg.Loop().PerformWhenIdle(func() {
		l.idleScheduled = false
		l.UpdateIfNeeded()
	})
}

// UpdateIfNeeded runs Update() only when a coalesced update is pending.
func (l *List) UpdateIfNeeded() {
	if !l.needsUpdate {
		return
	}
	l.Update()
}

// Update evaluates every item against the owning view and reconciles the
// active constraint sets.
//
// All conditions are evaluated in one pass against the current view state, so
// the resulting partition is consistent. When the computed active-id set
// equals the previous one the method returns without any side effect. When it
// differs, the full partition is handed to the apply hook as one batch,
// optionally wrapped in an animation block (animate policy set, view in a
// window, animations globally enabled, no inherited animation context). A
// non-animated apply that runs inside an inherited animation context still
// forces a layout pass on the superview so the geometry change participates
// in the ambient animation.
func (l *List) Update() {
	l.needsUpdate = false

	owner := l.owner.Get()
	if owner == nil {
		// The view disappeared while an update was pending; nothing to do.
		return
	}
	l.updateRuns++

	newActive := make(map[string]struct{}, len(l.items))
	var active, inactive []*constraint.List
	var activeIDs []string
	for _, item := range l.items {
		if item.Condition.Matches(owner) {
			newActive[item.ID] = struct{}{}
			activeIDs = append(activeIDs, item.ID)
			active = append(active, item.Constraints)
		} else {
			inactive = append(inactive, item.Constraints)
		}
	}

	changed := !idSetsEqual(newActive, l.activeIDs)
	seq := l.coord.clock.Next()

	if !changed {
		if l.coord.recorder != nil {
			l.coord.recorder.Pass(seq, owner, activeIDs, false, false)
		}
		return
	}
	l.activeIDs = newActive

	anim := l.coord.reg.Animator()
	animated := l.animate && owner.InWindow() && anim.Enabled() && !anim.InheritedActive()

	slog.Debug("conditional update",
		"view", l.ownerName(),
		"seq", seq,
		"active", len(active),
		"inactive", len(inactive),
		"animated", animated,
	)

	run := func() {
		l.coord.apply(active, inactive, owner, animated)
	}
	if animated {
		anim.Animate(DefaultAnimationDuration, run)
	} else {
		run()
		if anim.InheritedActive() {
			// Interop with an enclosing animation scope: flush layout on the
			// superview so the swap is captured by the ambient animation.
			if sv := owner.Superview(); sv != nil {
				sv.SetNeedsLayout()
				sv.LayoutIfNeeded()
			}
		}
	}

	if l.coord.recorder != nil {
		l.coord.recorder.Pass(seq, owner, activeIDs, true, animated)
	}
}

// StopCoalescingUpdates switches the list to synchronous updates for every
// observed signal. One-way: once a caller needs the guarantee there is no
// provision to silently weaken it again.
func (l *List) StopCoalescingUpdates() {
	l.coalesce = false
}

// AnimateUpdates makes future constraint swaps animated whenever legal.
// One-way, like StopCoalescingUpdates.
func (l *List) AnimateUpdates() {
	l.animate = true
}

func (l *List) ownerName() string {
	if v := l.owner.Get(); v != nil {
		return v.Name()
	}
	return "<dead>"
}

func idSetsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
