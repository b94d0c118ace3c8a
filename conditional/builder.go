package conditional

import (
	"sort"

	"github.com/AndreasVerhoeven/condlayout/condition"
	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// Builder is the entry point for declaring conditional constraints. It
// carries the active-condition stack and the set of lists touched by the
// current call tree as an explicit context object, so nested and re-entrant
// builder trees are safe without any process-global state.
//
// Constraint sets flow through Apply: outside any If frame they activate
// immediately; inside, they are registered under the AND of the whole active
// stack. Only the outermost frame installs observers, once per touched list,
// so conditions composed across nesting levels never install partially.
type Builder struct {
	coord   *Coordinator
	stack   []condition.Condition
	touched map[*List]struct{}
	depth   int
}

// NewBuilder creates a builder over the coordinator.
func NewBuilder(coord *Coordinator) *Builder {
	return &Builder{
		coord:   coord,
		touched: make(map[*List]struct{}),
	}
}

// Coordinator returns the backing coordinator.
func (b *Builder) Coordinator() *Coordinator {
	return b.coord
}

// If registers every constraint set created inside then under cond (ANDed
// with any enclosing If conditions).
func (b *Builder) If(cond condition.Condition, then func()) {
	b.IfElse(cond, then, nil)
}

// IfElse runs then under cond and els under cond's negation. Exactly one of
// the two branches' constraint sets is active after any update pass.
func (b *Builder) IfElse(cond condition.Condition, then, els func()) {
	b.runBranch(cond, then)
	b.runBranch(cond.Negated(), els)
	if b.depth == 0 {
		b.installTouched()
	}
}

// AddNamedConfiguration registers the sets created inside fn under the named
// configuration of v: they are active exactly while
// v.ActiveConfigurationName() == name. Sugar for If with a bound
// NamedConfiguration condition.
func (b *Builder) AddNamedConfiguration(v *view.View, name string, fn func()) {
	b.If(condition.NamedConfiguration(name).BoundTo(v), fn)
}

// Attach adds child under parent through the engine's hierarchy guard.
//
// Branch callbacks may run for both sides of an If, so the same child can be
// "added" several times: re-adding under the same parent is a no-op, while
// attaching under a different parent panics (conditional reparenting is a
// programmer error, and it fails loudly - see view.AddSubview).
func (b *Builder) Attach(parent, child *view.View) {
	parent.AddSubview(child)
}

// Apply is the sink every layout helper hands its constraint list to.
//
// Outside any If frame the list activates immediately (unconditional
// constraints pass straight through the builder). Inside a frame the list is
// registered on its owner's condition list under the AND of the active
// stack; activation is deferred to the outermost frame's install.
func (b *Builder) Apply(l *constraint.List) {
	if l == nil {
		return
	}
	owner := l.Owner().Get()
	if owner == nil {
		return
	}
	if b.depth == 0 {
		l.Activate()
		return
	}

	cond := condition.And(b.stack...)
	cl := b.coord.ListFor(owner)
	cl.Add(l, cond)
	b.touched[cl] = struct{}{}
}

func (b *Builder) runBranch(cond condition.Condition, fn func()) {
	if fn == nil {
		return
	}
	b.stack = append(b.stack, cond)
	b.depth++
	defer func() {
		b.depth--
		b.stack = b.stack[:len(b.stack)-1]
	}()
	fn()
}

// installTouched installs every list the finished call tree registered into,
// in a deterministic order, then resets the touched set for the next tree.
func (b *Builder) installTouched() {
	if len(b.touched) == 0 {
		return
	}
	lists := make([]*List, 0, len(b.touched))
	for l := range b.touched {
		lists = append(lists, l)
	}
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].owner.ID() < lists[j].owner.ID()
	})
	b.touched = make(map[*List]struct{})
	for _, l := range lists {
		l.Install()
	}
}
