package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

func newTestView(t *testing.T, width, height float64) *view.View {
	t.Helper()
	reg := view.NewRegistry()
	v := reg.NewView("subject")
	v.SetBounds(geometry.Rect{Width: width, Height: height})
	return v
}

func TestCondition_Constants(t *testing.T) {
	v := newTestView(t, 100, 100)

	assert.True(t, AlwaysTrue().Matches(v))
	assert.True(t, AlwaysTrue().Matches(nil), "constants ignore the subject")
	assert.False(t, AlwaysFalse().Matches(v))
	assert.False(t, AlwaysFalse().Matches(nil))
}

func TestCondition_SizeLeaves(t *testing.T) {
	v := newTestView(t, 320, 480)

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"width at least, met", Width(geometry.SizeAtLeast(320)), true},
		{"width at least, not met", Width(geometry.SizeAtLeast(321)), false},
		{"width at most, met", Width(geometry.SizeAtMost(400)), true},
		{"height exactly, met", Height(geometry.SizeExactly(480)), true},
		{"height exactly, not met", Height(geometry.SizeExactly(479)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(v))
		})
	}
}

func TestCondition_ViewLeaves_NilSubjectIsFalse(t *testing.T) {
	conds := []Condition{
		Width(geometry.SizeAtLeast(0)),
		Height(geometry.SizeAtLeast(0)),
		NamedConfiguration("main"),
		TraitsContainedIn(view.NewTraits("compact")),
		TraitPredicate(func(*view.View) bool { return true }),
		ViewPredicate(func(*view.View) bool { return true }),
		Hidden(),
	}
	for _, c := range conds {
		assert.False(t, c.Matches(nil), "%s must be false without a subject", c.String())
	}
}

func TestCondition_NamedConfiguration(t *testing.T) {
	v := newTestView(t, 100, 100)

	assert.True(t, NamedConfiguration("main").Matches(v), "views start in the default configuration")
	assert.True(t, NamedConfiguration("").Matches(v), "empty name means the default configuration")

	v.SetActiveConfigurationName("editing")
	assert.True(t, NamedConfiguration("editing").Matches(v))
	assert.False(t, NamedConfiguration("main").Matches(v))
}

func TestCondition_NamedConfiguration_Normalization(t *testing.T) {
	v := newTestView(t, 100, 100)
	v.SetActiveConfigurationName("caf\u00e9")

	// Decomposed spelling of the same name matches after normalization.
	assert.True(t, NamedConfiguration("cafe\u0301").Matches(v))
}

func TestCondition_Traits(t *testing.T) {
	v := newTestView(t, 100, 100)
	v.SetTraits(view.NewTraits("compact", "dark"))

	assert.True(t, TraitsContainedIn(view.NewTraits("compact")).Matches(v))
	assert.True(t, TraitsContainedIn(view.NewTraits("compact", "dark")).Matches(v))
	assert.False(t, TraitsContainedIn(view.NewTraits("compact", "light")).Matches(v))
	assert.True(t, TraitsContainedIn(view.NewTraits()).Matches(v), "empty requirement always holds")
}

func TestCondition_Hidden(t *testing.T) {
	v := newTestView(t, 100, 100)

	assert.False(t, Hidden().Matches(v))
	v.SetHidden(true)
	assert.True(t, Hidden().Matches(v))
	assert.False(t, Hidden().Negated().Matches(v))
}

func TestCondition_Combinators(t *testing.T) {
	v := newTestView(t, 100, 100)

	tr := AlwaysTrue()
	fa := AlwaysFalse()

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"and empty", And(), true},
		{"and all true", And(tr, tr), true},
		{"and one false", And(tr, fa), false},
		{"or empty", Or(), false},
		{"or one true", Or(fa, tr), true},
		{"or all false", Or(fa, fa), false},
		{"not true", Not(tr), false},
		{"not false", Not(fa), true},
		{"not over conjunction", Not(tr, fa), true},
		{"nested", And(tr, Or(fa, Not(fa))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(v))
		})
	}
}

func TestCondition_SingleChildCollapse(t *testing.T) {
	w := Width(geometry.SizeAtLeast(10))

	// A one-element combinator is the element itself, not a wrapper node.
	assert.Equal(t, w.String(), And(w).String())
	assert.Equal(t, w.String(), Or(w).String())
}

func TestCondition_Predicates(t *testing.T) {
	v := newTestView(t, 100, 100)

	calls := 0
	p := Predicate(func() bool { calls++; return true })
	assert.True(t, p.Matches(v))
	assert.True(t, p.Matches(nil), "plain predicates do not need a subject")
	assert.Equal(t, 2, calls)

	vp := ViewPredicate(func(sub *view.View) bool { return sub.Name() == "subject" })
	assert.True(t, vp.Matches(v))

	// Nil callbacks evaluate to false instead of panicking.
	assert.False(t, Predicate(nil).Matches(v))
	assert.False(t, ViewPredicate(nil).Matches(v))
	assert.False(t, TraitPredicate(nil).Matches(v))
}

func TestCondition_Bound(t *testing.T) {
	reg := view.NewRegistry()
	a := reg.NewView("a")
	b := reg.NewView("b")
	b.SetBounds(geometry.Rect{Width: 500, Height: 100})

	cond := Width(geometry.SizeAtLeast(400)).BoundTo(b)
	require.True(t, cond.IsBound())

	// The bound subject wins over whatever view is passed in.
	assert.True(t, cond.Matches(a))
	assert.True(t, cond.Matches(nil))

	// Binding is first-wins: re-binding does not change the subject.
	rebound := cond.BoundTo(a)
	assert.True(t, rebound.Matches(nil), "original bound subject must still apply")
}

func TestCondition_Bound_DeadViewIsFalse(t *testing.T) {
	reg := view.NewRegistry()
	b := reg.NewView("b")
	b.SetBounds(geometry.Rect{Width: 500, Height: 100})

	cond := Width(geometry.SizeAtLeast(400)).BoundTo(b)
	require.True(t, cond.Matches(nil))

	reg.Remove(b)
	assert.False(t, cond.Matches(nil), "a removed bound view makes the subtree false")
}

func TestCondition_Bound_NilView(t *testing.T) {
	cond := AlwaysTrue().BoundTo(nil)
	assert.False(t, cond.Matches(nil), "a zero binding never resolves")
}

func TestCondition_Immutability(t *testing.T) {
	a := Width(geometry.SizeAtLeast(10))
	b := Height(geometry.SizeAtMost(20))

	combined := And(a, b)
	negated := combined.Negated()

	v := newTestView(t, 100, 10)
	assert.True(t, combined.Matches(v))
	assert.False(t, negated.Matches(v))

	// Deriving new conditions leaves the originals untouched.
	assert.True(t, a.Matches(v))
	assert.True(t, combined.Matches(v))
}
