package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/condition"
	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

func newBuilder(t *testing.T) (*conditional.Builder, *view.Registry) {
	t.Helper()
	reg := view.NewRegistry()
	coord := conditional.NewCoordinator(reg,
		conditional.WithIDGenerator(conditional.NewSequentialGenerator("item")))
	return conditional.NewBuilder(coord), reg
}

func TestFill(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	child := reg.NewView("child")

	l := Fill(b, parent, child)

	assert.Same(t, parent, child.Superview())
	assert.Equal(t, 4, l.Len())
	assert.True(t, l.Active(), "outside a condition frame the list activates immediately")
}

func TestFill_Insets(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	child := reg.NewView("child")

	l := Fill(b, parent, child, geometry.Uniform(16))

	require.Equal(t, 4, l.Len())
	for _, c := range l.Constraints() {
		assert.Equal(t, 16.0, c.Constant)
	}
}

func TestPin_SelectedEdgesOnly(t *testing.T) {
	tests := []struct {
		name  string
		edges Edge
		want  int
	}{
		{"horizontal", EdgesHorizontal, 2},
		{"vertical", EdgesVertical, 2},
		{"single edge", EdgeTop, 1},
		{"three edges", EdgeTop | EdgeLeft | EdgeRight, 3},
		{"none", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, reg := newBuilder(t)
			parent := reg.NewView("parent")
			child := reg.NewView("child")

			l := Pin(b, parent, child, tt.edges, geometry.Insets{})
			assert.Equal(t, tt.want, l.Len())
		})
	}
}

func TestPin_EdgeDirections(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	child := reg.NewView("child")

	l := Pin(b, parent, child, EdgesAll, geometry.Insets{Top: 1, Left: 2, Bottom: 3, Right: 4})
	cs := l.Constraints()
	require.Len(t, cs, 4)

	// Leading edges run child-to-parent, trailing edges parent-to-child, so
	// positive insets always shrink the child.
	assert.Same(t, child, cs[0].First.View.Get())
	assert.Equal(t, constraint.Top, cs[0].First.Attr)
	assert.Same(t, parent, cs[2].First.View.Get())
	assert.Equal(t, constraint.Bottom, cs[2].First.Attr)
	assert.Equal(t, 3.0, cs[2].Constant)
}

func TestCenter(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	child := reg.NewView("child")

	l := Center(b, parent, child, 10, -5)

	assert.Same(t, parent, child.Superview())
	require.Equal(t, 2, l.Len())
	assert.Equal(t, constraint.CenterX, l.Constraints()[0].First.Attr)
	assert.Equal(t, 10.0, l.Constraints()[0].Constant)
	assert.Equal(t, constraint.CenterY, l.Constraints()[1].First.Attr)
	assert.Equal(t, -5.0, l.Constraints()[1].Constant)
}

func TestFixedSize_DoesNotAttach(t *testing.T) {
	b, reg := newBuilder(t)
	child := reg.NewView("child")

	l := FixedSize(b, child, geometry.Size{Width: 120, Height: 44})

	assert.Nil(t, child.Superview())
	require.Equal(t, 2, l.Len())
	assert.False(t, l.Constraints()[0].Second.Resolved(), "size constraints have no second anchor")
	assert.Equal(t, 120.0, l.Constraints()[0].Constant)
	assert.Equal(t, 44.0, l.Constraints()[1].Constant)
}

func TestHStack(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	kids := []*view.View{reg.NewView("a"), reg.NewView("b"), reg.NewView("c")}

	l := HStack(b, parent, kids, 8)

	for _, k := range kids {
		assert.Same(t, parent, k.Superview())
	}
	// Per child: lead chain + two cross-axis pins; plus the final trailing
	// pin to the parent.
	assert.Equal(t, 3*3+1, l.Len())

	// The chain between b and a carries the gap.
	chain := l.Constraints()[3]
	assert.Same(t, kids[1], chain.First.View.Get())
	assert.Equal(t, constraint.Leading, chain.First.Attr)
	assert.Same(t, kids[0], chain.Second.View.Get())
	assert.Equal(t, constraint.Trailing, chain.Second.Attr)
	assert.Equal(t, 8.0, chain.Constant)
}

func TestVStack(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")
	kids := []*view.View{reg.NewView("a"), reg.NewView("b")}

	l := VStack(b, parent, kids, 4)
	assert.Equal(t, 2*3+1, l.Len())

	first := l.Constraints()[0]
	assert.Equal(t, constraint.Top, first.First.Attr)
}

func TestStack_Empty(t *testing.T) {
	b, reg := newBuilder(t)
	parent := reg.NewView("parent")

	l := HStack(b, parent, nil, 8)
	assert.Zero(t, l.Len())
	assert.Empty(t, parent.Subviews())
}

func TestHelpers_InsideConditionFrame(t *testing.T) {
	b, reg := newBuilder(t)
	coord := b.Coordinator()
	parent := reg.NewView("parent")
	child := reg.NewView("child")
	child.SetBounds(geometry.Rect{Width: 400})

	// Unbound conditions evaluate against the list's owner, the child.
	var wide, narrow *constraint.List
	b.IfElse(condition.Width(geometry.SizeAtLeast(600)),
		func() { wide = Fill(b, parent, child) },
		func() { narrow = Center(b, parent, child, 0, 0) },
	)

	// Registration, not activation: the condition decides.
	assert.False(t, wide.Active())
	assert.True(t, narrow.Active())
	require.NotNil(t, coord.PeekList(child))
	assert.Len(t, coord.PeekList(child).Items(), 2)

	child.SetBounds(geometry.Rect{Width: 800})
	reg.Loop().Turn()
	assert.True(t, wide.Active())
	assert.False(t, narrow.Active())
}
