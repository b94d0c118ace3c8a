// Package layout provides the declarative add-subview helpers: filling,
// pinning, centering, and simple stacking. Each helper attaches the child
// through the builder's hierarchy guard, translates the requested geometry
// into a constraint list, and hands the list to the builder - which either
// activates it immediately or registers it under the active conditions.
//
// The helpers are pure translators: no state, no observation, no layout
// solving. Everything dynamic lives in the conditional package.
package layout

import (
	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// Edge selects sides for Pin.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeLeft
	EdgeBottom
	EdgeRight

	EdgesAll        = EdgeTop | EdgeLeft | EdgeBottom | EdgeRight
	EdgesHorizontal = EdgeLeft | EdgeRight
	EdgesVertical   = EdgeTop | EdgeBottom
)

// Fill attaches child under parent and pins all four edges, inset by the
// optional insets.
func Fill(b *conditional.Builder, parent, child *view.View, insets ...geometry.Insets) *constraint.List {
	var in geometry.Insets
	if len(insets) > 0 {
		in = insets[0]
	}
	return Pin(b, parent, child, EdgesAll, in)
}

// Pin attaches child under parent and pins the selected edges with the given
// insets. Unselected edges produce no constraint - partially specified
// layouts are the normal case, not an error.
func Pin(b *conditional.Builder, parent, child *view.View, edges Edge, in geometry.Insets) *constraint.List {
	b.Attach(parent, child)

	l := constraint.NewList(child)
	if edges&EdgeTop != 0 {
		l.Append(edge(child, parent, constraint.Top, in.Top))
	}
	if edges&EdgeLeft != 0 {
		l.Append(edge(child, parent, constraint.Leading, in.Left))
	}
	if edges&EdgeBottom != 0 {
		l.Append(edge(parent, child, constraint.Bottom, in.Bottom))
	}
	if edges&EdgeRight != 0 {
		l.Append(edge(parent, child, constraint.Trailing, in.Right))
	}
	b.Apply(l)
	return l
}

// Center attaches child under parent and centers it, offset by (dx, dy).
func Center(b *conditional.Builder, parent, child *view.View, dx, dy float64) *constraint.List {
	b.Attach(parent, child)

	l := constraint.NewList(child)
	l.Append(constraint.Make(
		constraint.AnchorOf(child, constraint.CenterX), geometry.Exactly,
		constraint.AnchorOf(parent, constraint.CenterX), 1, dx, constraint.PriorityRequired))
	l.Append(constraint.Make(
		constraint.AnchorOf(child, constraint.CenterY), geometry.Exactly,
		constraint.AnchorOf(parent, constraint.CenterY), 1, dy, constraint.PriorityRequired))
	b.Apply(l)
	return l
}

// FixedSize constrains child to a fixed size. The child is not attached; use
// this alongside Center or Pin.
func FixedSize(b *conditional.Builder, child *view.View, size geometry.Size) *constraint.List {
	l := constraint.NewList(child)
	l.Append(constraint.Make(
		constraint.AnchorOf(child, constraint.Width), geometry.Exactly,
		constraint.Anchor{}, 1, size.Width, constraint.PriorityRequired))
	l.Append(constraint.Make(
		constraint.AnchorOf(child, constraint.Height), geometry.Exactly,
		constraint.Anchor{}, 1, size.Height, constraint.PriorityRequired))
	b.Apply(l)
	return l
}

// HStack attaches the children under parent and chains them horizontally
// with the given gap, pinning the run's ends to the parent's leading and
// trailing edges and each child's top/bottom to the parent.
func HStack(b *conditional.Builder, parent *view.View, children []*view.View, gap float64) *constraint.List {
	return stack(b, parent, children, gap, true)
}

// VStack is HStack rotated: children chain top to bottom.
func VStack(b *conditional.Builder, parent *view.View, children []*view.View, gap float64) *constraint.List {
	return stack(b, parent, children, gap, false)
}

func stack(b *conditional.Builder, parent *view.View, children []*view.View, gap float64, horizontal bool) *constraint.List {
	if len(children) == 0 {
		return constraint.NewList(parent)
	}

	lead, trail := constraint.Top, constraint.Bottom
	crossLead, crossTrail := constraint.Leading, constraint.Trailing
	if horizontal {
		lead, trail = constraint.Leading, constraint.Trailing
		crossLead, crossTrail = constraint.Top, constraint.Bottom
	}

	l := constraint.NewList(parent)
	var prev *view.View
	for _, child := range children {
		b.Attach(parent, child)
		if prev == nil {
			l.Append(constraint.Make(
				constraint.AnchorOf(child, lead), geometry.Exactly,
				constraint.AnchorOf(parent, lead), 1, 0, constraint.PriorityRequired))
		} else {
			l.Append(constraint.Make(
				constraint.AnchorOf(child, lead), geometry.Exactly,
				constraint.AnchorOf(prev, trail), 1, gap, constraint.PriorityRequired))
		}
		l.Append(constraint.Make(
			constraint.AnchorOf(child, crossLead), geometry.Exactly,
			constraint.AnchorOf(parent, crossLead), 1, 0, constraint.PriorityRequired))
		l.Append(constraint.Make(
			constraint.AnchorOf(parent, crossTrail), geometry.Exactly,
			constraint.AnchorOf(child, crossTrail), 1, 0, constraint.PriorityRequired))
		prev = child
	}
	l.Append(constraint.Make(
		constraint.AnchorOf(parent, trail), geometry.Exactly,
		constraint.AnchorOf(prev, trail), 1, 0, constraint.PriorityRequired))
	b.Apply(l)
	return l
}

func edge(a, bv *view.View, attr constraint.Attribute, inset float64) *constraint.Constraint {
	return constraint.Make(
		constraint.AnchorOf(a, attr), geometry.Exactly,
		constraint.AnchorOf(bv, attr), 1, inset, constraint.PriorityRequired)
}
