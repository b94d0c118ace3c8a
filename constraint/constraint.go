// Package constraint is the thin binding to the physical constraint system:
// anchors, constraints with priority, and atomically activatable lists. The
// engine treats a List as an opaque payload; it never inspects geometry.
package constraint

import (
	"fmt"

	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// Attribute names one layout attribute of a view.
type Attribute int

const (
	Left Attribute = iota + 1
	Right
	Top
	Bottom
	Leading
	Trailing
	CenterX
	CenterY
	Width
	Height
)

// String returns the attribute's lowercase name.
func (a Attribute) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Leading:
		return "leading"
	case Trailing:
		return "trailing"
	case CenterX:
		return "centerX"
	case CenterY:
		return "centerY"
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// Priority orders competing constraints. Required wins over everything.
type Priority float64

const (
	// PriorityRequired marks a constraint the solver must satisfy.
	PriorityRequired Priority = 1000
	// PriorityHigh is the default optional-but-strong priority.
	PriorityHigh Priority = 750
	// PriorityLow marks a weak preference.
	PriorityLow Priority = 250
)

// Anchor is one (view, attribute) pair. A zero anchor resolves to nothing.
type Anchor struct {
	View view.Ref
	Attr Attribute
}

// AnchorOf builds an anchor on a live view.
func AnchorOf(v *view.View, attr Attribute) Anchor {
	if v == nil {
		return Anchor{}
	}
	return Anchor{View: v.Ref(), Attr: attr}
}

// Resolved reports whether the anchor points at a live view.
func (a Anchor) Resolved() bool {
	return a.View.Get() != nil
}

// Constraint relates two anchors: first REL second*multiplier + constant.
// Constraints are created inactive; activation is always batched through a
// List.
type Constraint struct {
	First      Anchor
	Relation   geometry.Relation
	Second     Anchor
	Multiplier float64
	Constant   float64
	Priority   Priority

	active bool
}

// Make creates an inactive constraint between two anchors.
//
// An unresolvable first anchor yields nil rather than an error: callers pass
// partially-specified layouts by design, and a missing edge simply produces
// no constraint. The second anchor may be zero for pure size constraints.
func Make(first Anchor, rel geometry.Relation, second Anchor, multiplier, constant float64, prio Priority) *Constraint {
	if !first.Resolved() {
		return nil
	}
	if multiplier == 0 {
		multiplier = 1
	}
	if prio == 0 {
		prio = PriorityRequired
	}
	return &Constraint{
		First:      first,
		Relation:   rel,
		Second:     second,
		Multiplier: multiplier,
		Constant:   constant,
		Priority:   prio,
	}
}

// Active reports whether the constraint is currently activated.
func (c *Constraint) Active() bool {
	return c.active
}

// String renders the constraint for logs and traces.
func (c *Constraint) String() string {
	first := "?"
	if v := c.First.View.Get(); v != nil {
		first = v.Name()
	}
	if !c.Second.Resolved() {
		return fmt.Sprintf("%s.%s %s %.6g @%g", first, c.First.Attr, c.Relation, c.Constant, float64(c.Priority))
	}
	second := "?"
	if v := c.Second.View.Get(); v != nil {
		second = v.Name()
	}
	return fmt.Sprintf("%s.%s %s %s.%s*%.6g%+.6g @%g",
		first, c.First.Attr, c.Relation, second, c.Second.Attr, c.Multiplier, c.Constant, float64(c.Priority))
}
