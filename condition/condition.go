// Package condition implements composable boolean predicates over a view's
// observable state, plus the resolver that computes which change signals a
// condition needs to watch.
//
// Conditions are immutable values forming a tree (no cycles). Evaluation is
// pure and total: it never mutates anything, never panics, and a missing or
// dead view context evaluates to false. It is safe to call at arbitrary
// frequency - the engine re-evaluates every registered condition on each
// update pass.
package condition

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

type kind int

const (
	kindAlwaysTrue kind = iota + 1
	kindAlwaysFalse
	kindWidth
	kindHeight
	kindNamedConfiguration
	kindTraitsContainedIn
	kindTraitPredicate
	kindViewPredicate
	kindPredicate
	kindHidden
	kindAnd
	kindOr
	kindNot
	kindBound
)

// Condition is one node of a predicate tree. The zero Condition is invalid;
// use the package constructors.
type Condition struct {
	kind kind

	size     geometry.SizeConstraint
	name     string
	traits   view.Traits
	viewPred func(*view.View) bool
	pred     func() bool
	children []Condition
	bound    view.Ref
}

// AlwaysTrue matches unconditionally.
func AlwaysTrue() Condition {
	return Condition{kind: kindAlwaysTrue}
}

// AlwaysFalse never matches.
func AlwaysFalse() Condition {
	return Condition{kind: kindAlwaysFalse}
}

// Width matches when the subject's bounds width satisfies the constraint.
func Width(c geometry.SizeConstraint) Condition {
	return Condition{kind: kindWidth, size: c}
}

// Height matches when the subject's bounds height satisfies the constraint.
func Height(c geometry.SizeConstraint) Condition {
	return Condition{kind: kindHeight, size: c}
}

// NamedConfiguration matches when the subject's active configuration name
// equals name. Names are NFC-normalized, mirroring the view setter.
func NamedConfiguration(name string) Condition {
	name = norm.NFC.String(name)
	if name == "" {
		name = view.DefaultConfigurationName
	}
	return Condition{kind: kindNamedConfiguration, name: name}
}

// TraitsContainedIn matches when every trait of t is present on the subject.
func TraitsContainedIn(t view.Traits) Condition {
	return Condition{kind: kindTraitsContainedIn, traits: t}
}

// TraitPredicate matches when fn returns true for the subject. The predicate
// declares that it reads only the subject's traits, so only trait changes are
// observed for it.
func TraitPredicate(fn func(*view.View) bool) Condition {
	return Condition{kind: kindTraitPredicate, viewPred: fn}
}

// ViewPredicate matches when fn returns true for the subject. The predicate's
// inputs are unknown, so every observable kind is watched for it.
func ViewPredicate(fn func(*view.View) bool) Condition {
	return Condition{kind: kindViewPredicate, viewPred: fn}
}

// Predicate matches when fn returns true. Like ViewPredicate, it watches
// every observable kind of the subject.
func Predicate(fn func() bool) Condition {
	return Condition{kind: kindPredicate, pred: fn}
}

// Hidden matches when the subject is hidden.
func Hidden() Condition {
	return Condition{kind: kindHidden}
}

// And matches when every child matches. And() with no children matches.
func And(children ...Condition) Condition {
	if len(children) == 1 {
		return children[0]
	}
	return Condition{kind: kindAnd, children: append([]Condition(nil), children...)}
}

// Or matches when any child matches. Or() with no children never matches.
func Or(children ...Condition) Condition {
	if len(children) == 1 {
		return children[0]
	}
	return Condition{kind: kindOr, children: append([]Condition(nil), children...)}
}

// Not matches when the conjunction of children does not match.
func Not(children ...Condition) Condition {
	return Condition{kind: kindNot, children: append([]Condition(nil), children...)}
}

// Negated returns the logical negation of c.
func (c Condition) Negated() Condition {
	return Not(c)
}

// Bound fixes the evaluation subject to the referenced view, regardless of
// which view the condition is later attached to. Binding an already-bound
// condition is a no-op: the original subject wins.
func (c Condition) Bound(ref view.Ref) Condition {
	if c.kind == kindBound {
		return c
	}
	return Condition{kind: kindBound, bound: ref, children: []Condition{c}}
}

// BoundTo is Bound with a live view.
func (c Condition) BoundTo(v *view.View) Condition {
	if v == nil {
		return c.Bound(view.Ref{})
	}
	return c.Bound(v.Ref())
}

// IsBound reports whether the condition's subject is fixed.
func (c Condition) IsBound() bool {
	return c.kind == kindBound
}

// String renders the tree for logs and traces.
func (c Condition) String() string {
	switch c.kind {
	case kindAlwaysTrue:
		return "true"
	case kindAlwaysFalse:
		return "false"
	case kindWidth:
		return "width " + c.size.String()
	case kindHeight:
		return "height " + c.size.String()
	case kindNamedConfiguration:
		return fmt.Sprintf("config(%q)", c.name)
	case kindTraitsContainedIn:
		return "traits" + c.traits.String()
	case kindTraitPredicate:
		return "traitPredicate"
	case kindViewPredicate:
		return "viewPredicate"
	case kindPredicate:
		return "predicate"
	case kindHidden:
		return "hidden"
	case kindAnd:
		return "(" + joinChildren(c.children, " && ") + ")"
	case kindOr:
		return "(" + joinChildren(c.children, " || ") + ")"
	case kindNot:
		return "!(" + joinChildren(c.children, " && ") + ")"
	case kindBound:
		subject := "dead"
		if v := c.bound.Get(); v != nil {
			subject = v.Name()
		}
		return fmt.Sprintf("bound[%s](%s)", subject, joinChildren(c.children, " && "))
	default:
		return "invalid"
	}
}

func joinChildren(children []Condition, sep string) string {
	parts := make([]string, len(children))
	for i, ch := range children {
		parts[i] = ch.String()
	}
	return strings.Join(parts, sep)
}
