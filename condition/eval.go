package condition

import "github.com/AndreasVerhoeven/condlayout/view"

// Matches evaluates the condition against the subject view.
//
// Pure and total: no side effects, no panics. Leaves that need view state
// evaluate to false when the subject is nil; a bound condition whose view has
// been removed evaluates to false. And short-circuits on the first false
// child, Or on the first true child.
func (c Condition) Matches(subject *view.View) bool {
	switch c.kind {
	case kindAlwaysTrue:
		return true
	case kindAlwaysFalse:
		return false

	case kindWidth:
		if subject == nil {
			return false
		}
		return c.size.Matches(subject.Bounds().Width, subject.Scale())

	case kindHeight:
		if subject == nil {
			return false
		}
		return c.size.Matches(subject.Bounds().Height, subject.Scale())

	case kindNamedConfiguration:
		if subject == nil {
			return false
		}
		return subject.ActiveConfigurationName() == c.name

	case kindTraitsContainedIn:
		if subject == nil {
			return false
		}
		return subject.Traits().ContainsAll(c.traits)

	case kindTraitPredicate, kindViewPredicate:
		if subject == nil || c.viewPred == nil {
			return false
		}
		return c.viewPred(subject)

	case kindPredicate:
		if c.pred == nil {
			return false
		}
		return c.pred()

	case kindHidden:
		if subject == nil {
			return false
		}
		return subject.Hidden()

	case kindAnd:
		for _, ch := range c.children {
			if !ch.Matches(subject) {
				return false
			}
		}
		return true

	case kindOr:
		for _, ch := range c.children {
			if ch.Matches(subject) {
				return true
			}
		}
		return false

	case kindNot:
		for _, ch := range c.children {
			if !ch.Matches(subject) {
				return true
			}
		}
		return false

	case kindBound:
		// The bound view replaces whatever subject was passed in. A dead
		// bound view makes the whole subtree false - the weak-reference
		// safety net.
		bound := c.bound.Get()
		if bound == nil {
			return false
		}
		for _, ch := range c.children {
			if !ch.Matches(bound) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
