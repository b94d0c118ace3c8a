package condition

import "github.com/AndreasVerhoeven/condlayout/view"

// Observers maps views to the signal kinds that can invalidate a condition's
// truth value. The engine subscribes to exactly these pairs, nothing more.
type Observers map[view.ID]view.ChangeKind

// Merge unions other into o.
func (o Observers) Merge(other Observers) {
	for id, kinds := range other {
		o[id] |= kinds
	}
}

// PairCount returns the number of (view, single-kind) pairs in the set.
// The engine's direct-update fast path requires exactly one pair: with one
// possible signal source there is provably nothing to coalesce.
func (o Observers) PairCount() int {
	n := 0
	for _, kinds := range o {
		n += kinds.Count()
	}
	return n
}

// RequiredObservers computes the minimal observer set for the condition when
// attached to defaultView. Each leaf declares the kind it reads:
//
//	width/height    -> bounds
//	traits leaves   -> traits
//	hidden          -> visibility
//	named config    -> configuration
//	callbacks       -> all kinds (inputs unknown, conservatively)
//
// Combinators union their children. Bound subtrees redirect the observation
// target to the bound view: a condition about view B, attached to view A's
// constraints, must watch B, not A. Dead or missing subjects contribute
// nothing - there is no signal that could change their (false) value.
func (c Condition) RequiredObservers(defaultView *view.View) Observers {
	out := make(Observers)
	var subject view.ID
	if defaultView != nil {
		subject = defaultView.ID()
	}
	c.collectObservers(subject, out)
	return out
}

func (c Condition) collectObservers(subject view.ID, out Observers) {
	switch c.kind {
	case kindWidth, kindHeight:
		addObserver(out, subject, view.KindBounds)
	case kindTraitsContainedIn, kindTraitPredicate:
		addObserver(out, subject, view.KindTraits)
	case kindNamedConfiguration:
		addObserver(out, subject, view.KindConfiguration)
	case kindHidden:
		addObserver(out, subject, view.KindVisibility)
	case kindViewPredicate, kindPredicate:
		addObserver(out, subject, view.KindAll)
	case kindAnd, kindOr, kindNot:
		for _, ch := range c.children {
			ch.collectObservers(subject, out)
		}
	case kindBound:
		bound := c.bound.Get()
		if bound == nil {
			return
		}
		for _, ch := range c.children {
			ch.collectObservers(bound.ID(), out)
		}
	}
}

func addObserver(out Observers, subject view.ID, kinds view.ChangeKind) {
	if subject == 0 {
		return
	}
	out[subject] |= kinds
}
