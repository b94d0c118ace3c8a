// Package testutil provides deterministic test doubles for the conditional
// layout engine.
package testutil

import (
	"github.com/AndreasVerhoeven/condlayout/constraint"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// ApplyCall captures one invocation of the apply hook.
type ApplyCall struct {
	Owner    string
	Active   []*constraint.List
	Inactive []*constraint.List
	Animated bool
}

// CountingApply is an apply hook that performs the default activation swap
// and records every call. Tests use it to assert both on side effects and on
// their absence (the no-op guarantee for unchanged active sets).
type CountingApply struct {
	Calls []ApplyCall
}

// Apply is the conditional.ApplyFunc; pass method value via
// conditional.WithApplyFunc(c.Apply).
func (c *CountingApply) Apply(active, inactive []*constraint.List, owner *view.View, animated bool) {
	for _, l := range inactive {
		l.Deactivate()
	}
	for _, l := range active {
		l.Activate()
	}
	c.Calls = append(c.Calls, ApplyCall{
		Owner:    owner.Name(),
		Active:   active,
		Inactive: inactive,
		Animated: animated,
	})
}

// Count returns the number of apply invocations so far.
func (c *CountingApply) Count() int {
	return len(c.Calls)
}

// Last returns the most recent call, or nil when none happened.
func (c *CountingApply) Last() *ApplyCall {
	if len(c.Calls) == 0 {
		return nil
	}
	return &c.Calls[len(c.Calls)-1]
}

// Reset clears the recorded calls.
func (c *CountingApply) Reset() {
	c.Calls = nil
}
