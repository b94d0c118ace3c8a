package view

import "time"

// Animator is the host animation context. The engine does not animate
// anything itself; it only decides whether a constraint swap should be
// wrapped in an animation block, and records that decision.
type Animator struct {
	enabled bool
	depth   int
	runs    int
}

// NewAnimator creates an animation context with animations enabled.
func NewAnimator() *Animator {
	return &Animator{enabled: true}
}

// Enabled reports the global animation switch.
func (a *Animator) Enabled() bool {
	return a.enabled
}

// SetEnabled flips the global animation switch.
func (a *Animator) SetEnabled(on bool) {
	a.enabled = on
}

// InheritedActive reports whether the caller is currently inside an Animate
// block. Nested constraint updates use this to avoid double-wrapping.
func (a *Animator) InheritedActive() bool {
	return a.depth > 0
}

// Animate runs fn inside an animation context. The duration is carried for
// the host's benefit; this abstraction only tracks the dynamic extent.
func (a *Animator) Animate(d time.Duration, fn func()) {
	_ = d
	a.depth++
	a.runs++
	defer func() { a.depth-- }()
	fn()
}

// RunCount returns how many animation blocks have executed. Test hook.
func (a *Animator) RunCount() int {
	return a.runs
}
