package constraint

import (
	"github.com/AndreasVerhoeven/condlayout/view"
)

// List holds already-created, not-necessarily-active constraints for one
// view. The engine activates and deactivates lists as atomic units; a list is
// never partially active.
type List struct {
	owner       view.Ref
	constraints []*Constraint
	active      bool
}

// NewList creates an empty list owned by v.
func NewList(v *view.View) *List {
	var owner view.Ref
	if v != nil {
		owner = v.Ref()
	}
	return &List{owner: owner}
}

// Owner returns a handle to the owning view.
func (l *List) Owner() view.Ref {
	return l.owner
}

// Append adds a constraint to the list. Nil constraints (unresolvable
// anchors) are skipped silently. Appending to an active list activates the
// new constraint immediately so the list stays atomic.
func (l *List) Append(c *Constraint) {
	if c == nil {
		return
	}
	l.constraints = append(l.constraints, c)
	if l.active {
		c.active = true
	}
}

// AppendAll adds every non-nil constraint of cs.
func (l *List) AppendAll(cs ...*Constraint) {
	for _, c := range cs {
		l.Append(c)
	}
}

// Constraints returns the member constraints. The slice must not be mutated.
func (l *List) Constraints() []*Constraint {
	return l.constraints
}

// Len returns the number of member constraints.
func (l *List) Len() int {
	return len(l.constraints)
}

// Active reports whether the list is currently activated.
func (l *List) Active() bool {
	return l.active
}

// Activate flips every member active. Idempotent.
func (l *List) Activate() {
	if l.active {
		return
	}
	l.active = true
	for _, c := range l.constraints {
		c.active = true
	}
}

// Deactivate flips every member inactive. Idempotent.
func (l *List) Deactivate() {
	if !l.active {
		return
	}
	l.active = false
	for _, c := range l.constraints {
		c.active = false
	}
}
