package geometry

import "fmt"

// Relation orders a measured dimension against a threshold.
type Relation int

const (
	// AtLeast matches when the dimension is >= the threshold.
	AtLeast Relation = iota + 1
	// Exactly matches when the dimension equals the threshold.
	Exactly
	// AtMost matches when the dimension is <= the threshold.
	AtMost
)

// String returns the relation's symbolic name.
func (r Relation) String() string {
	switch r {
	case AtLeast:
		return ">="
	case Exactly:
		return "=="
	case AtMost:
		return "<="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// SizeConstraint is a threshold test for a single dimension:
// dimension REL value*multiplier + constant.
//
// Zero values are normalized on use: a zero Multiplier means 1.
type SizeConstraint struct {
	Relation   Relation `json:"relation"`
	Value      float64  `json:"value"`
	Multiplier float64  `json:"multiplier,omitempty"`
	Constant   float64  `json:"constant,omitempty"`
}

// SizeAtLeast builds a >= v constraint.
func SizeAtLeast(v float64) SizeConstraint {
	return SizeConstraint{Relation: AtLeast, Value: v}
}

// SizeExactly builds an == v constraint.
func SizeExactly(v float64) SizeConstraint {
	return SizeConstraint{Relation: Exactly, Value: v}
}

// SizeAtMost builds a <= v constraint.
func SizeAtMost(v float64) SizeConstraint {
	return SizeConstraint{Relation: AtMost, Value: v}
}

// WithMultiplier returns a copy with the multiplier set.
func (c SizeConstraint) WithMultiplier(m float64) SizeConstraint {
	c.Multiplier = m
	return c
}

// WithConstant returns a copy with the constant set.
func (c SizeConstraint) WithConstant(k float64) SizeConstraint {
	c.Constant = k
	return c
}

// Threshold returns value*multiplier + constant in points.
func (c SizeConstraint) Threshold() float64 {
	m := c.Multiplier
	if m == 0 {
		m = 1
	}
	return c.Value*m + c.Constant
}

// Matches reports whether a dimension satisfies the constraint at the given
// display scale. Both sides are rounded to whole device pixels before the
// comparison so sub-pixel noise cannot flip the result back and forth.
func (c SizeConstraint) Matches(dimension, scale float64) bool {
	lhs := PixelRound(dimension, scale)
	rhs := PixelRound(c.Threshold(), scale)
	switch c.Relation {
	case AtLeast:
		return lhs >= rhs
	case Exactly:
		return lhs == rhs
	case AtMost:
		return lhs <= rhs
	default:
		return false
	}
}

// String renders the constraint for logs and traces.
func (c SizeConstraint) String() string {
	return fmt.Sprintf("%s %.6g", c.Relation, c.Threshold())
}
