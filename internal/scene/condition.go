package scene

import (
	"fmt"

	"github.com/AndreasVerhoeven/condlayout/condition"
	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// compileCondition translates a ConditionSpec into a condition tree.
// resolve maps scene view names to live views; validation has already
// guaranteed every referenced name resolves.
func compileCondition(spec *ConditionSpec, resolve func(string) *view.View) (condition.Condition, error) {
	var c condition.Condition

	switch {
	case len(spec.All) > 0:
		children, err := compileChildren(spec.All, resolve)
		if err != nil {
			return c, err
		}
		c = condition.And(children...)

	case len(spec.Any) > 0:
		children, err := compileChildren(spec.Any, resolve)
		if err != nil {
			return c, err
		}
		c = condition.Or(children...)

	case spec.Not != nil:
		child, err := compileCondition(spec.Not, resolve)
		if err != nil {
			return c, err
		}
		c = condition.Not(child)

	default:
		leaves, err := compileLeaves(spec)
		if err != nil {
			return c, err
		}
		c = condition.And(leaves...)
	}

	if spec.View != "" {
		target := resolve(spec.View)
		if target == nil {
			return c, fmt.Errorf("condition references unknown view %q", spec.View)
		}
		c = c.BoundTo(target)
	}
	return c, nil
}

func compileChildren(specs []ConditionSpec, resolve func(string) *view.View) ([]condition.Condition, error) {
	out := make([]condition.Condition, 0, len(specs))
	for i := range specs {
		child, err := compileCondition(&specs[i], resolve)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// compileLeaves turns one node's leaf tests into conditions. Multiple leaves
// on the same node form a conjunction.
func compileLeaves(spec *ConditionSpec) ([]condition.Condition, error) {
	var out []condition.Condition

	if spec.MinWidth != nil {
		out = append(out, condition.Width(geometry.SizeAtLeast(*spec.MinWidth)))
	}
	if spec.MaxWidth != nil {
		out = append(out, condition.Width(geometry.SizeAtMost(*spec.MaxWidth)))
	}
	if spec.MinHeight != nil {
		out = append(out, condition.Height(geometry.SizeAtLeast(*spec.MinHeight)))
	}
	if spec.MaxHeight != nil {
		out = append(out, condition.Height(geometry.SizeAtMost(*spec.MaxHeight)))
	}
	if spec.Hidden != nil {
		h := condition.Hidden()
		if !*spec.Hidden {
			h = h.Negated()
		}
		out = append(out, h)
	}
	if spec.Config != "" {
		out = append(out, condition.NamedConfiguration(spec.Config))
	}
	if len(spec.Traits) > 0 {
		out = append(out, condition.TraitsContainedIn(view.NewTraits(spec.Traits...)))
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("empty condition node")
	}
	return out, nil
}
