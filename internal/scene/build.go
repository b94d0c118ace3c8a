package scene

import (
	"fmt"
	"log/slog"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/layout"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// Build is a scene instantiated into a live engine: the view tree, the
// coordinator with all rules installed, and the name index for script steps.
type Build struct {
	Scene       *Scene
	Registry    *view.Registry
	Coordinator *conditional.Coordinator
	Builder     *conditional.Builder
	Views       map[string]*view.View
}

// BuildScene instantiates a scene.
//
// Views are created depth-first in declaration order, rules are compiled and
// installed in order, and roots marked window: true are put on screen before
// any rule installs, so the initial update pass sees the final tree state.
// Item ids default to a sequential generator: scene runs must be
// reproducible for trace comparison and replay.
func BuildScene(sc *Scene, opts ...conditional.Option) (*Build, error) {
	reg := view.NewRegistry()

	withDefaults := append([]conditional.Option{
		conditional.WithIDGenerator(conditional.NewSequentialGenerator("item")),
	}, opts...)
	coord := conditional.NewCoordinator(reg, withDefaults...)

	b := &Build{
		Scene:       sc,
		Registry:    reg,
		Coordinator: coord,
		Builder:     conditional.NewBuilder(coord),
		Views:       make(map[string]*view.View),
	}

	scale := sc.Scale
	if scale == 0 {
		scale = 1
	}
	for i := range sc.Views {
		root := b.buildView(&sc.Views[i], scale)
		if sc.Views[i].Window {
			root.SetInWindow(true)
		}
	}

	for i := range sc.Rules {
		if err := b.installRule(&sc.Rules[i]); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}

	slog.Debug("scene built",
		"scene", sc.Name,
		"views", len(b.Views),
		"rules", len(sc.Rules),
	)
	return b, nil
}

func (b *Build) buildView(spec *ViewSpec, scale float64) *view.View {
	v := b.Registry.NewView(spec.Name)
	v.SetScale(scale)
	if spec.Bounds != nil {
		v.SetBounds(geometry.Rect{
			X: spec.Bounds.X, Y: spec.Bounds.Y,
			Width: spec.Bounds.Width, Height: spec.Bounds.Height,
		})
	}
	if spec.Hidden {
		v.SetHidden(true)
	}
	if len(spec.Traits) > 0 {
		v.SetTraits(view.NewTraits(spec.Traits...))
	}
	if spec.Config != "" {
		v.SetActiveConfigurationName(spec.Config)
	}
	b.Views[spec.Name] = v

	for i := range spec.Subviews {
		child := b.buildView(&spec.Subviews[i], scale)
		v.AddSubview(child)
	}
	return v
}

func (b *Build) installRule(r *Rule) error {
	subject := b.Views[r.View]

	// Dispatch policy flags are sticky and must be in place before the
	// rule's install runs its first update pass. Items land on the condition
	// list of each constraint list's owner, so pre-create those lists and
	// flag them.
	for _, target := range b.ruleTargets(r) {
		cl := b.Coordinator.ListFor(target)
		if r.Animate {
			cl.AnimateUpdates()
		}
		if r.Direct {
			cl.StopCoalescingUpdates()
		}
	}

	thenFn := b.branchFunc(subject, r.Then)
	elseFn := b.branchFunc(subject, r.Else)

	if r.Configuration != "" {
		if elseFn != nil {
			return fmt.Errorf("configuration rules cannot have an else branch")
		}
		b.Builder.AddNamedConfiguration(subject, r.Configuration, thenFn)
		return nil
	}

	cond, err := compileCondition(r.When, func(name string) *view.View {
		return b.Views[name]
	})
	if err != nil {
		return err
	}
	// Rule conditions observe the rule's subject, not whichever view owns
	// the produced constraints. Binding is first-wins, so a when.view
	// redirection keeps precedence.
	b.Builder.IfElse(cond.BoundTo(subject), thenFn, elseFn)
	return nil
}

// ruleTargets returns the distinct views whose constraint lists the rule's
// operations produce: the child for single-child ops, the subject for
// stacks.
func (b *Build) ruleTargets(r *Rule) []*view.View {
	seen := make(map[string]bool)
	var out []*view.View
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, b.Views[name])
		}
	}
	for _, ops := range [][]LayoutOp{r.Then, r.Else} {
		for i := range ops {
			switch ops[i].Op {
			case OpHStack, OpVStack:
				add(r.View)
			default:
				add(ops[i].Child)
			}
		}
	}
	return out
}

func (b *Build) branchFunc(subject *view.View, ops []LayoutOp) func() {
	if len(ops) == 0 {
		return nil
	}
	return func() {
		for i := range ops {
			b.applyOp(subject, &ops[i])
		}
	}
}

func (b *Build) applyOp(subject *view.View, op *LayoutOp) {
	switch op.Op {
	case OpFill:
		layout.Fill(b.Builder, subject, b.Views[op.Child], geometry.Uniform(op.Insets))
	case OpPin:
		layout.Pin(b.Builder, subject, b.Views[op.Child], edgeMask(op.Edges), geometry.Uniform(op.Insets))
	case OpCenter:
		layout.Center(b.Builder, subject, b.Views[op.Child], op.DX, op.DY)
	case OpFixed:
		layout.FixedSize(b.Builder, b.Views[op.Child], geometry.Size{Width: op.Width, Height: op.Height})
	case OpHStack:
		layout.HStack(b.Builder, subject, b.childViews(op.Children), op.Gap)
	case OpVStack:
		layout.VStack(b.Builder, subject, b.childViews(op.Children), op.Gap)
	}
}

func (b *Build) childViews(names []string) []*view.View {
	out := make([]*view.View, 0, len(names))
	for _, name := range names {
		out = append(out, b.Views[name])
	}
	return out
}

func edgeMask(edges []string) layout.Edge {
	var mask layout.Edge
	for _, e := range edges {
		switch e {
		case "top":
			mask |= layout.EdgeTop
		case "left":
			mask |= layout.EdgeLeft
		case "bottom":
			mask |= layout.EdgeBottom
		case "right":
			mask |= layout.EdgeRight
		}
	}
	return mask
}

// RunScript executes the scene's script against the built tree. Mutations run
// in order; a turn step drains the run loop including idle callbacks, which
// flushes coalesced updates. The script always ends with an implicit turn so
// no update is left pending.
func (b *Build) RunScript() error {
	for i := range b.Scene.Script {
		if err := b.runStep(&b.Scene.Script[i]); err != nil {
			return fmt.Errorf("script[%d]: %w", i, err)
		}
	}
	b.Registry.Loop().Turn()
	return nil
}

func (b *Build) runStep(s *Step) error {
	if s.Op == StepTurn {
		b.Registry.Loop().Turn()
		return nil
	}

	v := b.Views[s.View]
	switch s.Op {
	case StepResize:
		bounds := v.Bounds()
		bounds.Width = s.Width
		bounds.Height = s.Height
		v.SetBounds(bounds)
	case StepHide:
		v.SetHidden(true)
	case StepShow:
		v.SetHidden(false)
	case StepTraits:
		v.SetTraits(view.NewTraits(s.Set...))
	case StepConfigure:
		v.SetActiveConfigurationName(s.Name)
	case StepScale:
		v.SetScale(s.Value)
	case StepWindow:
		v.SetInWindow(*s.On)
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}

	slog.Debug("script step",
		"scene", b.Scene.Name,
		"op", s.Op,
		"view", s.View,
	)
	return nil
}
