// Package scene loads declarative layout scenes from YAML files.
//
// A scene describes a view tree, a set of conditional layout rules, and an
// optional script of state mutations to drive against the tree. Scenes are
// the input format for the CLI (run, validate, replay) and the conformance
// harness; the CUE schema in schema.cue is the source of truth for the file
// format.
package scene

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene is a parsed scene file.
type Scene struct {
	// Name uniquely identifies this scene. Used as the trace session label
	// and the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scene demonstrates.
	Description string `yaml:"description,omitempty"`

	// Scale is the display scale (pixels per point) applied to every view.
	// Defaults to 1 when omitted.
	Scale float64 `yaml:"scale,omitempty"`

	// Views is the root view list. Roots with window: true are marked
	// on-screen after the tree is built.
	Views []ViewSpec `yaml:"views"`

	// Rules are the conditional layout rules, applied in order.
	Rules []Rule `yaml:"rules,omitempty"`

	// Script is the list of state mutations to execute after setup.
	Script []Step `yaml:"script,omitempty"`
}

// ViewSpec describes one view node.
type ViewSpec struct {
	Name     string     `yaml:"name"`
	Window   bool       `yaml:"window,omitempty"`
	Hidden   bool       `yaml:"hidden,omitempty"`
	Bounds   *RectSpec  `yaml:"bounds,omitempty"`
	Traits   []string   `yaml:"traits,omitempty"`
	Config   string     `yaml:"config,omitempty"`
	Subviews []ViewSpec `yaml:"subviews,omitempty"`
}

// RectSpec is a rect with an implicit (0,0) origin unless given.
type RectSpec struct {
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Rule binds layout operations to a condition on a subject view.
//
// Exactly one of When or Configuration must be set: When compiles to a
// condition tree, Configuration is sugar for a named-configuration condition
// bound to the subject.
type Rule struct {
	// View names the subject whose state the condition observes and whose
	// condition list receives the operations.
	View string `yaml:"view"`

	// When is the condition under which Then applies (and Else does not).
	When *ConditionSpec `yaml:"when,omitempty"`

	// Configuration makes Then active exactly while the subject's active
	// configuration name equals this value.
	Configuration string `yaml:"configuration,omitempty"`

	Then []LayoutOp `yaml:"then"`
	Else []LayoutOp `yaml:"else,omitempty"`

	// Animate opts the subject's updates into animated constraint swaps.
	Animate bool `yaml:"animate,omitempty"`

	// Direct disables update coalescing for the subject.
	Direct bool `yaml:"direct,omitempty"`
}

// ConditionSpec is the YAML condition grammar. Leaf fields set on the same
// node are ANDed; All/Any/Not nest freely. View redirects the subject the
// condition observes.
type ConditionSpec struct {
	All []ConditionSpec `yaml:"all,omitempty"`
	Any []ConditionSpec `yaml:"any,omitempty"`
	Not *ConditionSpec  `yaml:"not,omitempty"`

	MinWidth  *float64 `yaml:"minWidth,omitempty"`
	MaxWidth  *float64 `yaml:"maxWidth,omitempty"`
	MinHeight *float64 `yaml:"minHeight,omitempty"`
	MaxHeight *float64 `yaml:"maxHeight,omitempty"`

	Hidden *bool    `yaml:"hidden,omitempty"`
	Config string   `yaml:"config,omitempty"`
	Traits []string `yaml:"traits,omitempty"`

	// View binds the condition to a different view than the rule subject.
	View string `yaml:"view,omitempty"`
}

// LayoutOp is one layout operation inside a rule branch.
type LayoutOp struct {
	// Op selects the operation: fill, pin, center, fixed, hstack, vstack.
	Op string `yaml:"op"`

	Child    string   `yaml:"child,omitempty"`
	Children []string `yaml:"children,omitempty"`

	Edges  []string `yaml:"edges,omitempty"`
	Insets float64  `yaml:"insets,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Height float64  `yaml:"height,omitempty"`
	Gap    float64  `yaml:"gap,omitempty"`
	DX     float64  `yaml:"dx,omitempty"`
	DY     float64  `yaml:"dy,omitempty"`
}

// Layout op constants.
const (
	OpFill   = "fill"
	OpPin    = "pin"
	OpCenter = "center"
	OpFixed  = "fixed"
	OpHStack = "hstack"
	OpVStack = "vstack"
)

// Step is one scripted state mutation.
type Step struct {
	// Op selects the mutation: resize, hide, show, traits, configure,
	// scale, window, turn. A turn drains the run loop (including idle
	// callbacks), flushing coalesced updates.
	Op string `yaml:"op"`

	View   string   `yaml:"view,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Height float64  `yaml:"height,omitempty"`
	Set    []string `yaml:"set,omitempty"`
	Name   string   `yaml:"name,omitempty"`
	Value  float64  `yaml:"value,omitempty"`
	On     *bool    `yaml:"on,omitempty"`
}

// Step op constants.
const (
	StepResize    = "resize"
	StepHide      = "hide"
	StepShow      = "show"
	StepTraits    = "traits"
	StepConfigure = "configure"
	StepScale     = "scale"
	StepWindow    = "window"
	StepTurn      = "turn"
)

// Load reads and parses a scene YAML file. Unknown fields are rejected so
// typos fail loudly, and the scene is validated structurally (names resolve,
// ops are known, conditions well-formed) before it is returned.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse parses scene YAML bytes. See Load.
func Parse(data []byte) (*Scene, error) {
	var sc Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScene(&sc); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &sc, nil
}

// validateScene checks structural requirements: required fields, unique view
// names, resolvable references, known ops.
func validateScene(sc *Scene) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(sc.Views) == 0 {
		return fmt.Errorf("views list is required and must be non-empty")
	}
	if sc.Scale < 0 {
		return fmt.Errorf("scale must be positive")
	}

	names := make(map[string]bool)
	for i := range sc.Views {
		if err := validateViewSpec(&sc.Views[i], names); err != nil {
			return err
		}
	}

	for i := range sc.Rules {
		if err := validateRule(i, &sc.Rules[i], names); err != nil {
			return err
		}
	}

	for i := range sc.Script {
		if err := validateStep(i, &sc.Script[i], names); err != nil {
			return err
		}
	}
	return nil
}

func validateViewSpec(v *ViewSpec, names map[string]bool) error {
	if v.Name == "" {
		return fmt.Errorf("view name is required")
	}
	if names[v.Name] {
		return fmt.Errorf("duplicate view name: %q", v.Name)
	}
	names[v.Name] = true

	for i := range v.Subviews {
		if err := validateViewSpec(&v.Subviews[i], names); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(index int, r *Rule, names map[string]bool) error {
	if r.View == "" {
		return fmt.Errorf("rules[%d]: view is required", index)
	}
	if !names[r.View] {
		return fmt.Errorf("rules[%d]: unknown view %q", index, r.View)
	}
	if (r.When == nil) == (r.Configuration == "") {
		return fmt.Errorf("rules[%d]: exactly one of when or configuration is required", index)
	}
	if len(r.Then) == 0 {
		return fmt.Errorf("rules[%d]: then list is required and must be non-empty", index)
	}
	if r.When != nil {
		if err := validateConditionSpec(fmt.Sprintf("rules[%d].when", index), r.When, names); err != nil {
			return err
		}
	}
	for j := range r.Then {
		if err := validateLayoutOp(fmt.Sprintf("rules[%d].then[%d]", index, j), &r.Then[j], names); err != nil {
			return err
		}
	}
	for j := range r.Else {
		if err := validateLayoutOp(fmt.Sprintf("rules[%d].else[%d]", index, j), &r.Else[j], names); err != nil {
			return err
		}
	}
	return nil
}

func validateConditionSpec(path string, c *ConditionSpec, names map[string]bool) error {
	leaves := 0
	if c.MinWidth != nil {
		leaves++
	}
	if c.MaxWidth != nil {
		leaves++
	}
	if c.MinHeight != nil {
		leaves++
	}
	if c.MaxHeight != nil {
		leaves++
	}
	if c.Hidden != nil {
		leaves++
	}
	if c.Config != "" {
		leaves++
	}
	if len(c.Traits) > 0 {
		leaves++
	}
	combinators := 0
	if len(c.All) > 0 {
		combinators++
	}
	if len(c.Any) > 0 {
		combinators++
	}
	if c.Not != nil {
		combinators++
	}

	if leaves == 0 && combinators == 0 {
		return fmt.Errorf("%s: empty condition", path)
	}
	if combinators > 0 && leaves > 0 {
		return fmt.Errorf("%s: combinators and leaf tests cannot be mixed on one node", path)
	}
	if combinators > 1 {
		return fmt.Errorf("%s: only one of all, any, not per node", path)
	}
	if c.View != "" && !names[c.View] {
		return fmt.Errorf("%s: unknown view %q", path, c.View)
	}

	for i := range c.All {
		if err := validateConditionSpec(fmt.Sprintf("%s.all[%d]", path, i), &c.All[i], names); err != nil {
			return err
		}
	}
	for i := range c.Any {
		if err := validateConditionSpec(fmt.Sprintf("%s.any[%d]", path, i), &c.Any[i], names); err != nil {
			return err
		}
	}
	if c.Not != nil {
		if err := validateConditionSpec(path+".not", c.Not, names); err != nil {
			return err
		}
	}
	return nil
}

func validateLayoutOp(path string, op *LayoutOp, names map[string]bool) error {
	switch op.Op {
	case OpFill, OpPin, OpCenter, OpFixed:
		if op.Child == "" {
			return fmt.Errorf("%s: child is required for %s", path, op.Op)
		}
		if !names[op.Child] {
			return fmt.Errorf("%s: unknown view %q", path, op.Child)
		}
	case OpHStack, OpVStack:
		if len(op.Children) == 0 {
			return fmt.Errorf("%s: children list is required for %s", path, op.Op)
		}
		for _, name := range op.Children {
			if !names[name] {
				return fmt.Errorf("%s: unknown view %q", path, name)
			}
		}
	case "":
		return fmt.Errorf("%s: op is required", path)
	default:
		return fmt.Errorf("%s: unknown op %q", path, op.Op)
	}

	if op.Op == OpPin && len(op.Edges) == 0 {
		return fmt.Errorf("%s: edges list is required for pin", path)
	}
	for _, e := range op.Edges {
		switch e {
		case "top", "left", "bottom", "right":
		default:
			return fmt.Errorf("%s: unknown edge %q", path, e)
		}
	}
	return nil
}

func validateStep(index int, s *Step, names map[string]bool) error {
	path := fmt.Sprintf("script[%d]", index)
	switch s.Op {
	case StepTurn:
		return nil
	case StepResize, StepHide, StepShow, StepTraits, StepConfigure, StepScale, StepWindow:
		if s.View == "" {
			return fmt.Errorf("%s: view is required for %s", path, s.Op)
		}
		if !names[s.View] {
			return fmt.Errorf("%s: unknown view %q", path, s.View)
		}
	case "":
		return fmt.Errorf("%s: op is required", path)
	default:
		return fmt.Errorf("%s: unknown op %q", path, s.Op)
	}

	switch s.Op {
	case StepConfigure:
		if s.Name == "" {
			return fmt.Errorf("%s: name is required for configure", path)
		}
	case StepScale:
		if s.Value <= 0 {
			return fmt.Errorf("%s: value must be positive for scale", path)
		}
	case StepWindow:
		if s.On == nil {
			return fmt.Errorf("%s: on is required for window", path)
		}
	}
	return nil
}
