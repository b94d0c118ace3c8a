package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/geometry"
	"github.com/AndreasVerhoeven/condlayout/view"
)

func compileFor(t *testing.T, spec *ConditionSpec, views map[string]*view.View) func(*view.View) bool {
	t.Helper()
	cond, err := compileCondition(spec, func(name string) *view.View {
		return views[name]
	})
	require.NoError(t, err)
	return cond.Matches
}

func f64(v float64) *float64 { return &v }

func boolp(v bool) *bool { return &v }

func TestCompileCondition_Leaves(t *testing.T) {
	reg := view.NewRegistry()
	v := reg.NewView("subject")
	v.SetBounds(geometry.Rect{Width: 320, Height: 480})
	v.SetTraits(view.NewTraits("compact", "dark"))
	v.SetActiveConfigurationName("editing")

	tests := []struct {
		name string
		spec ConditionSpec
		want bool
	}{
		{"minWidth met", ConditionSpec{MinWidth: f64(320)}, true},
		{"minWidth unmet", ConditionSpec{MinWidth: f64(321)}, false},
		{"maxWidth met", ConditionSpec{MaxWidth: f64(400)}, true},
		{"minHeight met", ConditionSpec{MinHeight: f64(480)}, true},
		{"maxHeight unmet", ConditionSpec{MaxHeight: f64(479)}, false},
		{"hidden true unmet", ConditionSpec{Hidden: boolp(true)}, false},
		{"hidden false met", ConditionSpec{Hidden: boolp(false)}, true},
		{"config met", ConditionSpec{Config: "editing"}, true},
		{"config unmet", ConditionSpec{Config: "viewing"}, false},
		{"traits met", ConditionSpec{Traits: []string{"compact"}}, true},
		{"traits unmet", ConditionSpec{Traits: []string{"light"}}, false},
		{
			"leaves on one node AND together",
			ConditionSpec{MinWidth: f64(300), Config: "editing"},
			true,
		},
		{
			"one failing leaf fails the node",
			ConditionSpec{MinWidth: f64(300), Config: "viewing"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := compileFor(t, &tt.spec, nil)
			assert.Equal(t, tt.want, matches(v))
		})
	}
}

func TestCompileCondition_Combinators(t *testing.T) {
	reg := view.NewRegistry()
	v := reg.NewView("subject")
	v.SetBounds(geometry.Rect{Width: 320, Height: 480})

	all := ConditionSpec{All: []ConditionSpec{
		{MinWidth: f64(300)},
		{MaxHeight: f64(500)},
	}}
	assert.True(t, compileFor(t, &all, nil)(v))

	anyOf := ConditionSpec{Any: []ConditionSpec{
		{MinWidth: f64(1000)},
		{MinHeight: f64(400)},
	}}
	assert.True(t, compileFor(t, &anyOf, nil)(v))

	not := ConditionSpec{Not: &ConditionSpec{Hidden: boolp(true)}}
	assert.True(t, compileFor(t, &not, nil)(v))

	nested := ConditionSpec{All: []ConditionSpec{
		{Any: []ConditionSpec{{MinWidth: f64(1000)}, {MinWidth: f64(300)}}},
		{Not: &ConditionSpec{Config: "editing"}},
	}}
	assert.True(t, compileFor(t, &nested, nil)(v))
}

func TestCompileCondition_ViewBinding(t *testing.T) {
	reg := view.NewRegistry()
	subject := reg.NewView("subject")
	window := reg.NewView("window")
	window.SetBounds(geometry.Rect{Width: 900})

	spec := ConditionSpec{MinWidth: f64(600), View: "window"}
	matches := compileFor(t, &spec, map[string]*view.View{"window": window})

	assert.True(t, matches(subject), "the bound view's width decides, not the subject's")
	assert.True(t, matches(nil))
}

func TestCompileCondition_UnknownBindingFails(t *testing.T) {
	spec := ConditionSpec{MinWidth: f64(600), View: "ghost"}
	_, err := compileCondition(&spec, func(string) *view.View { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}
