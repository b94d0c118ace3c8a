package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/view"
)

func TestMemoryRecorder_CopiesActiveIDs(t *testing.T) {
	reg := view.NewRegistry()
	v := reg.NewView("panel")

	rec := &MemoryRecorder{}
	ids := []string{"item-1"}
	rec.Pass(1, v, ids, true, false)
	ids[0] = "mutated"

	got := rec.Passes()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"item-1"}, got[0].ActiveIDs, "the recorder must not alias caller slices")
	assert.Equal(t, "panel", got[0].View)
	assert.Equal(t, int64(1), got[0].Seq)
}

func TestFanout(t *testing.T) {
	reg := view.NewRegistry()
	v := reg.NewView("panel")

	a := &MemoryRecorder{}
	b := &MemoryRecorder{}
	f := Fanout(a, b)

	f.Pass(1, v, []string{"item-1"}, true, true)
	require.Len(t, a.Passes(), 1)
	require.Len(t, b.Passes(), 1)
	assert.Equal(t, a.Passes(), b.Passes())
}

func TestCompare_Match(t *testing.T) {
	passes := []Pass{
		{Seq: 1, View: "panel", ActiveIDs: []string{"item-1"}, Changed: true},
		{Seq: 2, View: "panel", ActiveIDs: []string{"item-2"}, Changed: true, Animated: true},
	}
	assert.NoError(t, Compare(passes, passes))
	assert.NoError(t, Compare(nil, nil))
}

func TestCompare_Divergences(t *testing.T) {
	base := []Pass{
		{Seq: 1, View: "panel", ActiveIDs: []string{"item-1"}, Changed: true},
	}

	tests := []struct {
		name     string
		replayed []Pass
		field    string
	}{
		{"missing pass", nil, "pass count"},
		{
			"extra pass",
			append(append([]Pass(nil), base...), Pass{Seq: 2, View: "panel"}),
			"pass count",
		},
		{
			"sequence differs",
			[]Pass{{Seq: 9, View: "panel", ActiveIDs: []string{"item-1"}, Changed: true}},
			"seq",
		},
		{
			"view differs",
			[]Pass{{Seq: 1, View: "other", ActiveIDs: []string{"item-1"}, Changed: true}},
			"view",
		},
		{
			"changed flag differs",
			[]Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-1"}, Changed: false}},
			"changed",
		},
		{
			"animated flag differs",
			[]Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-1"}, Changed: true, Animated: true}},
			"animated",
		},
		{
			"active set size differs",
			[]Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-1", "item-2"}, Changed: true}},
			"active set size",
		},
		{
			"active id differs",
			[]Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-9"}, Changed: true}},
			"active[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compare(base, tt.replayed)
			require.Error(t, err)
			var div *Divergence
			require.ErrorAs(t, err, &div)
			assert.Equal(t, tt.field, div.Field)
		})
	}
}

func TestCompare_OrderSensitive(t *testing.T) {
	recorded := []Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-1", "item-2"}, Changed: true}}
	replayed := []Pass{{Seq: 1, View: "panel", ActiveIDs: []string{"item-2", "item-1"}, Changed: true}}

	err := Compare(recorded, replayed)
	require.Error(t, err, "activation order is part of the contract")
}

func TestRecorder_WritesToStore(t *testing.T) {
	s := openTestStore(t)
	reg := view.NewRegistry()
	v := reg.NewView("panel")

	id, err := s.BeginSession(context.Background(), "demo")
	require.NoError(t, err)

	rec := NewRecorder(s, id)
	assert.Equal(t, id, rec.SessionID())
	rec.Pass(1, v, []string{"item-1"}, true, false)
	rec.Pass(2, v, nil, false, false)

	passes, err := s.ReadPasses(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, []string{"item-1"}, passes[0].ActiveIDs)
	assert.False(t, passes[1].Changed)
}
